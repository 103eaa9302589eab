package api

import (
	"net/http"

	gmux "github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/v1"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

// Mount pairs an API with the dispatcher serving it.
type Mount struct {
	API     v1.API
	Handler http.Handler
}

type Mux struct {
	router *gmux.Router
}

// NewMux mounts every dispatcher on one router. Mounts without a prefix
// are attached after the prefixed ones.
func NewMux(mounts ...Mount) (*Mux, error) {
	api := &Mux{
		router: v1.Router(),
	}

	ordered := make([]Mount, 0, len(mounts))
	var catchAll []Mount
	for _, m := range mounts {
		if m.API.Prefix == "" {
			catchAll = append(catchAll, m)
		} else {
			ordered = append(ordered, m)
		}
	}

	for _, m := range append(ordered, catchAll...) {
		if err := v1.Mount(api.router, m.API, m.Handler); err != nil {
			return nil, err
		}

		log.Debug("api mounted", zap.String("api", m.API.Name), zap.String("prefix", m.API.Prefix), zap.String("scope", m.API.Scope))
	}

	api.router.NotFoundHandler = http.HandlerFunc(notFoundHandler)
	return api, nil
}

func (api *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	api.router.ServeHTTP(w, r)
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Length", "0")
	w.WriteHeader(http.StatusNotFound)
}
