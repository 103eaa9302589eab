package v1

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Router returns the root router that API dispatchers are mounted on.
// Paths are matched encoded and never cleaned so that percent-encoded
// captures reach the dispatchers intact.
func Router() *mux.Router {
	return mux.NewRouter().UseEncodedPath().SkipClean(true)
}

// Mount attaches handler under the API's prefix. An API without a prefix
// takes every path and must be mounted last.
func Mount(router *mux.Router, api API, handler http.Handler) error {
	prefix := api.Prefix
	if prefix == "" {
		prefix = "/"
	}

	return router.PathPrefix(prefix).Name(api.Name).Handler(handler).GetError()
}
