package api

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/danielkrainas/gobag/context"
	"github.com/urfave/negroni"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/api/v1"
	"github.com/danielkrainas/sbi/pkg/service"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

type ServerConfig struct {
	Name          string
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	Authenticator Authenticator
}

func NewServer(ctx context.Context, mux http.Handler, config ServerConfig) (*Server, error) {
	if config.Authenticator == nil {
		config.Authenticator = AnonymousAuthenticator{}
	}

	recovery := negroni.NewRecovery()
	recovery.Logger = negroni.ALogger(bagcontext.GetLogger(ctx))
	recovery.PrintStack = false

	n := negroni.New()
	n.Use(contextHandler(ctx, config.Authenticator))
	n.UseFunc(spanHeaderHandler)
	n.UseFunc(loggingHandler)
	n.Use(recovery)
	n.Use(aliveHandler("/"))
	n.UseHandler(mux)

	srv := &Server{
		Context: ctx,
		config:  config,
		handler: n,
	}

	srv.server = &http.Server{
		Addr:         config.Addr,
		Handler:      srv,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		ErrorLog:     log.StdLogger(),
	}

	return srv, nil
}

type Server struct {
	context.Context

	config  ServerConfig
	server  *http.Server
	handler http.Handler
}

var _ service.Component = (*Server)(nil)

func (srv *Server) ComponentName() string {
	return "http_" + srv.config.Name
}

func (srv *Server) Run(ctx service.ComponentRunContext) error {
	ln, err := net.Listen("tcp", srv.config.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("server", srv.config.Name), zap.Stringer("addr", ln.Addr()))
		errCh <- srv.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}

		return err
	case <-ctx.QuitCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.server.Shutdown(shutdownCtx)
}

func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	w.Header().Add(v1.VersionHeader.Name, bagcontext.GetVersion(srv))
	srv.handler.ServeHTTP(w, r)
}
