package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielkrainas/gobag/context"
	"github.com/danielkrainas/gobag/http"
	"github.com/urfave/negroni"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

func aliveHandler(path string) negroni.Handler {
	return negroni.HandlerFunc(func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		if r.URL.Path == path {
			w.Header().Set("Cache-Control", "no-cache")
			w.WriteHeader(http.StatusOK)
			return
		}

		next(w, r)
	})
}

// contextHandler builds the immutable dispatch.RequestContext: the span id
// comes from the X-Span-ID header or is generated, the principal from the
// authenticator.
func contextHandler(parent context.Context, auth Authenticator) negroni.Handler {
	return negroni.HandlerFunc(func(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
		ctx := bagcontext.WithRequest(parent, r)
		ctx = bagcontext.WithVars(ctx, r)
		spanID := r.Header.Get(dispatch.SpanIDHeader)
		if spanID == "" {
			spanID = bagcontext.GetRequestID(ctx)
		}

		principal, err := auth.Authenticate(r)
		if err != nil {
			log.Info("request not authenticated", zap.String("span", spanID), zap.Error(err))
		}

		ctx = dispatch.WithRequestContext(ctx, dispatch.RequestContext{
			SpanID:    spanID,
			Principal: principal,
		})

		ctx = bagcontext.WithLogger(ctx, bagcontext.GetLoggerWithField(ctx, "span", spanID))
		next(w, r.WithContext(ctx))
	})
}

func loggingHandler(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	started := time.Now()
	iw, instrumented := baghttp.NewInstrumentedResponseWriter(w)
	next(iw, r)

	info := instrumented.Info()
	log.Info("response completed",
		zap.String("span", dispatch.GetRequestContext(r.Context()).SpanID),
		zap.String("method", r.Method),
		zap.String("uri", r.RequestURI),
		zap.String("remote", baghttp.RemoteAddr(r)),
		zap.Int32("status", info.Status),
		zap.Int64("written", info.Written),
		zap.Duration("duration", time.Since(started)))
}

// spanHeaderHandler echoes the span id on responses that never reach a
// dispatcher, such as root-level 404s and recovered panics.
func spanHeaderHandler(w http.ResponseWriter, r *http.Request, next http.HandlerFunc) {
	if spanID := dispatch.GetRequestContext(r.Context()).SpanID; spanID != "" {
		w.Header().Set(dispatch.SpanIDHeader, spanID)
	}

	next(w, r)
}
