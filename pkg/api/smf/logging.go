package smf

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/dispatch"
	"github.com/danielkrainas/sbi/pkg/util/log"
)

// LoggingServer decorates a Server with one log line per operation.
type LoggingServer struct {
	Next Server
}

var _ Server = (*LoggingServer)(nil)

func (s *LoggingServer) observe(ctx context.Context, op string, started time.Time, resp dispatch.Response, err error) {
	fields := []zap.Field{
		zap.String("operation", op),
		zap.String("span", dispatch.GetRequestContext(ctx).SpanID),
		zap.Duration("duration", time.Since(started)),
	}

	if err != nil {
		log.Error("smf operation failed", append(fields, zap.Error(err))...)
		return
	}

	log.Info("smf operation completed", append(fields, zap.String("response", string(resp.Tag)))...)
}

func (s *LoggingServer) Ready(ctx context.Context) bool {
	return s.Next.Ready(ctx)
}

func (s *LoggingServer) PostSmContexts(ctx context.Context, in *PostSmContextsParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "PostSmContexts", started, resp, err) }(time.Now())
	return s.Next.PostSmContexts(ctx, in)
}

func (s *LoggingServer) ReleaseSmContext(ctx context.Context, in *ReleaseSmContextParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "ReleaseSmContext", started, resp, err) }(time.Now())
	return s.Next.ReleaseSmContext(ctx, in)
}

func (s *LoggingServer) RetrieveSmContext(ctx context.Context, in *RetrieveSmContextParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "RetrieveSmContext", started, resp, err) }(time.Now())
	return s.Next.RetrieveSmContext(ctx, in)
}

func (s *LoggingServer) UpdateSmContext(ctx context.Context, in *UpdateSmContextParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "UpdateSmContext", started, resp, err) }(time.Now())
	return s.Next.UpdateSmContext(ctx, in)
}

func (s *LoggingServer) PostPduSessions(ctx context.Context, in *PostPduSessionsParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "PostPduSessions", started, resp, err) }(time.Now())
	return s.Next.PostPduSessions(ctx, in)
}

func (s *LoggingServer) ReleasePduSession(ctx context.Context, in *ReleasePduSessionParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "ReleasePduSession", started, resp, err) }(time.Now())
	return s.Next.ReleasePduSession(ctx, in)
}

func (s *LoggingServer) RetrievePduSession(ctx context.Context, in *RetrievePduSessionParams) (resp dispatch.Response, err error) {
	defer func(started time.Time) { s.observe(ctx, "RetrievePduSession", started, resp, err) }(time.Now())
	return s.Next.RetrievePduSession(ctx, in)
}
