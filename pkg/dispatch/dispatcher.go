package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/util/log"
)

const SpanIDHeader = "X-Span-ID"

type Options struct {
	// Prefix is prepended to every operation path, e.g. "/nsmf-pdusession/v1".
	Prefix string

	// GenericErrorStatus is sent for TagGenericError responses. Zero means 500.
	GenericErrorStatus int
}

type compiledOp[API Readiness] struct {
	desc   *Descriptor
	invoke func(ctx context.Context, api API, in interface{}) (Response, error)
}

// Dispatcher serves one API: it routes, authorizes, extracts parameters,
// invokes api and encodes the result.
type Dispatcher[API Readiness] struct {
	api     API
	table   *Table
	encoder Encoder
	ops     []*compiledOp[API]
}

var _ http.Handler = (*Dispatcher[Readiness])(nil)

// New compiles ops into a route table. Every error it returns is a
// configuration error and the caller should not start serving.
func New[API Readiness](api API, ops []Operation[API], opts Options) (*Dispatcher[API], error) {
	if opts.GenericErrorStatus == 0 {
		opts.GenericErrorStatus = http.StatusInternalServerError
	}

	if opts.GenericErrorStatus < 100 || opts.GenericErrorStatus > 599 {
		return nil, fmt.Errorf("invalid generic error status %d", opts.GenericErrorStatus)
	}

	d := &Dispatcher[API]{
		api:     api,
		table:   NewTable(opts.Prefix),
		encoder: Encoder{GenericErrorStatus: opts.GenericErrorStatus},
	}

	for i := range ops {
		desc := ops[i].Descriptor
		desc.normalize()
		if err := ValidateVariants(desc.Name, desc.Variants); err != nil {
			return nil, err
		}

		b, err := compileBinder(ops[i].input)
		if err != nil {
			return nil, fmt.Errorf("operation %s: %v", desc.Name, err)
		}

		desc.binder = b
		op := &compiledOp[API]{desc: &desc, invoke: ops[i].invoke}
		if err := d.table.Register(op.desc, d.handler(op)); err != nil {
			return nil, err
		}

		if err := checkCaptures(op.desc, b); err != nil {
			return nil, err
		}

		d.ops = append(d.ops, op)
	}

	return d, nil
}

func checkCaptures(desc *Descriptor, b *binder) error {
	captures := desc.pattern.Captures()
	bound := b.pathNames()
	sort.Strings(captures)
	sort.Strings(bound)
	if fmt.Sprint(captures) != fmt.Sprint(bound) {
		return fmt.Errorf("operation %s: path captures %v do not match path parameters %v", desc.Name, captures, bound)
	}

	return nil
}

func (d *Dispatcher[API]) Table() *Table {
	return d.table
}

func (d *Dispatcher[API]) Prefix() string {
	return d.table.Prefix()
}

func (d *Dispatcher[API]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc := GetRequestContext(r.Context())
	if rc.SpanID != "" {
		w.Header().Set(SpanIDHeader, rc.SpanID)
	}

	d.table.ServeHTTP(w, r)
}

func (d *Dispatcher[API]) handler(op *compiledOp[API]) http.Handler {
	desc := op.desc
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		rc := GetRequestContext(ctx)
		fields := []zap.Field{zap.String("operation", desc.Name), zap.String("span", rc.SpanID)}

		if err := authorize(rc, desc.Scopes); err != nil {
			log.Info("request denied", append(fields, zap.Error(err))...)
			writeError(w, err)
			return
		}

		unused := &UnusedFieldLog{}
		in := desc.binder.newInput()
		if err := desc.binder.bindParams(r, mux.Vars(r), in); err != nil {
			writeError(w, err)
			return
		}

		if err := desc.binder.bindBody(r, desc.Name, in, unused); err != nil {
			writeError(w, err)
			return
		}

		if unused.Len() > 0 {
			log.Warn("ignoring unknown fields in body", append(fields, zap.Strings("fields", unused.Entries()))...)
			w.Header().Set("Warning", unused.Warning())
		}

		if !d.api.Ready(ctx) {
			writeError(w, ErrorCodeNotReady)
			return
		}

		log.Debug("dispatching operation", fields...)
		resp, err := op.invoke(ctx, d.api, in.Interface())
		if err != nil {
			log.Error("operation handler failed", append(fields, zap.Error(err))...)
			writeError(w, ErrorCodeHandlerFault)
			return
		}

		if err := d.encoder.Encode(w, desc, resp); err != nil {
			log.Error("response encoding failed", append(fields, zap.Error(err))...)
			writeError(w, err)
		}
	})
}

func writeError(w http.ResponseWriter, err error) {
	status, message := statusAndMessage(err)
	h := w.Header()
	h.Del("Location")
	if message == "" {
		h.Del("Content-Type")
		w.WriteHeader(status)
		return
	}

	h.Set("Content-Type", "text/plain; charset=utf-8")
	h.Del("Content-Length")
	w.WriteHeader(status)
	io.WriteString(w, message)
}
