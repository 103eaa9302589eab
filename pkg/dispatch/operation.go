package dispatch

import (
	"context"
	"net/http"
	"reflect"
	"strings"
)

// Readiness is embedded by every API interface. Ready must not block.
type Readiness interface {
	Ready(ctx context.Context) bool
}

// AlwaysReady can be embedded by implementations with no capacity limit.
type AlwaysReady struct{}

func (AlwaysReady) Ready(context.Context) bool {
	return true
}

// Descriptor is one documented API operation.
type Descriptor struct {
	Name     string
	Method   string
	Path     string
	Scopes   []string
	Summary  string
	Variants []Variant

	pattern  RoutePattern
	variants map[Tag]Variant
	binder   *binder
}

// FullPath is Path with the table prefix applied.
func (d *Descriptor) FullPath() string {
	return d.pattern.Template
}

func (d *Descriptor) Variant(tag Tag) (Variant, bool) {
	v, ok := d.variants[tag]
	return v, ok
}

// Operation pairs a Descriptor with the API method that serves it.
type Operation[API any] struct {
	Descriptor
	input  reflect.Type
	invoke func(ctx context.Context, api API, in interface{}) (Response, error)
}

// Bind builds an Operation from a method expression such as
// Server.ReleaseSmContext.
func Bind[API any, In any](d Descriptor, method func(API, context.Context, *In) (Response, error)) Operation[API] {
	return Operation[API]{
		Descriptor: d,
		input:      typeOf[In](),
		invoke: func(ctx context.Context, api API, in interface{}) (Response, error) {
			return method(api, ctx, in.(*In))
		},
	}
}

// NoParams is the input of operations that take no parameters.
type NoParams struct{}

func (d *Descriptor) normalize() {
	d.Method = strings.ToUpper(d.Method)
	if d.Method == "" {
		d.Method = http.MethodGet
	}

	d.variants = variantIndex(d.Variants)
}
