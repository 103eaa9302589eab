package dispatch

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// Table is the ordered route table of one API. Registration order is
// match order.
type Table struct {
	prefix      string
	router      *mux.Router
	descriptors []*Descriptor
	byName      map[string]*Descriptor
	shapes      map[string]string
}

func NewTable(prefix string) *Table {
	router := mux.NewRouter().UseEncodedPath().SkipClean(true)
	t := &Table{
		prefix: prefix,
		router: router,
		byName: make(map[string]*Descriptor),
		shapes: make(map[string]string),
	}

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, ErrorCodeRouteNotFound)
	})

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, ErrorCodeMethodNotAllowed)
	})

	return t
}

// Register adds d to the table. It fails when d's pattern does not compile
// or another operation already claims the same method and route shape.
func (t *Table) Register(d *Descriptor, h http.Handler) error {
	if d.Name == "" {
		return fmt.Errorf("operation without name at %s %s", d.Method, d.Path)
	}

	if _, ok := t.byName[d.Name]; ok {
		return fmt.Errorf("operation %s registered twice", d.Name)
	}

	pattern, err := ParsePrefixedPattern(t.prefix, d.Path)
	if err != nil {
		return fmt.Errorf("operation %s: %v", d.Name, err)
	}

	key := d.Method + " " + pattern.Shape()
	if other, ok := t.shapes[key]; ok {
		return fmt.Errorf("operation %s conflicts with %s on %s", d.Name, other, key)
	}

	route := t.router.Methods(d.Method).Path(pattern.MuxTemplate()).Name(d.Name).Handler(h)
	if err := route.GetError(); err != nil {
		return fmt.Errorf("operation %s: %v", d.Name, err)
	}

	d.pattern = pattern
	t.shapes[key] = d.Name
	t.byName[d.Name] = d
	t.descriptors = append(t.descriptors, d)
	return nil
}

// Lookup matches r without serving it. It returns the raw percent-encoded
// captures of the matched route.
func (t *Table) Lookup(r *http.Request) (*Descriptor, map[string]string, error) {
	var m mux.RouteMatch
	matched := t.router.Match(r, &m)
	switch {
	case m.MatchErr == mux.ErrMethodMismatch:
		return nil, nil, ErrorCodeMethodNotAllowed
	case !matched || m.MatchErr != nil || m.Route == nil:
		return nil, nil, ErrorCodeRouteNotFound
	}

	return t.byName[m.Route.GetName()], m.Vars, nil
}

func (t *Table) Descriptors() []*Descriptor {
	return append([]*Descriptor(nil), t.descriptors...)
}

func (t *Table) Prefix() string {
	return t.prefix
}

func (t *Table) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.router.ServeHTTP(w, r)
}
