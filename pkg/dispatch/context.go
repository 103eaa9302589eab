package dispatch

import (
	"context"
	"sort"
	"strings"
)

type ContextKey int

const RequestContextKey ContextKey = 1

// RequestContext is the per-request value handed to every operation. It is
// built upstream of the dispatcher and never modified afterwards.
type RequestContext struct {
	SpanID    string
	Principal *Principal
}

func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, RequestContextKey, rc)
}

func GetRequestContext(ctx context.Context) RequestContext {
	if rc, ok := ctx.Value(RequestContextKey).(RequestContext); ok {
		return rc
	}

	return RequestContext{}
}

type Principal struct {
	Subject string
	Scopes  Scopes
}

// Scopes is an immutable set of granted scopes.
type Scopes struct {
	all     bool
	granted map[string]struct{}
}

func AllScopes() Scopes {
	return Scopes{all: true}
}

func NewScopes(scopes ...string) Scopes {
	s := Scopes{granted: make(map[string]struct{}, len(scopes))}
	for _, scope := range scopes {
		if scope = strings.TrimSpace(scope); scope != "" {
			s.granted[scope] = struct{}{}
		}
	}

	return s
}

// ParseScopes reads an OAuth2 space-delimited scope string.
func ParseScopes(scope string) Scopes {
	return NewScopes(strings.Fields(scope)...)
}

func (s Scopes) All() bool {
	return s.all
}

func (s Scopes) Has(scope string) bool {
	if s.all {
		return true
	}

	_, ok := s.granted[scope]
	return ok
}

// Missing returns the sorted required scopes that are not granted.
func (s Scopes) Missing(required []string) []string {
	if s.all {
		return nil
	}

	var missing []string
	seen := make(map[string]bool, len(required))
	for _, scope := range required {
		if !seen[scope] && !s.Has(scope) {
			missing = append(missing, scope)
		}

		seen[scope] = true
	}

	sort.Strings(missing)
	return missing
}

func (s Scopes) List() []string {
	list := make([]string, 0, len(s.granted))
	for scope := range s.granted {
		list = append(list, scope)
	}

	sort.Strings(list)
	return list
}
