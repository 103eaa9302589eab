package dispatch

import (
	"fmt"
	"strings"
)

type CaptureKind int

const (
	// CaptureNone marks a literal segment.
	CaptureNone CaptureKind = iota
	// CaptureSegment matches exactly one path segment.
	CaptureSegment
	// CaptureURI matches one or more segments, slashes included.
	CaptureURI
)

type Segment struct {
	Literal string
	Capture string
	Kind    CaptureKind
}

// RoutePattern is a parsed path template such as
// "/sm-contexts/{smContextRef}/release" or "/{+smContextStatusUri}".
type RoutePattern struct {
	Template string
	Segments []Segment
}

func ParsePattern(template string) (RoutePattern, error) {
	p := RoutePattern{Template: template}
	if !strings.HasPrefix(template, "/") {
		return p, fmt.Errorf("pattern %q: must start with a slash", template)
	}

	seen := make(map[string]bool)
	uriCaptures := 0
	for _, raw := range strings.Split(template[1:], "/") {
		seg, err := parseSegment(raw)
		if err != nil {
			return p, fmt.Errorf("pattern %q: %v", template, err)
		}

		if seg.Kind != CaptureNone {
			if seen[seg.Capture] {
				return p, fmt.Errorf("pattern %q: duplicate capture %q", template, seg.Capture)
			}

			seen[seg.Capture] = true
		}

		if seg.Kind == CaptureURI {
			uriCaptures++
		}

		p.Segments = append(p.Segments, seg)
	}

	if uriCaptures > 1 {
		return p, fmt.Errorf("pattern %q: at most one uri capture is allowed", template)
	}

	return p, nil
}

func parseSegment(raw string) (Segment, error) {
	open := strings.IndexByte(raw, '{')
	close := strings.IndexByte(raw, '}')
	if open < 0 && close < 0 {
		return Segment{Literal: raw}, nil
	}

	if open != 0 || close != len(raw)-1 {
		return Segment{}, fmt.Errorf("capture must span a whole segment, got %q", raw)
	}

	name := raw[1 : len(raw)-1]
	kind := CaptureSegment
	if strings.HasPrefix(name, "+") {
		name = name[1:]
		kind = CaptureURI
	}

	if !validCaptureName(name) {
		return Segment{}, fmt.Errorf("invalid capture name %q", name)
	}

	return Segment{Capture: name, Kind: kind}, nil
}

func validCaptureName(name string) bool {
	if name == "" {
		return false
	}

	for i, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c == '_':
		case i > 0 && (c >= '0' && c <= '9' || c == '-'):
		default:
			return false
		}
	}

	return true
}

// Captures lists the capture names in template order.
func (p RoutePattern) Captures() []string {
	var names []string
	for _, seg := range p.Segments {
		if seg.Kind != CaptureNone {
			names = append(names, seg.Capture)
		}
	}

	return names
}

// Shape erases capture names so that patterns which always match the
// same paths compare equal.
func (p RoutePattern) Shape() string {
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteByte('/')
		switch seg.Kind {
		case CaptureSegment:
			b.WriteString("{}")
		case CaptureURI:
			b.WriteString("{+}")
		default:
			b.WriteString(seg.Literal)
		}
	}

	return b.String()
}

// MuxTemplate renders the pattern in gorilla/mux template syntax.
// Literal text is quoted by mux itself.
func (p RoutePattern) MuxTemplate() string {
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteByte('/')
		switch seg.Kind {
		case CaptureSegment:
			b.WriteString("{" + seg.Capture + "}")
		case CaptureURI:
			b.WriteString("{" + seg.Capture + ":.+}")
		default:
			b.WriteString(seg.Literal)
		}
	}

	return b.String()
}

// OpenAPIPath renders the pattern as an OpenAPI path key.
func (p RoutePattern) OpenAPIPath() string {
	var b strings.Builder
	for _, seg := range p.Segments {
		b.WriteByte('/')
		if seg.Kind != CaptureNone {
			b.WriteString("{" + seg.Capture + "}")
		} else {
			b.WriteString(seg.Literal)
		}
	}

	return b.String()
}

// ParsePrefixedPattern parses template mounted under prefix.
func ParsePrefixedPattern(prefix, template string) (RoutePattern, error) {
	return ParsePattern(strings.TrimSuffix(prefix, "/") + template)
}
