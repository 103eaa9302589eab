package dispatch

import (
	"fmt"
	"net/http"
	"reflect"
	"sort"
	"strings"
)

// Tag names one member of an operation's response union.
type Tag string

const (
	TagOK                   Tag = "OK"
	TagCreated              Tag = "Created"
	TagNoContent            Tag = "NoContent"
	TagTemporaryRedirect    Tag = "TemporaryRedirect"
	TagPermanentRedirect    Tag = "PermanentRedirect"
	TagBadRequest           Tag = "BadRequest"
	TagForbidden            Tag = "Forbidden"
	TagNotFound             Tag = "NotFound"
	TagNotAcceptable        Tag = "NotAcceptable"
	TagLengthRequired       Tag = "LengthRequired"
	TagPayloadTooLarge      Tag = "PayloadTooLarge"
	TagURITooLong           Tag = "URITooLong"
	TagUnsupportedMediaType Tag = "UnsupportedMediaType"
	TagTooManyRequests      Tag = "TooManyRequests"
	TagInternalError        Tag = "InternalError"
	TagNotImplemented       Tag = "NotImplemented"
	TagServiceUnavailable   Tag = "ServiceUnavailable"
	TagGatewayTimeout       Tag = "GatewayTimeout"

	// TagGenericError covers undocumented responses. It has no status of
	// its own and is encoded with Options.GenericErrorStatus.
	TagGenericError Tag = "GenericError"
)

const (
	ContentTypeJSON      = "application/json"
	ContentTypeProblem   = "application/problem+json"
	ContentTypeMultipart = "multipart/related"
)

// TargetNfIDHeader identifies the NF instance a redirect points at.
const TargetNfIDHeader = "3gpp-Sbi-Target-Nf-Id"

// Response is what an operation handler returns.
type Response struct {
	Tag      Tag
	Body     interface{}
	Location string
	Header   http.Header
}

func Respond(tag Tag, body interface{}) Response {
	return Response{Tag: tag, Body: body}
}

func (r Response) WithLocation(location string) Response {
	r.Location = location
	return r
}

func (r Response) WithHeader(name, value string) Response {
	h := make(http.Header, len(r.Header)+1)
	for k, v := range r.Header {
		h[k] = append([]string(nil), v...)
	}

	h.Set(name, value)
	r.Header = h
	return r
}

// Variant binds a response tag to its wire form.
type Variant struct {
	Tag         Tag
	Status      int
	ContentType string
	Body        reflect.Type
	Location    bool
	Headers     []string
	Description string
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// JSON declares a variant with a JSON body of type T.
func JSON[T any](tag Tag, status int) Variant {
	return Variant{Tag: tag, Status: status, ContentType: ContentTypeJSON, Body: typeOf[T]()}
}

// Problem declares an error variant whose body is served as problem+json.
func Problem[T any](tag Tag, status int) Variant {
	return Variant{Tag: tag, Status: status, ContentType: ContentTypeProblem, Body: typeOf[T]()}
}

func Empty(tag Tag, status int) Variant {
	return Variant{Tag: tag, Status: status}
}

// Redirect declares a 307/308 style variant with a mandatory Location and
// an optional target NF id.
func Redirect[T any](tag Tag, status int) Variant {
	return JSON[T](tag, status).WithLocation().WithHeaders(TargetNfIDHeader)
}

func MultipartBody(tag Tag, status int) Variant {
	return Variant{Tag: tag, Status: status, ContentType: ContentTypeMultipart, Body: typeOf[Multipart]()}
}

func GenericError[T any]() Variant {
	return Problem[T](TagGenericError, 0)
}

func (v Variant) WithLocation() Variant {
	v.Location = true
	return v
}

func (v Variant) WithHeaders(names ...string) Variant {
	v.Headers = append(append([]string(nil), v.Headers...), names...)
	return v
}

func (v Variant) WithDescription(d string) Variant {
	v.Description = d
	return v
}

func (v Variant) allowsHeader(name string) bool {
	canonical := http.CanonicalHeaderKey(name)
	for _, h := range v.Headers {
		if http.CanonicalHeaderKey(h) == canonical {
			return true
		}
	}

	return false
}

// ValidateVariants checks that tags and statuses map one to one. The
// generic error variant is exempt from the status check and may appear
// at most once.
func ValidateVariants(op string, variants []Variant) error {
	tags := make(map[Tag]bool, len(variants))
	statuses := make(map[int]Tag, len(variants))
	for _, v := range variants {
		if v.Tag == "" {
			return fmt.Errorf("operation %s: variant without tag", op)
		}

		if tags[v.Tag] {
			return fmt.Errorf("operation %s: duplicate variant %s", op, v.Tag)
		}

		tags[v.Tag] = true
		if v.Tag == TagGenericError {
			if v.Status != 0 {
				return fmt.Errorf("operation %s: generic error variant must not bind a status", op)
			}

			continue
		}

		if v.Status < 100 || v.Status > 599 {
			return fmt.Errorf("operation %s: variant %s has invalid status %d", op, v.Tag, v.Status)
		}

		if other, ok := statuses[v.Status]; ok {
			return fmt.Errorf("operation %s: variants %s and %s share status %d", op, other, v.Tag, v.Status)
		}

		statuses[v.Status] = v.Tag
		if v.Body != nil && v.ContentType == "" {
			return fmt.Errorf("operation %s: variant %s has a body but no content type", op, v.Tag)
		}
	}

	return nil
}

func variantIndex(variants []Variant) map[Tag]Variant {
	idx := make(map[Tag]Variant, len(variants))
	for _, v := range variants {
		idx[v.Tag] = v
	}

	return idx
}

// Statuses lists the documented statuses in ascending order.
func Statuses(variants []Variant) []int {
	var out []int
	for _, v := range variants {
		if v.Tag != TagGenericError {
			out = append(out, v.Status)
		}
	}

	sort.Ints(out)
	return out
}

var statusTags = map[int]Tag{
	http.StatusOK:                    TagOK,
	http.StatusCreated:               TagCreated,
	http.StatusNoContent:             TagNoContent,
	http.StatusTemporaryRedirect:     TagTemporaryRedirect,
	http.StatusPermanentRedirect:     TagPermanentRedirect,
	http.StatusBadRequest:            TagBadRequest,
	http.StatusForbidden:             TagForbidden,
	http.StatusNotFound:              TagNotFound,
	http.StatusNotAcceptable:         TagNotAcceptable,
	http.StatusLengthRequired:        TagLengthRequired,
	http.StatusRequestEntityTooLarge: TagPayloadTooLarge,
	http.StatusRequestURITooLong:     TagURITooLong,
	http.StatusUnsupportedMediaType:  TagUnsupportedMediaType,
	http.StatusTooManyRequests:       TagTooManyRequests,
	http.StatusInternalServerError:   TagInternalError,
	http.StatusNotImplemented:        TagNotImplemented,
	http.StatusServiceUnavailable:    TagServiceUnavailable,
	http.StatusGatewayTimeout:        TagGatewayTimeout,
}

// TagForStatus returns the conventional tag for status.
func TagForStatus(status int) Tag {
	if tag, ok := statusTags[status]; ok {
		return tag
	}

	return Tag(strings.ReplaceAll(http.StatusText(status), " ", ""))
}

// Problems declares one problem+json variant per status.
func Problems[T any](statuses ...int) []Variant {
	out := make([]Variant, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, Problem[T](TagForStatus(status), status))
	}

	return out
}

// Errors declares one JSON error variant per status, for APIs whose error
// bodies wrap a ProblemDetails.
func Errors[T any](statuses ...int) []Variant {
	out := make([]Variant, 0, len(statuses))
	for _, status := range statuses {
		out = append(out, JSON[T](TagForStatus(status), status))
	}

	return out
}

// Redirects declares the 307 and 308 variants every SBI operation carries.
func Redirects[T any]() []Variant {
	return []Variant{
		Redirect[T](TagTemporaryRedirect, http.StatusTemporaryRedirect),
		Redirect[T](TagPermanentRedirect, http.StatusPermanentRedirect),
	}
}

// Join concatenates variant groups.
func Join(groups ...[]Variant) []Variant {
	var out []Variant
	for _, g := range groups {
		out = append(out, g...)
	}

	return out
}
