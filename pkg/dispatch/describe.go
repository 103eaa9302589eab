package dispatch

import (
	"net/http"
	"reflect"

	"github.com/danielkrainas/gobag/api/describe"
	"github.com/danielkrainas/gobag/errcode"
)

var (
	SpanIDParameter = describe.Parameter{
		Name:        SpanIDHeader,
		Type:        "string",
		Description: "Correlation id of the request, echoed on every response.",
		Format:      "<ksuid>",
		Examples:    []string{"1RZxPqBNMasdDhmVryPBeKok6Bi"},
	}

	WarningParameter = describe.Parameter{
		Name:        "Warning",
		Type:        "string",
		Description: "Lists payload elements that were ignored.",
		Format:      `299 - "Ignoring unknown fields in body: <fields>"`,
	}
)

// Describe renders the table as gobag route descriptions, one per operation.
func (d *Dispatcher[API]) Describe() []describe.Route {
	routes := make([]describe.Route, 0, len(d.ops))
	for _, op := range d.ops {
		routes = append(routes, describeOperation(op.desc))
	}

	return routes
}

func describeOperation(desc *Descriptor) describe.Route {
	req := describe.Request{
		Name:        desc.Name,
		Description: desc.Summary,
		Headers:     []describe.Parameter{SpanIDParameter},
	}

	b := desc.binder
	for _, p := range b.params {
		param := describe.Parameter{
			Name:     p.name,
			Type:     typeName(p.typ),
			Required: p.required,
		}

		if p.json {
			param.Format = "json"
		}

		switch p.loc {
		case inPath:
			req.PathParameters = append(req.PathParameters, param)
		case inQuery:
			req.QueryParameters = append(req.QueryParameters, param)
		case inHeader:
			req.Headers = append(req.Headers, param)
		}
	}

	switch {
	case b.body != nil:
		req.Body = describe.Body{ContentType: ContentTypeJSON, Format: typeName(b.body.typ)}
	case len(b.parts) > 0:
		req.Body = describe.Body{ContentType: ContentTypeMultipart, Format: partsFormat(b.parts)}
	}

	for _, v := range desc.Variants {
		resp := describe.Response{
			Name:        string(v.Tag),
			Description: v.Description,
			StatusCode:  v.Status,
			Headers:     []describe.Parameter{SpanIDParameter},
		}

		if v.Body != nil {
			resp.Body = describe.Body{ContentType: v.ContentType, Format: typeName(v.Body)}
		}

		if v.Location {
			resp.Headers = append(resp.Headers, describe.Parameter{Name: "Location", Type: "uri", Required: true})
		}

		for _, h := range v.Headers {
			resp.Headers = append(resp.Headers, describe.Parameter{Name: h, Type: "string"})
		}

		if v.Status >= 200 && v.Status < 400 {
			req.Successes = append(req.Successes, resp)
		} else {
			req.Failures = append(req.Failures, resp)
		}
	}

	req.Failures = append(req.Failures, describeErrors(desc)...)
	return describe.Route{
		Name:        desc.Name,
		Path:        desc.FullPath(),
		Description: desc.Summary,
		Methods: []describe.Method{{
			Method:      desc.Method,
			Description: desc.Summary,
			Requests:    []describe.Request{req},
		}},
	}
}

func describeErrors(desc *Descriptor) []describe.Response {
	byStatus := map[int][]errcode.ErrorCode{
		http.StatusBadRequest: {
			ErrorCodePathParameterInvalid, ErrorCodePathParameterEncoding,
			ErrorCodeQueryParameterMissing, ErrorCodeQueryParameterInvalid,
			ErrorCodeHeaderMissing, ErrorCodeHeaderInvalid,
			ErrorCodeBodyMissing, ErrorCodeBodyInvalid, ErrorCodeBodyUnreadable,
			ErrorCodeContentTypeInvalid, ErrorCodeMultipartInvalid, ErrorCodeMultipartPartMissing,
		},
		http.StatusServiceUnavailable:  {ErrorCodeNotReady},
		http.StatusInternalServerError: {ErrorCodeHandlerFault, ErrorCodeHeaderEncoding},
	}

	if len(desc.Scopes) > 0 {
		byStatus[http.StatusForbidden] = []errcode.ErrorCode{ErrorCodeUnauthenticated, ErrorCodeInsufficientScope}
	}

	var out []describe.Response
	for _, status := range []int{http.StatusBadRequest, http.StatusForbidden, http.StatusInternalServerError, http.StatusServiceUnavailable} {
		codes, ok := byStatus[status]
		if !ok {
			continue
		}

		out = append(out, describe.Response{
			Name:       "dispatch",
			StatusCode: status,
			ErrorCodes: codes,
			Body:       describe.Body{ContentType: "text/plain; charset=utf-8", Format: "<message>"},
		})
	}

	return out
}

func partsFormat(parts []fieldBinding) string {
	format := ""
	for i, p := range parts {
		if i > 0 {
			format += ", "
		}

		format += p.name + " (" + p.mime + ")"
	}

	return format
}

func typeName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if t.Kind() == reflect.Slice && !isBytes(t) {
		return "[]" + typeName(t.Elem())
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}
