package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"reflect"
	"strconv"

	"golang.org/x/net/http/httpguts"
)

// Multipart is a multipart/related response body.
type Multipart struct {
	Parts []Part
}

// Part is one section of a multipart body. JSON parts set Value, binary
// parts set Data.
type Part struct {
	Name        string
	ContentType string
	ContentID   string
	Value       interface{}
	Data        []byte
}

// Encoder turns a handler Response into an HTTP response using the
// operation's variant table.
type Encoder struct {
	GenericErrorStatus int
}

// Encode writes resp. It panics when resp breaks the operation's variant
// contract and returns an error only when a header value cannot be sent.
func (e Encoder) Encode(w http.ResponseWriter, op *Descriptor, resp Response) error {
	v, ok := op.variants[resp.Tag]
	if !ok {
		panic(fmt.Sprintf("dispatch: operation %s has no response variant %q", op.Name, resp.Tag))
	}

	status := v.Status
	if status == 0 {
		status = e.GenericErrorStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
	}

	body, contentType := encodeBody(op, v, resp.Body)
	headers, err := variantHeaders(op, v, resp)
	if err != nil {
		return err
	}

	h := w.Header()
	for name, values := range headers {
		h[name] = values
	}

	if contentType != "" {
		h.Set("Content-Type", contentType)
		h.Set("Content-Length", strconv.Itoa(len(body)))
	}

	w.WriteHeader(status)
	if len(body) > 0 {
		w.Write(body)
	}

	return nil
}

func encodeBody(op *Descriptor, v Variant, body interface{}) ([]byte, string) {
	if v.Body == nil {
		if body != nil {
			panic(fmt.Sprintf("dispatch: operation %s variant %s takes no body, got %T", op.Name, v.Tag, body))
		}

		return nil, ""
	}

	rv := reflect.ValueOf(body)
	if !rv.IsValid() || (rv.Kind() == reflect.Ptr && rv.IsNil()) {
		panic(fmt.Sprintf("dispatch: operation %s variant %s requires a %s body", op.Name, v.Tag, v.Body))
	}

	if rv.Kind() == reflect.Ptr && v.Body.Kind() != reflect.Ptr {
		rv = rv.Elem()
	}

	if rv.Type() != v.Body {
		panic(fmt.Sprintf("dispatch: operation %s variant %s requires a %s body, got %s", op.Name, v.Tag, v.Body, rv.Type()))
	}

	if m, ok := rv.Interface().(Multipart); ok {
		return encodeMultipart(op, v, m)
	}

	data, err := json.Marshal(rv.Interface())
	if err != nil {
		panic(fmt.Sprintf("dispatch: operation %s variant %s: %v", op.Name, v.Tag, err))
	}

	return data, v.ContentType
}

func encodeMultipart(op *Descriptor, v Variant, m Multipart) ([]byte, string) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range m.Parts {
		header := textproto.MIMEHeader{}
		header.Set("Content-Type", p.ContentType)
		if p.ContentID != "" {
			header.Set("Content-Id", p.ContentID)
		}

		data := p.Data
		if p.Value != nil {
			var err error
			if data, err = json.Marshal(p.Value); err != nil {
				panic(fmt.Sprintf("dispatch: operation %s variant %s part %s: %v", op.Name, v.Tag, p.Name, err))
			}
		}

		pw, err := mw.CreatePart(header)
		if err != nil {
			panic(fmt.Sprintf("dispatch: operation %s variant %s part %s: %v", op.Name, v.Tag, p.Name, err))
		}

		pw.Write(data)
	}

	mw.Close()
	ct := mime.FormatMediaType(v.ContentType, map[string]string{"boundary": mw.Boundary()})
	return buf.Bytes(), ct
}

// variantHeaders validates every header value before anything is written.
func variantHeaders(op *Descriptor, v Variant, resp Response) (http.Header, error) {
	h := http.Header{}
	switch {
	case v.Location:
		if resp.Location == "" {
			return nil, ErrorCodeHeaderEncoding.WithArgs("Location", "value is required")
		}

		if !httpguts.ValidHeaderFieldValue(resp.Location) {
			return nil, ErrorCodeHeaderEncoding.WithArgs("Location", "invalid header value")
		}

		h.Set("Location", resp.Location)
	case resp.Location != "":
		panic(fmt.Sprintf("dispatch: operation %s variant %s does not carry a Location", op.Name, v.Tag))
	}

	for name, values := range resp.Header {
		if !v.allowsHeader(name) {
			panic(fmt.Sprintf("dispatch: operation %s variant %s does not declare header %s", op.Name, v.Tag, name))
		}

		for _, value := range values {
			if !httpguts.ValidHeaderFieldValue(value) {
				return nil, ErrorCodeHeaderEncoding.WithArgs(name, "invalid header value")
			}

			h.Add(name, value)
		}
	}

	return h, nil
}
