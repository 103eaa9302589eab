package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"mime"
	"mime/multipart"
	"net/http"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"github.com/danielkrainas/sbi/pkg/util/log"
)

var errNullValue = errors.New("null given for a required value")

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}

func (b *binder) bindBody(r *http.Request, op string, in reflect.Value, unused *UnusedFieldLog) error {
	switch {
	case b.body != nil:
		return b.bindJSON(r, in, unused)
	case len(b.parts) > 0:
		return b.bindMultipart(r, op, in, unused)
	}

	return nil
}

func (b *binder) bindJSON(r *http.Request, in reflect.Value, unused *UnusedFieldLog) error {
	p := b.body
	data, err := readBody(r)
	if err != nil {
		return ErrorCodeBodyUnreadable.WithArgs(p.name, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		if p.required {
			return ErrorCodeBodyMissing.WithArgs(p.name)
		}

		return nil
	}

	if p.required && isNull(data) {
		return ErrorCodeBodyInvalid.WithArgs(p.name, errNullValue)
	}

	field := in.Elem().FieldByIndex(p.index)
	if err := decodeJSON(data, field); err != nil {
		return ErrorCodeBodyInvalid.WithArgs(p.name, err)
	}

	collectUnknown(data, p.schema, "", unused.Add)
	return nil
}

func decodeJSON(data []byte, field reflect.Value) error {
	target := reflect.New(field.Type())
	if err := json.Unmarshal(data, target.Interface()); err != nil {
		return err
	}

	field.Set(target.Elem())
	return nil
}

func readBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	return ioutil.ReadAll(r.Body)
}

func (b *binder) bindMultipart(r *http.Request, op string, in reflect.Value, unused *UnusedFieldLog) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ErrorCodeContentTypeInvalid.WithArgs(op, "missing content-type")
	}

	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return ErrorCodeContentTypeInvalid.WithArgs(op, err)
	}

	if !strings.HasPrefix(mediaType, "multipart/") {
		return ErrorCodeContentTypeInvalid.WithArgs(op, fmt.Sprintf("expected a multipart media type, got %s", mediaType))
	}

	boundary := params["boundary"]
	if boundary == "" {
		return ErrorCodeContentTypeInvalid.WithArgs(op, "missing boundary")
	}

	data, err := readBody(r)
	if err != nil {
		return ErrorCodeBodyUnreadable.WithArgs(op, err)
	}

	filled := make(map[string]bool, len(b.parts))
	if len(bytes.TrimSpace(data)) > 0 {
		mr := multipart.NewReader(bytes.NewReader(data), boundary)
		for {
			part, err := mr.NextRawPart()
			if err == io.EOF {
				break
			}

			if err != nil {
				return ErrorCodeMultipartInvalid.WithArgs(op, err)
			}

			content, err := ioutil.ReadAll(part)
			if err != nil {
				return ErrorCodeMultipartInvalid.WithArgs(op, err)
			}

			if err := b.bindPart(op, part.Header.Get("Content-Type"), content, in, filled, unused); err != nil {
				return err
			}
		}
	}

	for _, p := range b.parts {
		if p.required && !filled[p.name] {
			return ErrorCodeMultipartPartMissing.WithArgs(p.name)
		}
	}

	return nil
}

func (b *binder) bindPart(op, ct string, content []byte, in reflect.Value, filled map[string]bool, unused *UnusedFieldLog) error {
	if ct == "" {
		log.Warn("ignoring multipart part without content type", zap.String("operation", op))
		unused.Add("(no content type)")
		return nil
	}

	var role *fieldBinding
	if mediaType, _, err := mime.ParseMediaType(ct); err == nil {
		for i := range b.parts {
			if b.parts[i].mime == mediaType {
				role = &b.parts[i]
				break
			}
		}
	}

	if role == nil || filled[role.name] {
		log.Warn("ignoring unexpected multipart part", zap.String("operation", op), zap.String("content_type", ct))
		unused.Add(ct)
		return nil
	}

	field := in.Elem().FieldByIndex(role.index)
	if isBytes(role.typ) {
		field.SetBytes(content)
	} else {
		if role.required && isNull(content) {
			return ErrorCodeBodyInvalid.WithArgs(role.name, errNullValue)
		}

		if err := decodeJSON(content, field); err != nil {
			return ErrorCodeBodyInvalid.WithArgs(role.name, err)
		}

		collectUnknown(content, role.schema, role.name, unused.Add)
	}

	filled[role.name] = true
	return nil
}
