package dispatch

import (
	"encoding"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"
)

type location int

const (
	inPath location = iota + 1
	inQuery
	inHeader
	inBody
	inPart
)

func (l location) String() string {
	switch l {
	case inPath:
		return "path"
	case inQuery:
		return "query"
	case inHeader:
		return "header"
	case inBody:
		return "body"
	case inPart:
		return "part"
	}

	return "unknown"
}

var textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()

type fieldBinding struct {
	index    []int
	loc      location
	name     string
	required bool
	json     bool
	mime     string
	typ      reflect.Type
	schema   *schemaNode
}

// binder fills an operation's input struct from a request. It is compiled
// once per operation from the struct's `in` tags.
type binder struct {
	typ    reflect.Type
	params []fieldBinding
	body   *fieldBinding
	parts  []fieldBinding
}

func compileBinder(t reflect.Type) (*binder, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("input type %s must be a struct", t)
	}

	b := &binder{typ: t}
	schemas := newSchemaCompiler()
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, ok := f.Tag.Lookup("in")
		if !ok {
			continue
		}

		if f.PkgPath != "" {
			return nil, fmt.Errorf("%s.%s: bound field must be exported", t, f.Name)
		}

		fb, err := parseBinding(f, tag)
		if err != nil {
			return nil, fmt.Errorf("%s.%s: %v", t, f.Name, err)
		}

		switch fb.loc {
		case inBody:
			if b.body != nil {
				return nil, fmt.Errorf("%s: more than one body field", t)
			}

			fb.schema = schemas.compile(fb.typ)
			b.body = &fb
		case inPart:
			for _, p := range b.parts {
				if p.mime == fb.mime {
					return nil, fmt.Errorf("%s: parts %s and %s share content type %s", t, p.name, fb.name, fb.mime)
				}
			}

			if !isBytes(fb.typ) {
				fb.schema = schemas.compile(fb.typ)
			}

			b.parts = append(b.parts, fb)
		default:
			b.params = append(b.params, fb)
		}
	}

	if b.body != nil && len(b.parts) > 0 {
		return nil, fmt.Errorf("%s: body and multipart parts are exclusive", t)
	}

	return b, nil
}

func parseBinding(f reflect.StructField, tag string) (fieldBinding, error) {
	fb := fieldBinding{index: f.Index, typ: f.Type}
	opts := strings.Split(tag, ",")
	kv := strings.SplitN(opts[0], "=", 2)
	if len(kv) != 2 || kv[1] == "" {
		return fb, fmt.Errorf("malformed in tag %q", tag)
	}

	switch kv[0] {
	case "path":
		fb.loc = inPath
		fb.required = true
	case "query":
		fb.loc = inQuery
	case "header":
		fb.loc = inHeader
	case "body":
		fb.loc = inBody
	case "part":
		fb.loc = inPart
		fb.mime = f.Tag.Get("mime")
		if fb.mime == "" {
			return fb, fmt.Errorf("part %s needs a mime tag", kv[1])
		}
	default:
		return fb, fmt.Errorf("unknown parameter location %q", kv[0])
	}

	fb.name = kv[1]
	for _, opt := range opts[1:] {
		switch opt {
		case "required":
			fb.required = true
		case "json":
			fb.json = true
		default:
			return fb, fmt.Errorf("unknown option %q", opt)
		}
	}

	if !fb.required && fb.typ.Kind() != reflect.Ptr && fb.typ.Kind() != reflect.Slice {
		return fb, fmt.Errorf("optional %s parameter %s must be a pointer or slice", fb.loc, fb.name)
	}

	if fb.loc == inPath || fb.loc == inQuery || fb.loc == inHeader {
		if !fb.json && !scalarOrSlice(fb.typ) {
			return fb, fmt.Errorf("%s parameter %s has unsupported type %s", fb.loc, fb.name, fb.typ)
		}
	}

	return fb, nil
}

func (b *binder) pathNames() []string {
	var names []string
	for _, p := range b.params {
		if p.loc == inPath {
			names = append(names, p.name)
		}
	}

	return names
}

func (b *binder) newInput() reflect.Value {
	return reflect.New(b.typ)
}

// bindParams fills path, query and header fields. vars holds the raw,
// still percent-encoded path captures.
func (b *binder) bindParams(r *http.Request, vars map[string]string, in reflect.Value) error {
	var query url.Values
	for _, p := range b.params {
		field := in.Elem().FieldByIndex(p.index)
		switch p.loc {
		case inPath:
			raw := vars[p.name]
			decoded, err := url.PathUnescape(raw)
			if err != nil || !utf8.ValidString(decoded) {
				return ErrorCodePathParameterEncoding.WithArgs(p.name)
			}

			if err := setValue(field, []string{decoded}, false); err != nil {
				return ErrorCodePathParameterInvalid.WithArgs(p.name, err)
			}

		case inQuery:
			if query == nil {
				query = r.URL.Query()
			}

			values, ok := query[p.name]
			if !ok {
				if p.required {
					return ErrorCodeQueryParameterMissing.WithArgs(p.name)
				}

				continue
			}

			if err := setValue(field, values, p.json); err != nil {
				return ErrorCodeQueryParameterInvalid.WithArgs(p.name, err)
			}

		case inHeader:
			values := r.Header.Values(p.name)
			if len(values) == 0 {
				if p.required {
					return ErrorCodeHeaderMissing.WithArgs(p.name)
				}

				continue
			}

			if err := setValue(field, values, p.json); err != nil {
				return ErrorCodeHeaderInvalid.WithArgs(p.name, err)
			}
		}
	}

	return nil
}

// setValue stores raw into field, allocating pointers and splitting
// comma-separated slice values.
func setValue(field reflect.Value, raw []string, isJSON bool) error {
	if isJSON {
		target := reflect.New(field.Type())
		if err := json.Unmarshal([]byte(raw[0]), target.Interface()); err != nil {
			return err
		}

		field.Set(target.Elem())
		return nil
	}

	t := field.Type()
	if t.Kind() == reflect.Ptr {
		v, err := parseScalar(raw[0], t.Elem())
		if err != nil {
			return err
		}

		ptr := reflect.New(t.Elem())
		ptr.Elem().Set(v)
		field.Set(ptr)
		return nil
	}

	if t.Kind() == reflect.Slice && !implementsText(t) {
		slice := reflect.MakeSlice(t, 0, len(raw))
		for _, value := range raw {
			for _, item := range strings.Split(value, ",") {
				v, err := parseScalar(item, t.Elem())
				if err != nil {
					return err
				}

				slice = reflect.Append(slice, v)
			}
		}

		field.Set(slice)
		return nil
	}

	v, err := parseScalar(raw[0], t)
	if err != nil {
		return err
	}

	field.Set(v)
	return nil
}

func parseScalar(raw string, t reflect.Type) (reflect.Value, error) {
	if implementsText(t) {
		v := reflect.New(t)
		if err := v.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(raw)); err != nil {
			return reflect.Value{}, err
		}

		return v.Elem(), nil
	}

	v := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.String:
		v.SetString(raw)
	case reflect.Bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return v, err
		}

		v.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(raw, 10, t.Bits())
		if err != nil {
			return v, err
		}

		v.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(raw, 10, t.Bits())
		if err != nil {
			return v, err
		}

		v.SetUint(n)
	case reflect.Float32, reflect.Float64:
		n, err := strconv.ParseFloat(raw, t.Bits())
		if err != nil {
			return v, err
		}

		v.SetFloat(n)
	default:
		return v, fmt.Errorf("unsupported type %s", t)
	}

	return v, nil
}

func implementsText(t reflect.Type) bool {
	return reflect.PtrTo(t).Implements(textUnmarshalerType)
}

func isScalar(t reflect.Type) bool {
	if implementsText(t) {
		return true
	}

	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}

	return false
}

func scalarOrSlice(t reflect.Type) bool {
	switch {
	case t.Kind() == reflect.Ptr:
		return isScalar(t.Elem())
	case t.Kind() == reflect.Slice && !implementsText(t):
		return isScalar(t.Elem())
	}

	return isScalar(t)
}

func isBytes(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
