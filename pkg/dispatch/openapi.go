package dispatch

import (
	"encoding/json"
	"reflect"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
)

var (
	timeType    = reflect.TypeOf(time.Time{})
	rawJSONType = reflect.TypeOf(json.RawMessage{})
)

func NewOpenAPI(title, version string) *openapi3.T {
	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   title,
			Version: version,
		},
		Paths: openapi3.Paths{},
	}
}

// AddToOpenAPI documents every operation of the table in doc.
func (d *Dispatcher[API]) AddToOpenAPI(doc *openapi3.T) {
	for _, op := range d.ops {
		desc := op.desc
		path := desc.pattern.OpenAPIPath()
		item := doc.Paths[path]
		if item == nil {
			item = &openapi3.PathItem{}
			doc.Paths[path] = item
		}

		item.SetOperation(desc.Method, openAPIOperation(desc))
	}
}

func openAPIOperation(desc *Descriptor) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = desc.Name
	op.Summary = desc.Summary
	if len(desc.Scopes) > 0 {
		op.Description = "Requires scopes: " + strings.Join(desc.Scopes, ", ")
	}

	b := desc.binder
	for _, p := range b.params {
		var param *openapi3.Parameter
		switch p.loc {
		case inPath:
			param = openapi3.NewPathParameter(p.name)
		case inQuery:
			param = openapi3.NewQueryParameter(p.name).WithRequired(p.required)
		case inHeader:
			param = openapi3.NewHeaderParameter(p.name).WithRequired(p.required)
		}

		param.Schema = openAPISchema(p.typ, map[reflect.Type]bool{}).NewRef()
		if p.loc == inQuery && p.typ.Kind() == reflect.Slice && !p.json {
			explode := false
			param.Explode = &explode
		}

		op.AddParameter(param)
	}

	switch {
	case b.body != nil:
		schema := openAPISchema(b.body.typ, map[reflect.Type]bool{})
		body := openapi3.NewRequestBody().
			WithRequired(b.body.required).
			WithContent(openapi3.NewContentWithSchema(schema, []string{ContentTypeJSON}))
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	case len(b.parts) > 0:
		schema := openapi3.NewObjectSchema()
		for _, p := range b.parts {
			if isBytes(p.typ) {
				schema.WithProperty(p.name, openapi3.NewStringSchema().WithFormat("binary"))
			} else {
				schema.WithProperty(p.name, openAPISchema(p.typ, map[reflect.Type]bool{}))
			}

			if p.required {
				schema.Required = append(schema.Required, p.name)
			}
		}

		body := openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.NewContentWithSchema(schema, []string{ContentTypeMultipart}))
		op.RequestBody = &openapi3.RequestBodyRef{Value: body}
	}

	op.Responses = openapi3.Responses{}
	for _, v := range desc.Variants {
		description := v.Description
		if description == "" {
			description = string(v.Tag)
		}

		resp := openapi3.NewResponse().WithDescription(description)
		if v.Body != nil {
			var schema *openapi3.Schema
			if v.Body == typeOf[Multipart]() {
				schema = openapi3.NewObjectSchema()
			} else {
				schema = openAPISchema(v.Body, map[reflect.Type]bool{})
			}

			resp.WithContent(openapi3.NewContentWithSchema(schema, []string{v.ContentType}))
		}

		resp.Headers = openapi3.Headers{}
		if v.Location {
			resp.Headers["Location"] = headerRef(openapi3.NewStringSchema().WithFormat("uri"))
		}

		for _, h := range v.Headers {
			resp.Headers[h] = headerRef(openapi3.NewStringSchema())
		}

		op.AddResponse(v.Status, resp)
	}

	return op
}

func headerRef(schema *openapi3.Schema) *openapi3.HeaderRef {
	return &openapi3.HeaderRef{Value: &openapi3.Header{Parameter: openapi3.Parameter{Schema: schema.NewRef()}}}
}

// openAPISchema derives a schema from a Go type using the same json names
// encoding/json uses. Recursive types are cut off as untyped objects.
func openAPISchema(t reflect.Type, seen map[reflect.Type]bool) *openapi3.Schema {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch {
	case t == timeType:
		return openapi3.NewDateTimeSchema()
	case t == rawJSONType:
		return &openapi3.Schema{}
	case isBytes(t):
		return openapi3.NewBytesSchema()
	case implementsText(t):
		return openapi3.NewStringSchema()
	}

	switch t.Kind() {
	case reflect.String:
		return openapi3.NewStringSchema()
	case reflect.Bool:
		return openapi3.NewBoolSchema()
	case reflect.Int32, reflect.Int16, reflect.Int8, reflect.Uint16, reflect.Uint8:
		return openapi3.NewInt32Schema()
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint32, reflect.Uint64:
		return openapi3.NewInt64Schema()
	case reflect.Float32, reflect.Float64:
		return openapi3.NewFloat64Schema()
	case reflect.Slice, reflect.Array:
		return openapi3.NewArraySchema().WithItems(openAPISchema(t.Elem(), seen))
	case reflect.Map:
		return openapi3.NewObjectSchema().WithAdditionalProperties(openAPISchema(t.Elem(), seen))
	case reflect.Struct:
		if seen[t] {
			return openapi3.NewObjectSchema()
		}

		seen[t] = true
		defer delete(seen, t)
		schema := openapi3.NewObjectSchema()
		addSchemaFields(schema, t, seen)
		return schema
	}

	return &openapi3.Schema{}
}

func addSchemaFields(schema *openapi3.Schema, t reflect.Type, seen map[reflect.Type]bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}

		opts := strings.Split(tag, ",")
		name := opts[0]
		ft := f.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		if f.Anonymous && name == "" && ft.Kind() == reflect.Struct {
			addSchemaFields(schema, ft, seen)
			continue
		}

		if f.PkgPath != "" {
			continue
		}

		if name == "" {
			name = f.Name
		}

		schema.WithProperty(name, openAPISchema(f.Type, seen))
		if f.Type.Kind() != reflect.Ptr && !hasOption(opts[1:], "omitempty") {
			schema.Required = append(schema.Required, name)
		}
	}
}

func hasOption(opts []string, opt string) bool {
	for _, o := range opts {
		if o == opt {
			return true
		}
	}

	return false
}
