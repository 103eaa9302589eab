package dispatch

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

var jsonUnmarshalerType = reflect.TypeOf((*json.Unmarshaler)(nil)).Elem()

type schemaKind int

const (
	schemaLeaf schemaKind = iota
	schemaObject
	schemaArray
	schemaMap
)

// schemaNode mirrors the JSON shape of a Go type, as far as encoding/json
// sees it, so unknown members can be found without decoding twice.
type schemaNode struct {
	kind   schemaKind
	fields map[string]*schemaNode
	folded map[string]string
	elem   *schemaNode
}

type schemaCompiler struct {
	seen map[reflect.Type]*schemaNode
}

func newSchemaCompiler() *schemaCompiler {
	return &schemaCompiler{seen: make(map[reflect.Type]*schemaNode)}
}

func (c *schemaCompiler) compile(t reflect.Type) *schemaNode {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if n, ok := c.seen[t]; ok {
		return n
	}

	n := &schemaNode{}
	c.seen[t] = n
	if reflect.PtrTo(t).Implements(jsonUnmarshalerType) || implementsText(t) {
		return n
	}

	switch t.Kind() {
	case reflect.Struct:
		n.kind = schemaObject
		n.fields = make(map[string]*schemaNode)
		n.folded = make(map[string]string)
		c.addFields(n, t)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return n
		}

		n.kind = schemaArray
		n.elem = c.compile(t.Elem())
	case reflect.Map:
		n.kind = schemaMap
		n.elem = c.compile(t.Elem())
	}

	return n
}

func (c *schemaCompiler) addFields(n *schemaNode, t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}

		name := strings.Split(tag, ",")[0]
		ft := f.Type
		for ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}

		if f.Anonymous && name == "" && ft.Kind() == reflect.Struct {
			c.addFields(n, ft)
			continue
		}

		if f.PkgPath != "" {
			continue
		}

		if name == "" {
			name = f.Name
		}

		n.fields[name] = c.compile(f.Type)
		n.folded[strings.ToLower(name)] = name
	}
}

func (n *schemaNode) field(key string) (*schemaNode, bool) {
	if child, ok := n.fields[key]; ok {
		return child, true
	}

	if name, ok := n.folded[strings.ToLower(key)]; ok {
		return n.fields[name], true
	}

	return nil, false
}

// collectUnknown reports every member of data that the schema does not
// declare. data is assumed to have decoded successfully already.
func collectUnknown(data []byte, n *schemaNode, path string, add func(string)) {
	if n == nil {
		return
	}

	switch n.kind {
	case schemaObject:
		var obj map[string]json.RawMessage
		if json.Unmarshal(data, &obj) != nil {
			return
		}

		for key, raw := range obj {
			child, ok := n.field(key)
			if !ok {
				add(joinPath(path, key))
				continue
			}

			collectUnknown(raw, child, joinPath(path, key), add)
		}

	case schemaArray:
		var items []json.RawMessage
		if json.Unmarshal(data, &items) != nil {
			return
		}

		for i, raw := range items {
			collectUnknown(raw, n.elem, path+"["+strconv.Itoa(i)+"]", add)
		}

	case schemaMap:
		var obj map[string]json.RawMessage
		if json.Unmarshal(data, &obj) != nil {
			return
		}

		for key, raw := range obj {
			collectUnknown(raw, n.elem, joinPath(path, key), add)
		}
	}
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}

	return path + "." + key
}
