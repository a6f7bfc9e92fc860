package moveast

import (
	"encoding/json"
	"reflect"

	"github.com/iancoleman/strcase"
)

// EncodeJSON renders the module as the interchange format consumed by the
// external pretty-printer: a JSON tree where every node object carries a
// "node" discriminator naming its kind, with lowerCamel field keys.
func (m *Module) EncodeJSON() ([]byte, error) {
	return json.MarshalIndent(encodeValue(reflect.ValueOf(m)), "", "  ")
}

func encodeValue(v reflect.Value) any {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return encodeValue(v.Elem())
	case reflect.Struct:
		out := map[string]any{"node": v.Type().Name()}
		for i := 0; i < v.NumField(); i++ {
			field := v.Type().Field(i)
			if !field.IsExported() {
				continue
			}
			out[strcase.ToLowerCamel(field.Name)] = encodeValue(v.Field(i))
		}
		return out
	case reflect.Slice:
		if v.IsNil() {
			return []any{}
		}
		out := make([]any, v.Len())
		for i := 0; i < v.Len(); i++ {
			out[i] = encodeValue(v.Index(i))
		}
		return out
	default:
		return v.Interface()
	}
}
