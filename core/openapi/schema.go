package openapi

import (
	"reflect"
	"strings"
	"time"
)

// Schema is a minimal JSON Schema subset sufficient for request/response
// models.
type Schema struct {
	Type                 string             `json:"type,omitempty"`
	Format               string             `json:"format,omitempty"`
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Items                *Schema            `json:"items,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties *Schema            `json:"additionalProperties,omitempty"`
	Nullable             bool               `json:"nullable,omitempty"`
}

var timeType = reflect.TypeOf(time.Time{})

// SchemaOf derives a schema from a sample value through reflection, using
// json tags for property names and validate tags for required fields.
func SchemaOf(sample any) *Schema {
	if sample == nil {
		return nil
	}
	return schemaFor(reflect.TypeOf(sample), map[reflect.Type]bool{})
}

func schemaFor(t reflect.Type, seen map[reflect.Type]bool) *Schema {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t == timeType {
		return &Schema{Type: "string", Format: "date-time"}
	}

	switch t.Kind() {
	case reflect.String:
		return &Schema{Type: "string"}
	case reflect.Bool:
		return &Schema{Type: "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return &Schema{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return &Schema{Type: "number"}
	case reflect.Slice, reflect.Array:
		return &Schema{Type: "array", Items: schemaFor(t.Elem(), seen)}
	case reflect.Map:
		return &Schema{Type: "object", AdditionalProperties: schemaFor(t.Elem(), seen)}
	case reflect.Struct:
		// Break recursive types with a bare object.
		if seen[t] {
			return &Schema{Type: "object"}
		}
		seen[t] = true
		defer delete(seen, t)
		return structSchema(t, seen)
	default:
		return &Schema{Type: "object"}
	}
}

func structSchema(t reflect.Type, seen map[reflect.Type]bool) *Schema {
	s := &Schema{Type: "object", Properties: map[string]*Schema{}}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}

		name := f.Name
		if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" {
			if tag == "-" {
				continue
			}
			name = tag
		}

		prop := schemaFor(f.Type, seen)
		if f.Type.Kind() == reflect.Pointer {
			prop.Nullable = true
		}
		s.Properties[name] = prop

		if strings.Contains(f.Tag.Get("validate"), "required") {
			s.Required = append(s.Required, name)
		}
	}

	return s
}
