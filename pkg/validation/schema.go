package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/oksasatya/go-job-catalog/pkg/apperr"
)

// Defaulter is implemented by payload types that declare default values.
// Defaults runs on the zero value before the payload is decoded, so only
// keys that are absent (or null) keep their default.
type Defaulter interface {
	Defaults()
}

// FieldSpec describes one payload field.
type FieldSpec struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
	Default  any    `json:"default,omitempty"`
}

type schemaTyper interface {
	SchemaType() string
}

var schemaTyperType = reflect.TypeOf((*schemaTyper)(nil)).Elem()

// Decode produces a typed, defaulted and validated payload from raw JSON.
// Empty input is treated as an empty object.
func Decode[T any](raw []byte) (T, error) {
	var v T
	if d, ok := any(&v).(Defaulter); ok {
		d.Defaults()
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &v); err != nil {
			return v, &apperr.ValidationError{Details: ToDetails(err), Err: err}
		}
	}
	if err := Engine().Struct(&v); err != nil {
		return v, &apperr.ValidationError{Details: ToDetails(err), Err: err}
	}
	return v, nil
}

// Describe lists the fields of payload type T with their defaults.
func Describe[T any]() ([]FieldSpec, error) {
	var zero T
	if d, ok := any(&zero).(Defaulter); ok {
		d.Defaults()
	}
	rv := reflect.ValueOf(&zero).Elem()
	rt := rv.Type()
	if rt.Kind() != reflect.Struct {
		return nil, apperr.Config("payload schema", fmt.Errorf("%w: %s is not a struct", apperr.ErrInvalid, rt))
	}

	fields := make([]FieldSpec, 0, rt.NumField())
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			continue
		}
		if name == "" {
			return nil, apperr.Config("payload schema", fmt.Errorf("%w: field %s.%s has no json name", apperr.ErrInvalid, rt.Name(), f.Name))
		}
		spec := FieldSpec{
			Name:     name,
			Type:     typeName(f.Type),
			Required: hasRule(f.Tag.Get("validate"), "required"),
		}
		if fv := rv.Field(i); !fv.IsZero() {
			if fv.Kind() == reflect.Pointer {
				fv = fv.Elem()
			}
			spec.Default = fv.Interface()
		}
		fields = append(fields, spec)
	}
	return fields, nil
}

func hasRule(tag, rule string) bool {
	for _, r := range strings.Split(tag, ",") {
		if strings.TrimSpace(r) == rule {
			return true
		}
	}
	return false
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "unknown"
	}
	if t.Implements(schemaTyperType) {
		return reflect.Zero(t).Interface().(schemaTyper).SchemaType()
	}
	switch t.Kind() {
	case reflect.Pointer:
		return typeName(t.Elem())
	case reflect.Slice, reflect.Array:
		return typeName(t.Elem()) + "[]"
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return t.Kind().String()
	}
}
