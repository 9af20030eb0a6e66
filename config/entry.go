package config

import (
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"goyave.dev/negotiator/util/errors"
)

// Entry the internal representation of a config entry: its value, the
// expected type and, optionally, the values it is restricted to.
// If `AuthorizedValues` is empty, any value of the correct type is accepted.
//
// For slices, `Type` is the type of the elements and `AuthorizedValues`
// restricts the elements, not the slice itself.
type Entry struct {
	Value            any
	AuthorizedValues []any
	Type             reflect.Kind
	IsSlice          bool
	Required         bool
}

func makeEntryFromValue(value any) *Entry {
	t := reflect.TypeOf(value)
	if t == nil {
		return &Entry{Value: nil, AuthorizedValues: []any{}, Type: reflect.Interface}
	}
	kind := t.Kind()
	isSlice := kind == reflect.Slice
	if isSlice {
		kind = t.Elem().Kind()
	}
	return &Entry{Value: value, AuthorizedValues: []any{}, Type: kind, IsSlice: isSlice}
}

func (e *Entry) validate(key string) error {
	if err := e.tryEnvVarConversion(key); err != nil {
		return err
	}

	v := reflect.ValueOf(e.Value)
	if e.Required && (!v.IsValid() || isEmptySlice(v)) {
		return errors.Errorf("%q is required", key)
	}

	t := reflect.TypeOf(e.Value)
	if t == nil || e.Type == reflect.Interface {
		return nil // Unset or untyped
	}
	kind := t.Kind()
	if e.IsSlice {
		if kind != reflect.Slice {
			return errors.Errorf("%q must be a slice of %s", key, e.Type)
		}
		kind = t.Elem().Kind()
	}
	if kind != e.Type && !e.tryConversion(kind) {
		if e.IsSlice {
			return errors.Errorf("%q must be a slice of %s", key, e.Type)
		}
		return errors.Errorf("%q type must be %s", key, e.Type)
	}

	if len(e.AuthorizedValues) == 0 {
		return nil
	}
	if e.IsSlice {
		v = reflect.ValueOf(e.Value)
		for i := 0; i < v.Len(); i++ {
			if !lo.Contains(e.AuthorizedValues, v.Index(i).Interface()) {
				return errors.Errorf("%q elements must have one of the following values: %v", key, e.AuthorizedValues)
			}
		}
	} else if !lo.Contains(e.AuthorizedValues, e.Value) {
		return errors.Errorf("%q must have one of the following values: %v", key, e.AuthorizedValues)
	}
	return nil
}

func isEmptySlice(v reflect.Value) bool {
	return v.Kind() == reflect.Slice && v.Len() == 0
}

// tryConversion converts values decoded from JSON (float64, []any)
// to the expected type.
func (e *Entry) tryConversion(kind reflect.Kind) bool {
	if !e.IsSlice && kind == reflect.Float64 && e.Type == reflect.Int {
		if i, ok := convertInt(e.Value.(float64)); ok {
			e.Value = i
			return true
		}
		return false
	}

	if !e.IsSlice || kind != reflect.Interface {
		return false
	}

	original := e.Value.([]any)
	var converted any
	var ok bool
	switch e.Type {
	case reflect.String:
		converted, ok = convertSlice[string](original)
	case reflect.Bool:
		converted, ok = convertSlice[bool](original)
	case reflect.Float64:
		converted, ok = convertSlice[float64](original)
	case reflect.Int:
		converted, ok = convertIntSlice(original)
	}
	if ok {
		e.Value = converted
	}
	return ok
}

func convertSlice[T any](slice []any) ([]T, bool) {
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		value, ok := v.(T)
		if !ok {
			return nil, false
		}
		result = append(result, value)
	}
	return result, true
}

func convertInt(value float64) (int, bool) {
	i := int(value)
	return i, value == float64(i)
}

func convertIntSlice(slice []any) ([]int, bool) {
	result := make([]int, 0, len(slice))
	for _, v := range slice {
		f, ok := v.(float64)
		if !ok {
			return nil, false
		}
		i, ok := convertInt(f)
		if !ok {
			return nil, false
		}
		result = append(result, i)
	}
	return result, true
}

// tryEnvVarConversion replaces "${VAR}" string values with the value of
// the VAR environment variable, converted to the entry's type.
func (e *Entry) tryEnvVarConversion(key string) error {
	str, ok := e.Value.(string)
	if !ok || !strings.HasPrefix(str, "${") || !strings.HasSuffix(str, "}") {
		return nil
	}

	if e.IsSlice {
		return errors.Errorf("%q is a slice entry, it cannot be loaded from env", key)
	}

	varName := str[2 : len(str)-1]
	value, set := os.LookupEnv(varName)
	if !set {
		return errors.Errorf("%q: %q environment variable is not set", key, varName)
	}

	switch e.Type {
	case reflect.Int:
		i, err := strconv.Atoi(value)
		if err != nil {
			return errors.Errorf("%q could not be converted to int from environment variable %q of value %q", key, varName, value)
		}
		e.Value = i
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Errorf("%q could not be converted to float64 from environment variable %q of value %q", key, varName, value)
		}
		e.Value = f
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Errorf("%q could not be converted to bool from environment variable %q of value %q", key, varName, value)
		}
		e.Value = b
	default:
		e.Value = value
	}
	return nil
}
