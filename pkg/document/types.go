package document

import (
	"fmt"
	"reflect"
	"strings"
)

// typeCheck validates a property value.
type typeCheck func(v any) error

// parseType resolves a type name: string, int, float, bool, or [T] for a
// list of T.
func parseType(name string) (typeCheck, error) {
	if inner, ok := strings.CutPrefix(name, "["); ok && strings.HasSuffix(inner, "]") {
		elem, err := parseType(strings.TrimSuffix(inner, "]"))
		if err != nil {
			return nil, err
		}
		return func(v any) error {
			rv := reflect.ValueOf(v)
			if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
				return fmt.Errorf("expected list, got %T", v)
			}
			for i := 0; i < rv.Len(); i++ {
				if err := elem(rv.Index(i).Interface()); err != nil {
					return fmt.Errorf("element %d: %w", i, err)
				}
			}
			return nil
		}, nil
	}

	switch name {
	case "string":
		return func(v any) error {
			if _, ok := v.(string); !ok {
				return fmt.Errorf("expected string, got %T", v)
			}
			return nil
		}, nil
	case "int":
		return func(v any) error {
			switch n := v.(type) {
			case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
				return nil
			case float64:
				// JSON numbers decode as float64.
				if n == float64(int64(n)) {
					return nil
				}
				return fmt.Errorf("expected int, got %v", n)
			default:
				return fmt.Errorf("expected int, got %T", v)
			}
		}, nil
	case "float":
		return func(v any) error {
			switch v.(type) {
			case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
				return nil
			default:
				return fmt.Errorf("expected float, got %T", v)
			}
		}, nil
	case "bool":
		return func(v any) error {
			if _, ok := v.(bool); !ok {
				return fmt.Errorf("expected bool, got %T", v)
			}
			return nil
		}, nil
	default:
		return nil, fmt.Errorf("unsupported type %q", name)
	}
}

// HasType fails when key is set to a value that is not of the named type.
// A missing key passes; combine with RequireKeys to demand it.
// It panics on an unknown type name; RuleSpec reports it as an error instead.
func HasType(key, typeName string) Rule {
	check, err := parseType(typeName)
	if err != nil {
		panic(err)
	}
	return hasType(key, typeName, check)
}

func hasType(key, typeName string, check typeCheck) Rule {
	return func(e *Element) error {
		v, ok := e.view().props[key]
		if !ok {
			return nil
		}
		if err := check(v); err != nil {
			return invalid(e, "%s must be %s: %v", key, typeName, err)
		}
		return nil
	}
}
