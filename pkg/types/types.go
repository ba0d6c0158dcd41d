package types

import (
	"fmt"
	"strings"
)

// Type describes what a port carries.
// Implementations are immutable and compared by Name.
type Type interface {
	// Name returns the textual form of the type (e.g., "string", "[int]", "<T>").
	Name() string
	// Resolve substitutes generic parameters using lookup.
	// Types without parameters return themselves.
	Resolve(lookup Lookup) Type
}

// Lookup maps a generic parameter name to its current binding.
type Lookup func(name string) Type

// --- Built-in Type Implementations ---

// ScalarType is a named leaf type without parameters.
type ScalarType struct {
	name string
}

func (t *ScalarType) Name() string { return t.name }

func (t *ScalarType) Resolve(Lookup) Type { return t }

// SliceType is a list of a single element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

// Elem returns the element type.
func (t *SliceType) Elem() Type { return t.elemType }

func (t *SliceType) Resolve(lookup Lookup) Type {
	elem := t.elemType.Resolve(lookup)
	if elem == t.elemType {
		return t
	}
	return &SliceType{elemType: elem}
}

// ParamType refers to a generic parameter declared by a blueprint.
type ParamType struct {
	param string
}

func (t *ParamType) Name() string { return "<" + t.param + ">" }

// Param returns the referenced parameter name.
func (t *ParamType) Param() string { return t.param }

func (t *ParamType) Resolve(lookup Lookup) Type {
	if lookup == nil {
		return Placeholder
	}
	bound := lookup(t.param)
	if bound == nil {
		return Placeholder
	}
	return bound
}

type placeholderType struct{}

func (placeholderType) Name() string { return "?" }

func (t placeholderType) Resolve(Lookup) Type { return t }

// Placeholder is the sentinel for an unresolved generic parameter.
var Placeholder Type = placeholderType{}

// --- Factory Functions ---

var (
	stringType = &ScalarType{name: "string"}
	intType    = &ScalarType{name: "int"}
	floatType  = &ScalarType{name: "float"}
	boolType   = &ScalarType{name: "bool"}
	anyType    = &ScalarType{name: "any"}
	mapType    = &ScalarType{name: "map"}
)

// String is the string type.
func String() Type { return stringType }

// Int is the integer type.
func Int() Type { return intType }

// Float is the floating-point type.
func Float() Type { return floatType }

// Bool is the boolean type.
func Bool() Type { return boolType }

// Any accepts every value.
func Any() Type { return anyType }

// Map marks a structured port whose fields are its child ports.
func Map() Type { return mapType }

// Slice creates a list type for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Param creates a reference to the generic parameter name.
func Param(name string) Type {
	return &ParamType{param: name}
}

// --- Helpers ---

// IsPlaceholder reports whether t is the unresolved sentinel.
func IsPlaceholder(t Type) bool {
	_, ok := t.(placeholderType)
	return ok
}

// Equal compares two types by their textual form. A nil type only equals nil.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Name() == b.Name()
}

// IsConcrete reports whether t contains neither parameters nor placeholders.
func IsConcrete(t Type) bool {
	switch v := t.(type) {
	case nil:
		return false
	case placeholderType, *ParamType:
		return false
	case *SliceType:
		return IsConcrete(v.elemType)
	default:
		return true
	}
}

// Params lists the generic parameters referenced by t, in order of appearance.
func Params(t Type) []string {
	switch v := t.(type) {
	case *ParamType:
		return []string{v.param}
	case *SliceType:
		return Params(v.elemType)
	default:
		return nil
	}
}

// ParseType converts a textual type to a Type.
// Supports "string", "int", "float", "bool", "any", "map", "[elem]" and "<T>".
// The empty string parses to Any.
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	if len(typeStr) > 2 && typeStr[0] == '<' && typeStr[len(typeStr)-1] == '>' {
		name := typeStr[1 : len(typeStr)-1]
		if strings.ContainsAny(name, "<>[] ") {
			return nil, fmt.Errorf("invalid generic parameter: %s", typeStr)
		}
		return Param(name), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "any", "":
		return Any(), nil
	case "map":
		return Map(), nil
	case "?":
		return Placeholder, nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts parameter names to type strings into Types.
// Example: {"T": "int", "U": "[string]"}
func ParseTypeMap(typeMap map[string]string) (map[string]Type, error) {
	result := make(map[string]Type, len(typeMap))
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("parameter %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
