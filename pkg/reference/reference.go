package reference

import (
	"fmt"
	"strings"
)

// Grammar markers.
const (
	MarkIn        = "("
	MarkOut       = ")"
	MarkBlueprint = "#"
	MarkDelegate  = "."
)

// Info is a parsed port reference.
//
// Blueprint and Delegate are optional: nil means absent, while a non-nil
// empty string is a present, empty qualifier. Instance and Port use the empty
// string as a meaningful value (the enclosing blueprint and the root port).
type Info struct {
	Blueprint   *string `json:"blueprint,omitempty" yaml:"blueprint,omitempty"`
	Instance    string  `json:"instance" yaml:"instance"`
	Delegate    *string `json:"delegate,omitempty" yaml:"delegate,omitempty"`
	DirectionIn bool    `json:"direction_in" yaml:"direction_in"`
	Port        string  `json:"port" yaml:"port"`
}

// Parse decodes a reference string. It reports false on malformed input.
func Parse(s string) (Info, bool) {
	info, err := ParseStrict(s)
	if err != nil {
		return Info{}, false
	}
	return info, true
}

// ParseStrict decodes a reference string and explains rejections with a *SyntaxError.
func ParseStrict(s string) (Info, error) {
	fail := func(reason string) (Info, error) {
		return Info{}, &SyntaxError{Input: s, Reason: reason}
	}

	if s == "" {
		return fail("empty reference")
	}

	hasIn := strings.Contains(s, MarkIn)
	hasOut := strings.Contains(s, MarkOut)
	switch {
	case hasIn && hasOut:
		return fail("both direction markers present")
	case !hasIn && !hasOut:
		return fail("no direction marker")
	}

	var info Info
	var instancePart string
	if hasIn {
		parts := strings.Split(s, MarkIn)
		if len(parts) != 2 {
			return fail("direction marker repeated")
		}
		info.DirectionIn = true
		info.Port, instancePart = parts[0], parts[1]
	} else {
		parts := strings.Split(s, MarkOut)
		if len(parts) != 2 {
			return fail("direction marker repeated")
		}
		instancePart, info.Port = parts[0], parts[1]
	}

	// Boundary port of the enclosing blueprint.
	if instancePart == "" {
		return info, nil
	}

	name := instancePart
	qualified := strings.Split(instancePart, MarkBlueprint)
	switch len(qualified) {
	case 1:
	case 2:
		blueprint := qualified[0]
		info.Blueprint = &blueprint
		name = qualified[1]
	default:
		return fail("blueprint qualifier repeated")
	}

	if strings.Contains(name, MarkDelegate) {
		segments := strings.Split(name, MarkDelegate)
		if len(segments) != 2 {
			return fail("instance must name at most one delegate")
		}
		delegate := segments[1]
		info.Delegate = &delegate
		name = segments[0]
	}
	info.Instance = name

	return info, nil
}

// Encode renders info in the reference grammar.
// It fails with ErrUnencodable when the result would not parse back to info.
func Encode(info Info) (string, error) {
	if err := info.check(); err != nil {
		return "", err
	}

	address := info.address()
	if info.DirectionIn {
		return info.Port + MarkIn + address, nil
	}
	return address + MarkOut + info.Port, nil
}

// String returns the encoded reference, or "" if info is not encodable.
func (i Info) String() string {
	s, err := Encode(i)
	if err != nil {
		return ""
	}
	return s
}

// IsBoundary reports whether info addresses a port of the enclosing blueprint itself.
func (i Info) IsBoundary() bool {
	return i.Instance == "" && i.Blueprint == nil && i.Delegate == nil
}

// Equal compares two infos, treating optional fields by presence and value.
func (i Info) Equal(other Info) bool {
	return optionalEqual(i.Blueprint, other.Blueprint) &&
		i.Instance == other.Instance &&
		optionalEqual(i.Delegate, other.Delegate) &&
		i.DirectionIn == other.DirectionIn &&
		i.Port == other.Port
}

func (i Info) address() string {
	var sb strings.Builder
	if i.Blueprint != nil {
		sb.WriteString(*i.Blueprint)
		sb.WriteString(MarkBlueprint)
	}
	sb.WriteString(i.Instance)
	if i.Delegate != nil {
		sb.WriteString(MarkDelegate)
		sb.WriteString(*i.Delegate)
	}
	return sb.String()
}

func (i Info) check() error {
	unencodable := func(field, value, reason string) error {
		return fmt.Errorf("%w: %s %q %s", ErrUnencodable, field, value, reason)
	}

	if strings.ContainsAny(i.Port, MarkIn+MarkOut) {
		return unencodable("port", i.Port, "contains a direction marker")
	}
	if strings.ContainsAny(i.Instance, MarkIn+MarkOut+MarkBlueprint+MarkDelegate) {
		return unencodable("instance", i.Instance, "contains a reserved character")
	}
	if i.Delegate != nil && strings.ContainsAny(*i.Delegate, MarkIn+MarkOut+MarkBlueprint+MarkDelegate) {
		return unencodable("delegate", *i.Delegate, "contains a reserved character")
	}
	if i.Blueprint != nil && strings.ContainsAny(*i.Blueprint, MarkIn+MarkOut+MarkBlueprint) {
		return unencodable("blueprint", *i.Blueprint, "contains a reserved character")
	}
	return nil
}

func optionalEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
