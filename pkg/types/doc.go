// Package types describes what flows through a port.
//
// A Type is either concrete (string, int, float, bool, any, map, or a slice of
// those), a reference to a generic parameter declared by a blueprint, or the
// Placeholder sentinel that marks an unresolved parameter.
//
// Types have a textual form used in blueprint documents:
//
//	t, err := types.ParseType("[<T>]")
//	// t.Name() == "[<T>]"
//
//	bound := t.Resolve(func(name string) types.Type {
//	    if name == "T" {
//	        return types.Int()
//	    }
//	    return nil
//	})
//	// bound.Name() == "[int]"
//
// This package has no dependencies beyond the Go standard library.
package types
