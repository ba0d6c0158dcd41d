/*
Package dsl provides a fluent builder for constructing blueprint definitions in Go.

It is an alternative to YAML or JSON documents when blueprints are generated
dynamically, in unit tests, or when type-checking by the compiler is preferred.

Example usage:

	b := dsl.New()

	b.Add("math.add").
		Generics("T").
		In("", "map").
		In("a", "<T>").
		In("b", "<T>").
		Out("", "<T>")

	b.Add("app.main").
		In("", "map").
		In("x", "int").
		Out("", "int").
		Place("sum", "math.add").
		Specialize("sum", "T", "int").
		Wire("x(", "a(sum").
		Wire("sum)", ")")

	// The result is a ports.BlueprintLoader.
	loader, err := b.Build()
*/
package dsl
