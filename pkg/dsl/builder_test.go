package dsl_test

import (
	"testing"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSample() *dsl.Builder {
	b := dsl.New()

	b.Add("math.add").
		Generics("T").
		In("", "map").
		In("a", "<T>").
		In("b", "<T>").
		Out("", "<T>").
		Delegate("log").
		Out("", "string").
		End().
		Meta("author", "lattice")

	b.Add("app.main").
		In("", "map").
		In("x", "int").
		Out("", "int").
		Place("sum", "math.add").
		Specialize("sum", "T", "int").
		Wire("x(", "a(sum").
		Wire("sum)", ")")

	return b
}

func TestBuilder_Definitions(t *testing.T) {
	defs, err := buildSample().Definitions()
	require.NoError(t, err)
	require.Len(t, defs, 2)

	app, adder := defs[0], defs[1]
	assert.Equal(t, "app.main", app.ID)
	assert.Equal(t, "math.add", adder.ID)

	assert.Equal(t, []string{"T"}, adder.Generics)
	require.Len(t, adder.Delegates, 2)
	assert.Equal(t, "", adder.Delegates[0].Name)
	assert.Len(t, adder.Delegates[0].Ports, 4)
	assert.Equal(t, "log", adder.Delegates[1].Name)
	assert.Equal(t, "lattice", adder.Metadata["author"])

	require.Len(t, app.Operators, 1)
	assert.Equal(t, map[string]string{"T": "int"}, app.Operators[0].Generics)
	assert.Equal(t, []string{"math.add"}, app.Dependencies())
	assert.Len(t, app.Connections, 2)
}

func TestBuilder_BuildCompiles(t *testing.T) {
	loader, err := buildSample().Build()
	require.NoError(t, err)

	ids, err := loader.ListBlueprints()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.main", "math.add"}, ids)

	app, err := compiler.New(loader).Compile("app.main")
	require.NoError(t, err)

	sum := app.Operator("sum")
	require.NotNil(t, sum)
	assert.True(t, sum.Generics().IsResolved())
	assert.Equal(t, "int", sum.Main().Port(domain.In, "b").ResolvedType().Name())
	assert.Len(t, app.Connections(), 2)
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := dsl.New()
	first := b.Add("x")
	assert.Same(t, first, b.Add("x"))
}

func TestBuilder_SpecializeUnknownOperator(t *testing.T) {
	b := dsl.New()
	b.Add("app").Specialize("ghost", "T", "int")

	_, err := b.Build()
	assert.ErrorContains(t, err, "ghost")
}
