package compiler_test

import (
	"testing"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/reference"
	"github.com/aretw0/lattice/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adderYAML = `
id: math.add
generics: [T]
delegates:
  - name: ""
    ports:
      - { path: a, direction: in, type: "<T>" }
      - { path: "", direction: in, type: map }
      - { path: b, direction: in, type: "<T>" }
      - { path: "", direction: out, type: "<T>" }
  - name: log
    ports:
      - { path: "", direction: out, type: string }
`

const appYAML = `
id: app.main
generics: [U]
delegates:
  - name: ""
    ports:
      - { path: "", direction: in, type: map }
      - { path: x, direction: in, type: int }
      - { path: "", direction: out, type: "[int]" }
operators:
  - name: sum
    blueprint: math.add
    generics: { T: int }
  - name: echo
    blueprint: math.add
    generics: { T: "<U>" }
connections:
  - { from: "x(", to: "a(sum" }
  - { from: "math.add#sum)", to: ")" }
`

func newLoader() *memory.Loader {
	return memory.NewLoader(map[string]string{
		"math.add": adderYAML,
		"app.main": appYAML,
	})
}

func TestCompiler_Compile(t *testing.T) {
	c := compiler.New(newLoader())

	app, err := c.Compile("app.main")
	require.NoError(t, err)

	assert.Equal(t, "app.main", app.ID())
	assert.Equal(t, []string{"U"}, app.Params())
	require.Len(t, app.Operators(), 2)

	sum := app.Operator("sum")
	require.NotNil(t, sum)
	assert.True(t, sum.Generics().IsResolved())
	assert.Equal(t, "int", sum.Main().Port(domain.In, "a").ResolvedType().Name())
	assert.NotNil(t, sum.Delegate("log").PortOut())

	echo := app.Operator("echo")
	require.NotNil(t, echo)
	assert.Equal(t, "<U>", echo.Main().PortOut().ResolvedType().Name())

	// Both operators share the cached definition.
	assert.Same(t, sum.Blueprint(), echo.Blueprint())
	adder, err := c.Compile("math.add")
	require.NoError(t, err)
	assert.Same(t, adder, sum.Blueprint())

	conns := app.Connections()
	require.Len(t, conns, 2)
	assert.Equal(t, "x( -> a(math.add#sum", conns[0].String())
	assert.Equal(t, "math.add#sum) -> )", conns[1].String())
}

func TestCompiler_PortOrderIndependent(t *testing.T) {
	c := compiler.New(newLoader())
	adder, err := c.Compile("math.add")
	require.NoError(t, err)

	in := adder.Main().PortIn()
	require.NotNil(t, in)
	names := []string{}
	for _, child := range in.Children() {
		names = append(names, child.Name())
	}
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestCompiler_CompileAll(t *testing.T) {
	c := compiler.New(newLoader())
	all, err := c.CompileAll()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "app.main", all[0].ID())
	assert.Equal(t, "math.add", all[1].ID())
}

func TestCompiler_Reset(t *testing.T) {
	c := compiler.New(newLoader())
	first, err := c.Compile("math.add")
	require.NoError(t, err)

	c.Reset()
	second, err := c.Compile("math.add")
	require.NoError(t, err)
	assert.NotSame(t, first, second)
}

func TestCompiler_Errors(t *testing.T) {
	tests := []struct {
		name string
		docs map[string]string
		id   string
		want error
	}{
		{
			name: "Missing Blueprint",
			docs: map[string]string{},
			id:   "ghost",
			want: domain.ErrBlueprintNotFound,
		},
		{
			name: "Missing Operator Blueprint",
			docs: map[string]string{"a": "id: a\noperators:\n  - { name: x, blueprint: ghost }\n"},
			id:   "a",
			want: domain.ErrBlueprintNotFound,
		},
		{
			name: "Cycle",
			docs: map[string]string{
				"a": "id: a\noperators:\n  - { name: x, blueprint: b }\n",
				"b": "id: b\noperators:\n  - { name: y, blueprint: a }\n",
			},
			id:   "a",
			want: domain.ErrCycle,
		},
		{
			name: "Self Cycle",
			docs: map[string]string{"a": "id: a\noperators:\n  - { name: x, blueprint: a }\n"},
			id:   "a",
			want: domain.ErrCycle,
		},
		{
			name: "Mismatched ID",
			docs: map[string]string{"a": "id: b\n"},
			id:   "a",
			want: compiler.ErrInvalidDefinition,
		},
		{
			name: "Bad Direction",
			docs: map[string]string{"a": "id: a\ndelegates:\n  - name: ''\n    ports:\n      - { path: '', direction: up }\n"},
			id:   "a",
			want: compiler.ErrInvalidDefinition,
		},
		{
			name: "Bad Type",
			docs: map[string]string{"a": "id: a\ndelegates:\n  - name: ''\n    ports:\n      - { path: '', direction: in, type: complex }\n"},
			id:   "a",
			want: compiler.ErrInvalidDefinition,
		},
		{
			name: "Duplicate Port",
			docs: map[string]string{"a": "id: a\ndelegates:\n  - name: ''\n    ports:\n      - { path: '', direction: in }\n      - { path: '', direction: in }\n"},
			id:   "a",
			want: domain.ErrDuplicatePort,
		},
		{
			name: "Undeclared Generic",
			docs: map[string]string{"a": "id: a\ndelegates:\n  - name: ''\n    ports:\n      - { path: '', direction: in, type: '<T>' }\n"},
			id:   "a",
			want: domain.ErrUndeclaredParameter,
		},
		{
			name: "Undeclared Outer Generic",
			docs: map[string]string{
				"a": "id: a\ngenerics: [T]\n",
				"b": "id: b\noperators:\n  - { name: x, blueprint: a, generics: { T: '<V>' } }\n",
			},
			id:   "b",
			want: domain.ErrUndeclaredParameter,
		},
		{
			name: "Unknown Operator Generic",
			docs: map[string]string{
				"a": "id: a\n",
				"b": "id: b\noperators:\n  - { name: x, blueprint: a, generics: { T: int } }\n",
			},
			id:   "b",
			want: nil,
		},
		{
			name: "Duplicate Delegate",
			docs: map[string]string{"a": "id: a\ndelegates:\n  - name: log\n  - name: log\n"},
			id:   "a",
			want: domain.ErrDuplicateName,
		},
		{
			name: "Duplicate Main Delegate",
			docs: map[string]string{"a": "id: a\ndelegates:\n  - name: ''\n  - name: ''\n"},
			id:   "a",
			want: domain.ErrDuplicateName,
		},
		{
			name: "Malformed Connection",
			docs: map[string]string{"a": "id: a\nconnections:\n  - { from: '((', to: ')' }\n"},
			id:   "a",
			want: reference.ErrMalformed,
		},
		{
			name: "Dangling Connection",
			docs: map[string]string{"a": "id: a\nconnections:\n  - { from: '(', to: ')' }\n"},
			id:   "a",
			want: domain.ErrPortNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := compiler.New(memory.NewLoader(tt.docs))
			_, err := c.Compile(tt.id)
			require.Error(t, err)
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
			}
		})
	}
}

func TestCompiler_Observers(t *testing.T) {
	type compiled struct {
		id string
		ok bool
	}
	var compiles []compiled
	var placed []string

	c := compiler.New(newLoader(),
		compiler.WithCompileObserver(func(id string, err error) {
			compiles = append(compiles, compiled{id, err == nil})
		}),
		compiler.WithOperatorObserver(func(op *domain.Operator) {
			placed = append(placed, op.Parent().ID()+"/"+op.Name())
		}),
	)

	_, err := c.Compile("app.main")
	require.NoError(t, err)
	_, err = c.Compile("app.main")
	require.NoError(t, err)
	_, err = c.Compile("math.add")
	require.NoError(t, err)
	_, err = c.Compile("ghost")
	require.Error(t, err)

	assert.Equal(t, []compiled{
		{"math.add", true},
		{"app.main", true},
		{"ghost", false},
	}, compiles, "cache hits are not reported")
	assert.Equal(t, []string{"app.main/sum", "app.main/echo"}, placed)
}

func TestParser_RejectsUnknownKeys(t *testing.T) {
	p := compiler.NewParser()

	_, err := p.Parse([]byte("id: a\nconectons: []\n"))
	assert.Error(t, err)

	_, err = p.Parse([]byte("generics: [T]\n"))
	assert.Error(t, err)

	_, err = p.Parse([]byte(""))
	assert.Error(t, err)

	_, err = p.Parse([]byte("id: [unterminated"))
	assert.Error(t, err)

	def, err := p.Parse([]byte(`{"id":"json.doc","generics":["T"]}`))
	require.NoError(t, err)
	assert.Equal(t, "json.doc", def.ID)
	assert.Equal(t, []string{"T"}, def.Generics)
}

func TestDecompile_RoundTrip(t *testing.T) {
	c := compiler.New(newLoader())
	app, err := c.Compile("app.main")
	require.NoError(t, err)

	def := compiler.Decompile(app)
	assert.Equal(t, "app.main", def.ID)
	require.Len(t, def.Operators, 2)
	assert.Equal(t, map[string]string{"T": "int"}, def.Operators[0].Generics)
	require.Len(t, def.Connections, 2)
	assert.Equal(t, "a(math.add#sum", def.Connections[0].To)

	rebuilt, err := compiler.Build(def, c.Compile)
	require.NoError(t, err)
	assert.Equal(t, def, compiler.Decompile(rebuilt))
	assert.Equal(t, "int", rebuilt.Operator("sum").Main().Port(domain.In, "a").ResolvedType().Name())
}

func TestBuild_WithoutLookup(t *testing.T) {
	bp, err := compiler.Build(&domain.Definition{
		ID: "standalone",
		Delegates: []domain.DelegateDefinition{{
			Name:  "",
			Ports: []domain.PortDefinition{{Direction: "in", Type: "float"}},
		}},
	}, nil)
	require.NoError(t, err)
	assert.True(t, types.Equal(types.Float(), bp.Main().PortIn().Type()))

	_, err = compiler.Build(&domain.Definition{
		ID:        "needs",
		Operators: []domain.OperatorDefinition{{Name: "x", Blueprint: "other"}},
	}, nil)
	assert.ErrorIs(t, err, compiler.ErrInvalidDefinition)

	_, err = compiler.Build(&domain.Definition{ID: "bad#id"}, nil)
	assert.ErrorIs(t, err, compiler.ErrInvalidDefinition)
}
