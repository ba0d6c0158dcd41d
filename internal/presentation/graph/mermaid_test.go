package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/types"
	"github.com/stretchr/testify/require"
)

func sample(t *testing.T) *domain.Blueprint {
	t.Helper()

	adder := domain.NewBlueprint("math.add", "T")
	main := adder.Main()
	for _, spec := range []domain.PortSpec{
		{Direction: domain.In, Type: types.Map()},
		{Direction: domain.In, Path: "a", Type: types.Param("T")},
		{Direction: domain.Out, Type: types.Param("T")},
	} {
		_, err := main.CreatePort(spec)
		require.NoError(t, err)
	}

	app := domain.NewBlueprint("app.main")
	_, err := app.Main().CreatePort(domain.PortSpec{Direction: domain.In, Type: types.Map()})
	require.NoError(t, err)
	_, err = app.Main().CreatePort(domain.PortSpec{Direction: domain.In, Path: "x", Type: types.Int()})
	require.NoError(t, err)
	_, err = app.Main().CreatePort(domain.PortSpec{Direction: domain.Out, Type: types.Int()})
	require.NoError(t, err)
	errs, err := app.AddDelegate("errors")
	require.NoError(t, err)
	_, err = errs.CreatePort(domain.PortSpec{Direction: domain.Out, Type: types.String()})
	require.NoError(t, err)

	sum, err := app.AddOperator("sum", adder)
	require.NoError(t, err)
	require.NoError(t, sum.Specialize("T", types.Int()))
	_, err = app.AddOperator("open-ended", adder)
	require.NoError(t, err)

	_, err = app.ConnectRefs("x(", "a(sum")
	require.NoError(t, err)
	_, err = app.ConnectRefs("sum)", ")")
	require.NoError(t, err)
	return app
}

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		overlay  *graph.Overlay
		contains []string
		excludes []string
	}{
		{
			name: "Boundary Shapes",
			contains: []string{
				"graph LR",
				`in(["in"])`,
				`out(["out"])`,
				`out_errors(["errors out"])`,
			},
			excludes: []string{"in_errors"},
		},
		{
			name: "Operator Shapes",
			contains: []string{
				`op_sum[["sum<br/>math.add"]]`,
				`op_open_ended[["open-ended<br/>math.add<br/>T = ?"]]`,
				"class op_open_ended generic;",
			},
			excludes: []string{"class op_sum generic;"},
		},
		{
			name: "Wires",
			contains: []string{
				`in -- "x → a" --> op_sum`,
				"op_sum --> out",
			},
		},
		{
			name:    "Selection Overlay",
			overlay: &graph.Overlay{Selected: []string{"sum", "sum", "ghost"}},
			contains: []string{
				"classDef selected",
				"class op_sum selected;",
			},
			excludes: []string{"op_ghost"},
		},
	}

	app := sample(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(app, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
			for _, unwanted := range tt.excludes {
				if strings.Contains(got, unwanted) {
					t.Errorf("GenerateMermaid() = \n%v\nUnexpected substring: %v", got, unwanted)
				}
			}
			if tt.overlay != nil && strings.Count(got, "class op_sum selected;") != 1 {
				t.Errorf("selection should be deduplicated:\n%v", got)
			}
		})
	}
}
