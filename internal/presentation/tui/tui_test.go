package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/dto"
	"github.com/aretw0/lattice/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlueprintMarkdown(t *testing.T) {
	view := dto.Blueprint{
		ID:       "app.main",
		Generics: []string{"T", "U"},
		Delegates: []dto.Delegate{
			{Name: "", Owner: "blueprint", Ports: []dto.Port{
				{Path: "", Direction: "in", Type: "<T>", Resolved: "?", Reference: "("},
			}},
			{Name: "empty", Owner: "blueprint", Ports: []dto.Port{}},
		},
		Operators: []dto.Operator{
			{Name: "sum", Blueprint: "math.add", Generics: map[string]string{"V": "int", "A": "?"}, Delegates: []dto.Delegate{
				{Name: "", Owner: "operator", Ports: []dto.Port{
					{Path: "a", Direction: "in", Type: "<V>", Resolved: "int", Reference: "a(math.add#sum"},
				}},
			}},
		},
		Connections: []dto.Connection{{From: "(", To: "a(math.add#sum"}},
	}

	md := tui.BlueprintMarkdown(view)

	assert.Contains(t, md, "# app.main")
	assert.Contains(t, md, "Generics: `T`, `U`")
	assert.Contains(t, md, "### main")
	assert.NotContains(t, md, "### empty")
	assert.Contains(t, md, "| `(` | in | `<T>` | `?` |")
	assert.Contains(t, md, "### sum (`math.add`, unresolved)")
	assert.Less(t, strings.Index(md, "`A` = `?`"), strings.Index(md, "`V` = `int`"))
	assert.Contains(t, md, "#### main")
	assert.Contains(t, md, "- `(` → `a(math.add#sum`")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title\n\nbody text")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Contains(t, buf.String(), "|_|")
}
