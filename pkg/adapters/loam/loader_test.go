package loam

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/testutils"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	ctx := context.Background()

	docA := core.Document{
		ID: "a.md",
		Content: `---
id: a
generics: [T]
---
Blueprint A`,
	}
	docB := core.Document{
		ID: "b.md",
		Content: `---
id: b
operators:
  - { name: inner, blueprint: a }
---`,
	}

	require.NoError(t, repo.Save(ctx, docA))
	require.NoError(t, repo.Save(ctx, docB))

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	tests.BlueprintLoaderContractTest(t, loader, map[string]string{
		"a": `"generics":["T"]`,
		"b": `"blueprint":"a"`,
	})
}

func TestLoader_ListBlueprints_NormalizesIDs(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	testutils.WriteFiles(t, tmpDir, map[string]string{
		"start.md": `---
id: start.md
---`,
		"choice.json": `{
  "id": "choice.json"
}`,
		"implicit.md": `---
generics: [T]
---
ID is implied from filename`,
	})

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	ids, err := loader.ListBlueprints()
	require.NoError(t, err)

	assert.Equal(t, []string{"choice", "implicit", "start"}, ids)
}

func TestLoader_ListBlueprints_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)

	testutils.WriteFiles(t, tmpDir, map[string]string{
		"foo.md": `---
id: foo
---
Explicit ID`,
		"foo.json": `{
  "id": "foo"
}`,
	})

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	_, err := loader.ListBlueprints()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_GetBlueprint_NormalizesID(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"node.json": `{ "id": "node.json", "generics": ["T"] }`,
	})

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	data, err := loader.GetBlueprint("node")
	require.NoError(t, err)

	assert.Contains(t, string(data), `"id":"node"`)
	assert.NotContains(t, string(data), `"id":"node.json"`)
}

func TestLoader_DescriptionAndMetadata(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		testutils.AdderPath: testutils.Adder,
		"styled.md": `---
id: styled
metadata:
  editor:
    color: blue
  tags: [a, b]
---`,
	})

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	data, err := loader.GetBlueprint("math.add")
	require.NoError(t, err)
	var def domain.Definition
	require.NoError(t, json.Unmarshal(data, &def))
	assert.Equal(t, "Adds two values of the same type.", def.Metadata[DescriptionKey])
	require.Len(t, def.Delegates, 1)
	assert.Len(t, def.Delegates[0].Ports, 4)

	data, err = loader.GetBlueprint("styled")
	require.NoError(t, err)
	def = domain.Definition{}
	require.NoError(t, json.Unmarshal(data, &def))
	assert.Equal(t, "blue", def.Metadata["editor-color"])
	assert.Equal(t, "a b", def.Metadata["tags"])
	_, hasDescription := def.Metadata[DescriptionKey]
	assert.False(t, hasDescription)
}

func TestLoader_WireShorthand(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		testutils.AdderPath: testutils.Adder,
		"short.md": `---
id: short
delegates:
  - name: ""
    ports:
      - { path: "", direction: in, type: int }
      - { path: "", direction: out, type: int }
operators:
  - { name: sum, blueprint: math.add, generics: { T: int } }
connections:
  - { from: "(", to: "a(sum" }
wires:
  "sum)": ")"
  "(": "b(sum"
---`,
	})

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	bp, err := compiler.New(loader).Compile("short")
	require.NoError(t, err)

	var got []string
	for _, c := range bp.Connections() {
		got = append(got, c.String())
	}
	assert.Equal(t, []string{
		"( -> a(math.add#sum",
		"( -> b(math.add#sum",
		"math.add#sum) -> )",
	}, got)
}

func TestLoader_CompilesNestedBlueprints(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		testutils.AdderPath: testutils.Adder,
		testutils.AppPath:   testutils.App,
	})

	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	all, err := compiler.New(loader).CompileAll()
	require.NoError(t, err)
	require.Len(t, all, 2)

	app := all[0]
	assert.Equal(t, "app.main", app.ID())
	assert.Len(t, app.Connections(), 3)
	assert.Equal(t, "int", app.Operator("sum").Main().PortOut().ResolvedType().Name())
}

func TestLoader_DottedIDsLiveInDirectories(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		testutils.AdderPath: testutils.Adder,
		testutils.AppPath:   testutils.App,
		"plain.md":          "---\nid: plain\n---",
		"net.http.md":       "---\nid: net.http\n---",
		"app.extra.yaml":    "id: app.extra\n",
	})

	var logs bytes.Buffer
	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo),
		WithRoot(tmpDir),
		WithLogger(slog.New(slog.NewTextHandler(&logs, nil))),
	)

	ids, err := loader.ListBlueprints()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.main", "math.add", "plain"}, ids)
	assert.Contains(t, logs.String(), "net.http.md")
	assert.Contains(t, logs.String(), "app.extra.yaml")

	skipped, err := loader.Unlisted()
	require.NoError(t, err)
	assert.Equal(t, []string{"app.extra.yaml", "net.http.md"}, skipped)

	data, err := loader.GetBlueprint("math.add")
	require.NoError(t, err)
	assert.Contains(t, string(data), `"id":"math.add"`)
}

func TestLoader_UnlistedWithoutRoot(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	loader := New(loam.NewTypedRepository[BlueprintMetadata](repo))

	skipped, err := loader.Unlisted()
	require.NoError(t, err)
	assert.Empty(t, skipped)
}
