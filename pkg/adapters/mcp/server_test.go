package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/reference"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *Server {
	t.Helper()

	b := dsl.New()
	b.Add("math.add").
		Generics("T").
		In("", "map").
		In("a", "<T>").
		Out("", "<T>")
	b.Add("app.main").
		In("", "map").
		In("x", "int").
		Place("sum", "math.add").
		Wire("x(", "a(math.add#sum")

	loader, err := b.Build()
	require.NoError(t, err)
	ws, err := lattice.New("", lattice.WithLoader(loader))
	require.NoError(t, err)
	return NewServer(ws, logging.NewNop())
}

func TestParseReference(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	info, err := s.handleParseReference(ctx, mcp.CallToolRequest{}, map[string]any{"reference": "a)"})
	require.NoError(t, err)
	assert.Equal(t, "a", info.Instance)
	assert.False(t, info.DirectionIn)
	assert.Equal(t, "", info.Port)

	_, err = s.handleParseReference(ctx, mcp.CallToolRequest{}, map[string]any{"reference": "##)"})
	assert.ErrorIs(t, err, reference.ErrMalformed)
}

func TestEncodeReference(t *testing.T) {
	s := newServer(t)

	resp, err := s.handleEncodeReference(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"instance":     "c",
		"port":         "e",
		"direction_in": true,
		"blueprint":    "f.g",
		"delegate":     "d",
	})
	require.NoError(t, err)
	assert.Equal(t, "e(f.g#c.d", resp.Reference)

	resp, err = s.handleEncodeReference(context.Background(), mcp.CallToolRequest{}, map[string]any{
		"port":         "result",
		"direction_in": false,
	})
	require.NoError(t, err)
	assert.Equal(t, ")result", resp.Reference)
}

func TestInspectBlueprint(t *testing.T) {
	s := newServer(t)

	view, err := s.handleInspectBlueprint(context.Background(), mcp.CallToolRequest{}, map[string]any{"id": "app.main"})
	require.NoError(t, err)
	assert.Equal(t, "app.main", view.ID)
	require.Len(t, view.Operators, 1)
	assert.False(t, view.Operators[0].Resolved, "T is left unspecialized")

	_, err = s.handleInspectBlueprint(context.Background(), mcp.CallToolRequest{}, map[string]any{"id": "nope"})
	assert.Error(t, err)
}

func TestReadBlueprintResource(t *testing.T) {
	s := newServer(t)

	var req mcp.ReadResourceRequest
	req.Params.URI = BlueprintsURI + "/math.add"
	contents, err := s.readBlueprint(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	var view map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &view))
	assert.Equal(t, "math.add", view["id"])

	req.Params.URI = BlueprintsURI + "/"
	_, err = s.readBlueprint(context.Background(), req)
	assert.Error(t, err)
}

func TestToolsList(t *testing.T) {
	s := newServer(t)

	resp := s.MCPServer().HandleMessage(context.Background(),
		json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(resp)
	require.NoError(t, err)

	for _, name := range []string{"parse_reference", "encode_reference", "inspect_blueprint", "graph_blueprint"} {
		assert.Contains(t, string(data), `"`+name+`"`)
	}
}
