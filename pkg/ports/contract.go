package ports

import (
	"context"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBlueprintStoreContract runs a suite of tests to verify that a BlueprintStore
// implementation adheres to the defined interface contract.
// The store must start empty.
func RunBlueprintStoreContract(t *testing.T, store BlueprintStore) {
	ctx := context.Background()

	def := &domain.Definition{
		ID:       "math.add",
		Generics: []string{"T"},
		Delegates: []domain.DelegateDefinition{
			{Name: "", Ports: []domain.PortDefinition{
				{Path: "", Direction: "in", Type: "map"},
				{Path: "a", Direction: "in", Type: "<T>"},
				{Path: "", Direction: "out", Type: "<T>"},
			}},
		},
		Operators: []domain.OperatorDefinition{
			{Name: "inner", Blueprint: "math.identity", Generics: map[string]string{"T": "int"}},
		},
		Connections: []domain.ConnectionDefinition{{From: "a(", To: "(inner"}},
		Metadata:    map[string]string{"author": "contract"},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, def)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, def.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, def, loaded)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		updated := *def
		updated.Generics = []string{"T", "U"}
		require.NoError(t, store.Save(ctx, &updated))

		loaded, err := store.Load(ctx, def.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{"T", "U"}, loaded.Generics)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent")
		assert.ErrorIs(t, err, domain.ErrBlueprintNotFound)
	})

	t.Run("List", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, &domain.Definition{ID: "a.first"}))

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a.first", "math.add"}, ids)
	})

	t.Run("Loader View", func(t *testing.T) {
		loader := StoreLoader(store)
		data, err := loader.GetBlueprint("a.first")
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"a.first"}`, string(data))

		_, err = loader.GetBlueprint("non-existent")
		assert.ErrorIs(t, err, domain.ErrBlueprintNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, "a.first"))
		require.NoError(t, store.Delete(ctx, def.ID))

		_, err := store.Load(ctx, def.ID)
		assert.ErrorIs(t, err, domain.ErrBlueprintNotFound)

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, ids)

		// Deleting twice is not an error.
		assert.NoError(t, store.Delete(ctx, def.ID))
	})
}
