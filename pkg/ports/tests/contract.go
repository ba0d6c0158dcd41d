package tests

import (
	"errors"
	"strings"
	"testing"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// BlueprintLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.BlueprintLoader.
// setupData maps each expected ID to a fragment that must appear in its document.
func BlueprintLoaderContractTest(t *testing.T, loader ports.BlueprintLoader, setupData map[string]string) {
	t.Helper()

	// 1. Test GetBlueprint (Success)
	t.Run("GetBlueprint_Success", func(t *testing.T) {
		for id, fragment := range setupData {
			content, err := loader.GetBlueprint(id)
			if err != nil {
				t.Fatalf("unexpected error getting blueprint %s: %v", id, err)
			}
			if !strings.Contains(string(content), fragment) {
				t.Errorf("content mismatch for %s. got %q, want fragment %q", id, content, fragment)
			}
		}
	})

	// 2. Test GetBlueprint (NotFound)
	t.Run("GetBlueprint_NotFound", func(t *testing.T) {
		_, err := loader.GetBlueprint("non-existent-blueprint")
		if err == nil {
			t.Fatal("expected error for non-existent blueprint, got nil")
		}
		if !errors.Is(err, domain.ErrBlueprintNotFound) {
			t.Errorf("expected ErrBlueprintNotFound, got %v", err)
		}
	})

	// 3. Test ListBlueprints
	t.Run("ListBlueprints", func(t *testing.T) {
		ids, err := loader.ListBlueprints()
		if err != nil {
			t.Fatalf("unexpected error listing blueprints: %v", err)
		}

		if len(ids) != len(setupData) {
			t.Errorf("expected %d blueprints, got %d (%v)", len(setupData), len(ids), ids)
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}

		for id := range setupData {
			if !lookup[id] {
				t.Errorf("blueprint %s missing from list", id)
			}
		}
	})
}
