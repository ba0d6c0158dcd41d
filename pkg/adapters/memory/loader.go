package memory

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aretw0/lattice/pkg/domain"
)

// Loader implements ports.BlueprintLoader using an in-memory map.
type Loader struct {
	docs map[string][]byte
}

// NewLoader creates a new Loader with the provided raw documents (YAML or JSON strings).
func NewLoader(data map[string]string) *Loader {
	docs := make(map[string][]byte, len(data))
	for k, v := range data {
		docs[k] = []byte(v)
	}
	return &Loader{
		docs: docs,
	}
}

// NewFromDefinitions creates a new Loader from domain definitions.
// This handles serialization automatically, improving DX for tests.
func NewFromDefinitions(defs ...domain.Definition) (*Loader, error) {
	docs := make(map[string][]byte, len(defs))
	for _, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("blueprint missing ID")
		}
		if _, dup := docs[def.ID]; dup {
			return nil, fmt.Errorf("duplicate blueprint ID: %s", def.ID)
		}
		bytes, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal blueprint %s: %w", def.ID, err)
		}
		docs[def.ID] = bytes
	}
	return &Loader{docs: docs}, nil
}

// GetBlueprint retrieves the raw document of a blueprint by ID.
func (l *Loader) GetBlueprint(id string) ([]byte, error) {
	content, ok := l.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlueprintNotFound, id)
	}
	return content, nil
}

// ListBlueprints returns all available blueprint IDs.
func (l *Loader) ListBlueprints() ([]string, error) {
	keys := make([]string, 0, len(l.docs))
	for k := range l.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
