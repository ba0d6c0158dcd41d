package ports

import (
	"context"
	"encoding/json"
	"fmt"
)

// BlueprintLoader defines how the compiler retrieves blueprint documents.
type BlueprintLoader interface {
	// GetBlueprint retrieves the raw document of a blueprint by ID.
	// It returns the raw bytes (YAML or JSON, which the compiler will parse) or an error
	// wrapping domain.ErrBlueprintNotFound.
	GetBlueprint(id string) ([]byte, error)

	// ListBlueprints returns the IDs of every available blueprint.
	// This is used for introspection and validation (e.g. 'lattice validate').
	ListBlueprints() ([]string, error)
}

// StoreLoader exposes a BlueprintStore as a BlueprintLoader.
// Documents are served as JSON.
func StoreLoader(store BlueprintStore) BlueprintLoader {
	return &storeLoader{store: store}
}

type storeLoader struct {
	store BlueprintStore
}

func (l *storeLoader) GetBlueprint(id string) ([]byte, error) {
	def, err := l.store.Load(context.Background(), id)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blueprint %s: %w", id, err)
	}
	return data, nil
}

func (l *storeLoader) ListBlueprints() ([]string, error) {
	return l.store.List(context.Background())
}

// Watchable is implemented by loaders that can report changed blueprints.
type Watchable interface {
	// Watch emits the ID of each changed blueprint until ctx is cancelled.
	Watch(ctx context.Context) (<-chan string, error)
}
