package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// BlueprintStore defines the interface for persisting blueprint definitions.
type BlueprintStore interface {
	// Save persists the definition under def.ID, replacing any previous version.
	Save(ctx context.Context, def *domain.Definition) error

	// Load retrieves the definition for a given ID.
	// Returns domain.ErrBlueprintNotFound if the blueprint does not exist.
	Load(ctx context.Context, id string) (*domain.Definition, error)

	// Delete removes the definition for a given ID.
	Delete(ctx context.Context, id string) error

	// List returns the stored IDs in ascending order.
	List(ctx context.Context) ([]string, error)
}
