package dsl

import (
	"errors"
	"fmt"
	"sort"

	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
)

// Builder collects blueprint definitions.
type Builder struct {
	blueprints map[string]*BlueprintBuilder
	errs       []error
}

// New creates a new builder.
func New() *Builder {
	return &Builder{
		blueprints: make(map[string]*BlueprintBuilder),
	}
}

// Add starts a blueprint definition.
// If the blueprint already exists, it returns the existing builder.
func (b *Builder) Add(id string) *BlueprintBuilder {
	if bb, ok := b.blueprints[id]; ok {
		return bb
	}
	bb := &BlueprintBuilder{
		def:     domain.Definition{ID: id},
		builder: b,
	}
	b.blueprints[id] = bb
	return bb
}

// Definitions returns the collected definitions sorted by ID.
func (b *Builder) Definitions() ([]domain.Definition, error) {
	if err := errors.Join(b.errs...); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(b.blueprints))
	for id := range b.blueprints {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	defs := make([]domain.Definition, 0, len(ids))
	for _, id := range ids {
		defs = append(defs, b.blueprints[id].def)
	}
	return defs, nil
}

// Build serializes the definitions into an in-memory loader.
func (b *Builder) Build() (*memory.Loader, error) {
	defs, err := b.Definitions()
	if err != nil {
		return nil, err
	}

	loader, err := memory.NewFromDefinitions(defs...)
	if err != nil {
		return nil, fmt.Errorf("failed to build memory loader: %w", err)
	}
	return loader, nil
}

func (b *Builder) fail(format string, args ...any) {
	b.errs = append(b.errs, fmt.Errorf(format, args...))
}
