package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
)

// Store implements ports.BlueprintStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string][]byte),
	}
}

// Save persists the definition in memory.
// Definitions are kept serialized so callers can't mutate stored state by pointer.
func (s *Store) Save(ctx context.Context, def *domain.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("blueprint missing ID")
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal blueprint %s: %w", def.ID, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[def.ID] = data
	return nil
}

// Load retrieves a copy of the definition.
func (s *Store) Load(ctx context.Context, id string) (*domain.Definition, error) {
	s.mu.RLock()
	data, ok := s.data[id]
	s.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBlueprintNotFound, id)
	}

	var def domain.Definition
	if err := json.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blueprint %s: %w", id, err)
	}
	return &def, nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the stored IDs in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
