package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key the store writes.
const DefaultPrefix = "lattice:blueprint:"

// farFuture scores index entries that never expire (2100-01-01).
const farFuture = 4102444800

// Store implements ports.BlueprintStore using Redis.
// Each definition is a JSON string key; a sorted set indexes the IDs by expiry.
type Store struct {
	client  *backend.Client
	prefix  string
	ttl     time.Duration
	lockTTL time.Duration
	locker  *Locker
}

type Option func(*Store)

// WithTTL sets the expiration for stored definitions.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithLockTTL bounds how long Update may hold a blueprint's lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.lockTTL = ttl
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client:  client,
		prefix:  DefaultPrefix,
		lockTTL: 10 * time.Second,
	}

	for _, opt := range opts {
		opt(store)
	}
	store.locker = NewLocker(client, store.prefix)

	return store
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the definition to Redis.
func (s *Store) Save(ctx context.Context, def *domain.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("blueprint missing ID")
	}
	data, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal blueprint %s: %w", def.ID, err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(def.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: def.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the definition from Redis.
func (s *Store) Load(ctx context.Context, id string) (*domain.Definition, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBlueprintNotFound, id)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var def domain.Definition
	if err := json.Unmarshal([]byte(val), &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blueprint %s: %w", id, err)
	}
	return &def, nil
}

// Delete removes the definition.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns the stored IDs in ascending order.
// Expired entries are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired blueprints: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list blueprints: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}

// Update loads, modifies and saves one definition while holding its lock,
// so concurrent editors never overwrite each other's changes.
// A missing blueprint is passed to fn as an empty definition with the requested ID.
func (s *Store) Update(ctx context.Context, id string, fn func(def *domain.Definition) error) error {
	unlock, err := s.locker.Lock(ctx, id, s.lockTTL)
	if err != nil {
		return fmt.Errorf("lock %s: %w", id, err)
	}
	defer func() { _ = unlock(context.WithoutCancel(ctx)) }()

	def, err := s.Load(ctx, id)
	if errors.Is(err, domain.ErrBlueprintNotFound) {
		def = &domain.Definition{ID: id}
	} else if err != nil {
		return err
	}

	if err := fn(def); err != nil {
		return err
	}
	if def.ID != id {
		return fmt.Errorf("update %s: id changed to %q", id, def.ID)
	}
	return s.Save(ctx, def)
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
