package lattice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/aretw0/lattice/internal/compiler"
	"github.com/aretw0/lattice/internal/validator"
	loamAdapter "github.com/aretw0/lattice/pkg/adapters/loam"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/reference"
	"github.com/aretw0/loam"
)

// ErrNotWatchable is returned by Watch when the loader cannot report changes.
var ErrNotWatchable = errors.New("loader does not support watching")

// Workspace is the high-level entry point for the lattice library.
// It owns a loader and a compiler and hands out compiled blueprints.
// A Workspace is safe for concurrent use; the blueprints it returns are not.
type Workspace struct {
	mu       sync.Mutex
	loader   ports.BlueprintLoader
	compiler *compiler.Compiler
	logger   *slog.Logger
	metrics  *observability.Metrics
	Name     string
}

// Option defines a functional option for configuring the Workspace.
type Option func(*Workspace)

// WithLoader injects a custom BlueprintLoader, bypassing the default Loam initialization.
func WithLoader(l ports.BlueprintLoader) Option {
	return func(w *Workspace) {
		w.loader = l
	}
}

// WithStore serves blueprints from a BlueprintStore.
func WithStore(s ports.BlueprintStore) Option {
	return func(w *Workspace) {
		w.loader = ports.StoreLoader(s)
	}
}

// WithLogger sets a custom structured logger for the workspace.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Workspace) {
		w.logger = logger
	}
}

// WithMetrics records parses, compilations and operator placements on m.
// Blueprints served from the cache are not counted again.
func WithMetrics(m *observability.Metrics) Option {
	return func(w *Workspace) {
		w.metrics = m
	}
}

// New initializes a Workspace.
// By default, it reads blueprint documents from a Loam repository at dir.
// If WithLoader or WithStore is provided, dir can be empty and Loam is skipped.
func New(dir string, opts ...Option) (*Workspace, error) {
	w := &Workspace{}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if w.loader == nil {
		if dir == "" {
			return nil, fmt.Errorf("dir is required when no custom loader is provided")
		}

		absPath, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		w.Name = filepath.Base(absPath)
		w.logger = w.logger.With("workspace", w.Name)

		// Strict mode keeps numbers as json.Number; the workspace never writes documents.
		repo, err := loam.Init(absPath,
			loam.WithStrict(true),
			loam.WithReadOnly(true),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize loam: %w", err)
		}

		typedRepo := loam.NewTypedRepository[loamAdapter.BlueprintMetadata](repo)
		w.loader = loamAdapter.New(typedRepo,
			loamAdapter.WithRoot(absPath),
			loamAdapter.WithLogger(w.logger),
		)
	} else if dir != "" {
		w.Name = filepath.Base(dir)
		w.logger = w.logger.With("workspace", w.Name)
	}

	w.compiler = compiler.New(w.loader,
		compiler.WithLogger(w.logger),
		compiler.WithCompileObserver(func(_ string, err error) {
			w.metrics.ObserveCompile(err)
		}),
		compiler.WithOperatorObserver(w.metrics.ObserveOperator),
	)
	return w, nil
}

// Blueprint compiles (or returns the cached) blueprint with the given ID.
func (w *Workspace) Blueprint(id string) (*domain.Blueprint, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.compiler.Compile(id)
}

// BlueprintIDs lists the IDs the loader knows about.
func (w *Workspace) BlueprintIDs() ([]string, error) {
	return w.loader.ListBlueprints()
}

// ParseReference parses a port reference, reporting the first violated rule.
func (w *Workspace) ParseReference(s string) (reference.Info, error) {
	info, err := reference.ParseStrict(s)
	w.metrics.ObserveParse(err == nil)
	return info, err
}

// Resolve parses ref and resolves it against the blueprint with the given ID.
func (w *Workspace) Resolve(id, ref string) (*domain.Port, error) {
	info, err := w.ParseReference(ref)
	if err != nil {
		return nil, err
	}
	bp, err := w.Blueprint(id)
	if err != nil {
		return nil, err
	}
	return bp.Resolve(info)
}

// Validate compiles every blueprint and reports the problems found.
func (w *Workspace) Validate() (*validator.Report, error) {
	return validator.ValidateWorkspace(w.loader, w.logger)
}

// Reload drops every compiled blueprint so the next access reads the loader again.
func (w *Workspace) Reload() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.compiler.Reset()
	w.logger.Debug("workspace reloaded")
}

// Watch returns a channel that emits the ID of each changed blueprint.
// The compiled cache is dropped before each ID is delivered.
// Returns ErrNotWatchable if the loader does not support watching.
func (w *Workspace) Watch(ctx context.Context) (<-chan string, error) {
	watcher, ok := w.loader.(ports.Watchable)
	if !ok {
		return nil, ErrNotWatchable
	}
	events, err := watcher.Watch(ctx)
	if err != nil {
		return nil, err
	}

	out := make(chan string, 1)
	go func() {
		defer close(out)
		for id := range events {
			w.Reload()
			w.logger.Info("blueprint changed", "id", id)
			select {
			case out <- id:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Loader returns the underlying BlueprintLoader used by the workspace.
func (w *Workspace) Loader() ports.BlueprintLoader {
	return w.loader
}

// Logger returns the workspace logger.
func (w *Workspace) Logger() *slog.Logger {
	return w.logger
}

// Metrics returns the collectors passed with WithMetrics, or nil.
func (w *Workspace) Metrics() *observability.Metrics {
	return w.metrics
}
