package loam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/loam"
)

// DescriptionKey is the metadata key receiving a Markdown document's body.
const DescriptionKey = "description"

// Loader adapts the Loam library to the ports.BlueprintLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[BlueprintMetadata]

	// Root is the repository directory on disk. When set, ListBlueprints
	// warns about document files that Loam did not list.
	Root   string
	Logger *slog.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithRoot records the directory the repository was opened on.
func WithRoot(dir string) Option {
	return func(l *Loader) {
		l.Root = dir
	}
}

// WithLogger sets the logger used for skipped-document warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loader) {
		l.Logger = logger
	}
}

var (
	_ ports.BlueprintLoader = (*Loader)(nil)
	_ ports.Watchable       = (*Loader)(nil)
)

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[BlueprintMetadata], opts ...Option) *Loader {
	l := &Loader{
		Repo:   repo,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetBlueprint retrieves a blueprint document and returns it as a JSON definition.
// Loam normalizes the lookup, so "math/add" finds "math/add.md".
func (l *Loader) GetBlueprint(id string) ([]byte, error) {
	ctx := context.Background()

	var def domain.Definition
	doc, err := l.Repo.Get(ctx, id)
	if err == nil {
		def = l.buildDefinition(doc.ID, doc.Data, doc.Content)
	} else {
		// Dotted IDs such as "math.add" can defeat Loam's path lookup; fall back to a scan.
		found, ok, listErr := l.find(ctx, id)
		if listErr != nil {
			return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
		}
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrBlueprintNotFound, id)
		}
		def = found
	}

	bytes, err := json.Marshal(def)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal blueprint %s: %w", id, err)
	}
	return bytes, nil
}

func (l *Loader) buildDefinition(docID string, meta BlueprintMetadata, content string) domain.Definition {
	rawID := meta.ID
	if rawID == "" {
		rawID = docID
	}

	def := domain.Definition{
		ID:          trimExtension(rawID),
		Generics:    meta.Generics,
		Delegates:   meta.Delegates,
		Operators:   meta.Operators,
		Connections: meta.Connections,
	}

	// Shorthand wires come after explicit connections, sorted by source.
	froms := make([]string, 0, len(meta.Wires))
	for from := range meta.Wires {
		froms = append(froms, from)
	}
	sort.Strings(froms)
	for _, from := range froms {
		def.Connections = append(def.Connections, domain.ConnectionDefinition{From: from, To: meta.Wires[from]})
	}

	if meta.Metadata != nil {
		def.Metadata = flattenMetadata(meta.Metadata)
	}
	if body := strings.TrimSpace(content); body != "" {
		if def.Metadata == nil {
			def.Metadata = make(map[string]string)
		}
		def.Metadata[DescriptionKey] = body
	}
	return def
}

// ListBlueprints lists all blueprints in the repository.
func (l *Loader) ListBlueprints() ([]string, error) {
	ctx := context.Background()
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	ids := make([]string, 0, len(docs))

	for _, doc := range docs {
		// Use the ID from metadata if available, otherwise filename ID
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existingPath, doc.ID)
		}
		seen[id] = doc.ID
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if l.Root != "" {
		skipped, err := l.unlisted(docs)
		if err != nil {
			return nil, err
		}
		for _, path := range skipped {
			l.Logger.Warn("document not listed by loam, use a directory per dotted segment and set id", "path", path)
		}
	}
	return ids, nil
}

// Unlisted returns the document files below Root that Loam does not list.
// Loam skips files whose base name holds a dot besides the extension,
// so "math.add.md" must be stored as "math/add.md" with "id: math.add".
func (l *Loader) Unlisted() ([]string, error) {
	if l.Root == "" {
		return nil, nil
	}
	docs, err := l.Repo.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}
	return l.unlisted(docs)
}

func (l *Loader) unlisted(docs []*loam.DocumentModel[BlueprintMetadata]) ([]string, error) {
	listed := make(map[string]bool, len(docs))
	for _, doc := range docs {
		listed[trimExtension(doc.ID)] = true
	}

	var skipped []string
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.Root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !isDocument(path) {
			return nil
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if !listed[trimExtension(rel)] {
			skipped = append(skipped, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", l.Root, err)
	}
	sort.Strings(skipped)
	return skipped, nil
}

func isDocument(path string) bool {
	switch filepath.Ext(path) {
	case ".md", ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// Watch reports the IDs of changed blueprint documents until ctx is cancelled.
func (l *Loader) Watch(ctx context.Context) (<-chan string, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan string, 1)

	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case ch <- trimExtension(evt.ID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return ch, nil
}

// trimExtension strips document extensions only, so dotted IDs such as "math.add" survive.
func trimExtension(id string) string {
	switch ext := filepath.Ext(id); ext {
	case ".md", ".json", ".yaml", ".yml":
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}

func (l *Loader) find(ctx context.Context, id string) (domain.Definition, bool, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return domain.Definition{}, false, err
	}
	id = trimExtension(id)
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		if trimExtension(rawID) == id {
			return l.buildDefinition(doc.ID, doc.Data, doc.Content), true, nil
		}
	}
	return domain.Definition{}, false, nil
}

// flattenMetadata converts a nested map into a flat map[string]string,
// joining keys with "-" (e.g. "editor-color").
func flattenMetadata(src map[string]any) map[string]string {
	res := make(map[string]string)
	var visit func(prefix string, v any)

	visit = func(prefix string, v any) {
		switch val := v.(type) {
		case map[string]any:
			for k, sub := range val {
				fullKey := k
				if prefix != "" {
					fullKey = prefix + "-" + k
				}
				visit(fullKey, sub)
			}
		case map[any]any: // YAML often decodes to this
			for k, sub := range val {
				strKey := fmt.Sprintf("%v", k)
				fullKey := strKey
				if prefix != "" {
					fullKey = prefix + "-" + strKey
				}
				visit(fullKey, sub)
			}
		case []any:
			var parts []string
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			res[prefix] = strings.Join(parts, " ")
		default:
			if prefix != "" {
				res[prefix] = fmt.Sprintf("%v", val)
			}
		}
	}

	for k, v := range src {
		visit(k, v)
	}
	return res
}
