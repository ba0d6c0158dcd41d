package testutils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
// It fails the test immediately on error.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteFiles writes blueprint documents below dir, creating subdirectories as needed.
func WriteFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

// Document paths for the fixtures below. Loam skips dotted base names,
// so dotted IDs get one directory per segment.
const (
	AdderPath = "math/add.md"
	AppPath   = "app/main.md"
)

// Adder is a generic two-input blueprint document in Markdown frontmatter form.
const Adder = `---
id: math.add
generics: [T]
delegates:
  - name: ""
    ports:
      - { path: "", direction: in, type: map }
      - { path: a, direction: in, type: "<T>" }
      - { path: b, direction: in, type: "<T>" }
      - { path: "", direction: out, type: "<T>" }
---
Adds two values of the same type.`

// App places Adder once, specialized to int.
const App = `---
id: app.main
delegates:
  - name: ""
    ports:
      - { path: "", direction: in, type: map }
      - { path: x, direction: in, type: int }
      - { path: y, direction: in, type: int }
      - { path: "", direction: out, type: int }
operators:
  - { name: sum, blueprint: math.add, generics: { T: int } }
connections:
  - { from: "x(", to: "a(math.add#sum" }
  - { from: "y(", to: "b(math.add#sum" }
  - { from: "math.add#sum)", to: ")" }
---`
