package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/aretw0/lattice/internal/testutils"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the root command with args and returns what it printed.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCapture(t, args...)
	return out, err
}

// runCapture is run that also returns what went to stderr.
func runCapture(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// resetFlags restores scalar flags to their defaults between runs.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if f.Value.Type() == "stringSlice" {
			return
		}
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func workspaceDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	testutils.WriteFiles(t, dir, map[string]string{
		testutils.AdderPath: testutils.Adder,
		testutils.AppPath:   testutils.App,
	})
	return dir
}

func TestParseCommand(t *testing.T) {
	out, err := run(t, "parse", "--json", "e(f.g#c.d")
	require.NoError(t, err)
	assert.Contains(t, out, `"instance": "c"`)
	assert.Contains(t, out, `"blueprint": "f.g"`)

	out, err = run(t, "parse", ")result")
	require.NoError(t, err)
	assert.Contains(t, out, "port: result")

	_, err = run(t, "parse", "((")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reference")
}

func TestEncodeCommand(t *testing.T) {
	out, err := run(t, "encode", "--instance", "c", "--port", "e", "--in", "--blueprint", "f.g", "--delegate", "d")
	require.NoError(t, err)
	assert.Equal(t, "e(f.g#c.d\n", out)

	out, err = run(t, "encode", "--instance", "a")
	require.NoError(t, err)
	assert.Equal(t, "a)\n", out)
}

func TestInspectCommand(t *testing.T) {
	dir := workspaceDir(t)

	out, err := run(t, "inspect", "--dir", dir, "-f", "yaml", "app.main")
	require.NoError(t, err)
	assert.Contains(t, out, "id: app.main")
	assert.Contains(t, out, "blueprint: math.add")

	out, err = run(t, "inspect", "--dir", dir, "-f", "markdown", "math.add")
	require.NoError(t, err)
	assert.Contains(t, out, "math.add")

	_, err = run(t, "inspect", "--dir", dir, "missing")
	assert.Error(t, err)
}

func TestGraphCommand(t *testing.T) {
	out, err := run(t, "graph", "--dir", workspaceDir(t), "app.main")
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "op_sum")
}

func TestValidateCommand(t *testing.T) {
	out, err := run(t, "validate", "--dir", workspaceDir(t), "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "2 blueprint(s) valid")

	broken := t.TempDir()
	testutils.WriteFiles(t, broken, map[string]string{
		testutils.AppPath: testutils.App,
	})
	out, err = run(t, "validate", "--dir", broken)
	require.Error(t, err)
	assert.Contains(t, out, "app.main")
}

func TestImportCommand(t *testing.T) {
	dir := workspaceDir(t)
	db := "sqlite:" + filepath.Join(t.TempDir(), "blueprints.db")

	out, err := run(t, "import", "--dir", dir, "--to", db)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 blueprint(s)")

	out, err = run(t, "inspect", "--store", db, "-f", "json", "app.main")
	require.NoError(t, err)
	assert.Contains(t, out, `"id": "app.main"`)

	_, err = run(t, "import", "--dir", dir, "--to", "ftp:somewhere")
	assert.Error(t, err)
}

func TestImportCommand_WarnsAboutSkippedDocuments(t *testing.T) {
	dir := workspaceDir(t)
	testutils.WriteFiles(t, dir, map[string]string{
		"net.http.md": "---\nid: net.http\n---",
	})
	db := "sqlite:" + filepath.Join(t.TempDir(), "blueprints.db")

	out, errOut, err := runCapture(t, "import", "--dir", dir, "--to", db)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 2 blueprint(s)")
	assert.Contains(t, errOut, "warning: net.http.md was not loaded")
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "lattice version")
}

func TestLogLevelFlag(t *testing.T) {
	_, err := run(t, "graph", "--dir", workspaceDir(t), "--log-level", "loud", "app.main")
	assert.ErrorContains(t, err, "unknown log level")
}
