package main

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/adapters/sqlite"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"
)

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	raw, _ := cmd.Flags().GetString("log-level")
	level, err := logging.ParseLevel(raw)
	if err != nil {
		return nil, err
	}
	return logging.NewWithWriter(cmd.ErrOrStderr(), level, false), nil
}

// openWorkspace builds the workspace selected by --dir and --store.
// The returned closer releases the store, if any.
func openWorkspace(cmd *cobra.Command, opts ...lattice.Option) (*lattice.Workspace, io.Closer, error) {
	logger, err := newLogger(cmd)
	if err != nil {
		return nil, nil, err
	}
	dir, _ := cmd.Flags().GetString("dir")
	storeFlag, _ := cmd.Flags().GetString("store")

	opts = append([]lattice.Option{lattice.WithLogger(logger)}, opts...)
	closer := io.Closer(nopCloser{})

	if storeFlag != "" {
		store, c, err := openStore(storeFlag)
		if err != nil {
			return nil, nil, err
		}
		opts = append(opts, lattice.WithStore(store))
		closer = c
		dir = storeFlag
	}

	ws, err := lattice.New(dir, opts...)
	if err != nil {
		closer.Close()
		return nil, nil, fmt.Errorf("failed to open workspace: %w", err)
	}
	return ws, closer, nil
}

// openStore parses "sqlite:PATH" or "redis:ADDR".
func openStore(storeFlag string) (ports.BlueprintStore, io.Closer, error) {
	kind, target, ok := strings.Cut(storeFlag, ":")
	if !ok || target == "" {
		return nil, nil, fmt.Errorf("invalid store %q: expected sqlite:PATH or redis:ADDR", storeFlag)
	}

	switch kind {
	case "sqlite":
		db, err := sql.Open("sqlite", target)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open sqlite database: %w", err)
		}
		if target == ":memory:" {
			db.SetMaxOpenConns(1)
		}
		store, err := sqlite.New(db)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return store, db, nil
	case "redis":
		store := redis.New(target, "", 0)
		return store, store, nil
	default:
		return nil, nil, fmt.Errorf("unknown store kind %q", kind)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
