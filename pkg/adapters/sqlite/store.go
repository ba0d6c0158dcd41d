// Package sqlite stores blueprint definitions in SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Store is a ports.BlueprintStore backed by SQLite.
//
// It expects an *sql.DB that uses a SQLite driver (for example,
// "modernc.org/sqlite"). The caller is responsible for importing
// the driver, e.g.:
//
//	import _ "modernc.org/sqlite"
//
// With ":memory:" databases, limit the pool to one connection
// (db.SetMaxOpenConns(1)) so every query sees the same database.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ports.BlueprintStore = (*Store)(nil)

// New initializes the required schema in the given database and returns a new Store.
func New(db *sql.DB) (*Store, error) {
	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(); err != nil {
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return s, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS blueprints (
		id TEXT PRIMARY KEY,
		document BLOB NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blueprint_dependencies (
		blueprint_id TEXT NOT NULL,
		depends_on TEXT NOT NULL,
		PRIMARY KEY (blueprint_id, depends_on)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_dependencies_target ON blueprint_dependencies (depends_on)`,
}

func (s *Store) initSchema() error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Save upserts the definition and records which blueprints it places.
func (s *Store) Save(ctx context.Context, def *domain.Definition) error {
	if def.ID == "" {
		return fmt.Errorf("blueprint missing ID")
	}
	doc, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal blueprint %s: %w", def.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO blueprints (id, document, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET document = excluded.document, updated_at = excluded.updated_at`,
		def.ID,
		doc,
		s.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("save blueprint %s: %w", def.ID, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM blueprint_dependencies WHERE blueprint_id = ?`, def.ID); err != nil {
		return err
	}
	for _, dep := range def.Dependencies() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO blueprint_dependencies (blueprint_id, depends_on) VALUES (?, ?)`,
			def.ID, dep,
		)
		if err != nil {
			return fmt.Errorf("save dependency %s -> %s: %w", def.ID, dep, err)
		}
	}

	return tx.Commit()
}

// Load retrieves the definition.
func (s *Store) Load(ctx context.Context, id string) (*domain.Definition, error) {
	row := s.db.QueryRowContext(ctx, `SELECT document FROM blueprints WHERE id = ?`, id)

	var doc []byte
	if err := row.Scan(&doc); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", domain.ErrBlueprintNotFound, id)
		}
		return nil, err
	}

	var def domain.Definition
	if err := json.Unmarshal(doc, &def); err != nil {
		return nil, fmt.Errorf("failed to unmarshal blueprint %s: %w", id, err)
	}
	return &def, nil
}

// Delete removes the definition and its dependency rows.
func (s *Store) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM blueprints WHERE id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM blueprint_dependencies WHERE blueprint_id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// List returns the stored IDs in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	return s.queryIDs(ctx, `SELECT id FROM blueprints ORDER BY id`)
}

// Dependents returns the IDs of stored blueprints that place id as an operator.
func (s *Store) Dependents(ctx context.Context, id string) ([]string, error) {
	return s.queryIDs(ctx, `
		SELECT blueprint_id FROM blueprint_dependencies
		WHERE depends_on = ?
		ORDER BY blueprint_id`, id)
}

func (s *Store) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}
