// Package catalog persists portable type tables in a SQLite database.
//
// Tables are stored in their binary encoding under a name. Saving the same
// table under the same name twice returns the existing id.
package catalog

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/hex"
	stderrors "errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/wippyai/typeinfo/errors"
	"github.com/wippyai/typeinfo/portable"
)

//go:embed schema.sql
var schemaSQL string

// Entry describes one stored table.
type Entry struct {
	CreatedAt time.Time
	Name      string
	Digest    string
	ID        uuid.UUID
	Types     int
	Size      int
}

// Store is a catalogue of tables backed by one SQLite file.
type Store struct {
	mu  sync.RWMutex
	db  *sql.DB
	log *zap.Logger
}

// Open opens or creates the catalogue at path. The parent directory is
// created when missing; ":memory:" opens a private in-memory catalogue.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.InvalidInput(errors.PhaseStore, "empty catalog path")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidInput, err, "create catalog directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "open catalog")
	}
	// one connection keeps ":memory:" catalogues shared and writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "apply catalog schema")
	}

	log := Logger().With(zap.String("catalog", path))
	log.Debug("catalog opened")
	return &Store{db: db, log: log}, nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}

func (s *Store) conn() (*sql.DB, error) {
	if s.db == nil {
		return nil, errors.NotInitialized(errors.PhaseStore, "catalog")
	}
	return s.db, nil
}

// Digest returns the hex SHA-256 of a table's binary encoding.
func Digest(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Save stores reg under name and returns its id. An identical table
// already stored under name is not duplicated.
func (s *Store) Save(ctx context.Context, name string, reg *portable.Registry) (uuid.UUID, error) {
	if name == "" {
		return uuid.Nil, errors.InvalidInput(errors.PhaseStore, "empty table name")
	}
	if reg == nil {
		return uuid.Nil, errors.InvalidInput(errors.PhaseStore, "nil registry")
	}
	data, err := reg.MarshalBinary()
	if err != nil {
		return uuid.Nil, err
	}
	digest := Digest(data)

	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return uuid.Nil, err
	}

	var existing string
	err = db.QueryRowContext(ctx,
		"SELECT id FROM tables WHERE name = ? AND digest = ?", name, digest,
	).Scan(&existing)
	switch {
	case err == nil:
		s.log.Debug("table unchanged", zap.String("name", name), zap.String("id", existing))
		return uuid.Parse(existing)
	case !stderrors.Is(err, sql.ErrNoRows):
		return uuid.Nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "query table")
	}

	id, err := uuid.NewV7()
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "generate id")
	}
	_, err = db.ExecContext(ctx,
		"INSERT INTO tables (id, name, digest, type_count, data, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		id.String(), name, digest, reg.Len(), data, time.Now().UnixNano(),
	)
	if err != nil {
		return uuid.Nil, errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "insert table")
	}
	s.log.Info("table saved",
		zap.String("name", name),
		zap.String("id", id.String()),
		zap.Int("types", reg.Len()),
		zap.Int("bytes", len(data)))
	return id, nil
}

// Load returns the table stored with id.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (*portable.Registry, error) {
	return s.load(ctx, id.String(), "SELECT data FROM tables WHERE id = ?", id.String())
}

// LoadByName returns the most recently saved table called name.
func (s *Store) LoadByName(ctx context.Context, name string) (*portable.Registry, error) {
	return s.load(ctx, name,
		"SELECT data FROM tables WHERE name = ? ORDER BY created_at DESC, id DESC LIMIT 1", name)
}

func (s *Store) load(ctx context.Context, what, query string, args ...any) (*portable.Registry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var data []byte
	err = db.QueryRowContext(ctx, query, args...).Scan(&data)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(errors.PhaseLoad, "table", what)
	}
	if err != nil {
		return nil, errors.Load("query table", err)
	}
	return portable.Decode(data)
}

// List returns every stored table, oldest first.
func (s *Store) List(ctx context.Context) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		"SELECT id, name, digest, type_count, length(data), created_at FROM tables ORDER BY created_at, id")
	if err != nil {
		return nil, errors.Load("list tables", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			id      string
			created int64
		)
		if err := rows.Scan(&id, &e.Name, &e.Digest, &e.Types, &e.Size, &created); err != nil {
			return nil, errors.Load("scan table", err)
		}
		if e.ID, err = uuid.Parse(id); err != nil {
			return nil, errors.Load("parse table id", err)
		}
		e.CreatedAt = time.Unix(0, created)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Load("list tables", err)
	}
	return out, nil
}

// Delete removes the table stored with id.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	db, err := s.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx, "DELETE FROM tables WHERE id = ?", id.String())
	if err != nil {
		return errors.Wrap(errors.PhaseStore, errors.KindInvalidData, err, "delete table")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound(errors.PhaseStore, "table", id.String())
	}
	s.log.Info("table deleted", zap.String("id", id.String()))
	return nil
}
