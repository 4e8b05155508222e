// Package sqlitestore keeps documents in a local sqlite file, for single user
// installs without a postgres server.
package sqlitestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/2beens/gymprogress/internal/docstore"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	owner_id   TEXT NOT NULL,
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL DEFAULT '{}',
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (owner_id, collection, id)
)`

type Store struct {
	db       *sql.DB
	notifier docstore.Notifier
	newID    func() string
}

var _ docstore.Store = (*Store)(nil)

// Open opens (or creates) the sqlite database at path.
func Open(path string, notifier docstore.Notifier) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db dir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	// sqlite serializes writers anyway
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating documents table: %w", err)
	}

	if notifier == nil {
		notifier = docstore.NewHub()
	}
	return &Store{
		db:       db,
		notifier: notifier,
		newID:    uuid.NewString,
	}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Create(ctx context.Context, ownerID, collection string, doc docstore.Document) (string, error) {
	if err := docstore.ValidateScope(ownerID, collection); err != nil {
		return "", err
	}
	if doc == nil {
		doc = docstore.Document{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshal document: %w", err)
	}

	id := s.newID()
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO documents (owner_id, collection, id, data) VALUES (?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		ownerID, collection, id, string(data),
	)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return "", docstore.ErrAlreadyExists
	}

	s.notify(ctx, ownerID, collection)
	return id, nil
}

func (s *Store) Get(ctx context.Context, path docstore.Path) (docstore.Document, error) {
	if err := path.Validate(); err != nil {
		return nil, err
	}
	return get(ctx, s.db, path)
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func get(ctx context.Context, q queryRower, path docstore.Path) (docstore.Document, error) {
	var data string
	err := q.QueryRowContext(
		ctx,
		`SELECT data FROM documents WHERE owner_id = ? AND collection = ? AND id = ?`,
		path.OwnerID, path.Collection, path.ID,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}
	return decode(data)
}

// Update merges the patch in go; sqlite json_patch would drop keys set to null.
func (s *Store) Update(ctx context.Context, path docstore.Path, patch docstore.Document) (err error) {
	if err := path.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
				log.Errorf("sqlitestore rollback: %s", rbErr)
			}
		}
	}()

	current, err := get(ctx, tx, path)
	if err != nil {
		return err
	}
	data, err := json.Marshal(docstore.Merge(current, patch))
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}
	if _, err = tx.ExecContext(
		ctx,
		`UPDATE documents SET data = ?, updated_at = CURRENT_TIMESTAMP WHERE owner_id = ? AND collection = ? AND id = ?`,
		string(data), path.OwnerID, path.Collection, path.ID,
	); err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.notify(ctx, path.OwnerID, path.Collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, path docstore.Path) error {
	if err := path.Validate(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM documents WHERE owner_id = ? AND collection = ? AND id = ?`,
		path.OwnerID, path.Collection, path.ID,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return docstore.ErrNotFound
	}

	s.notify(ctx, path.OwnerID, path.Collection)
	return nil
}

// Query loads the whole owner collection and evaluates the query in memory.
func (s *Store) Query(ctx context.Context, q docstore.Query) ([]docstore.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, data FROM documents WHERE owner_id = ? AND collection = ?`,
		q.OwnerID, q.Collection,
	)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var snaps []docstore.Snapshot
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("document %s: %w", id, err)
		}
		snaps = append(snaps, docstore.Snapshot{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return q.Apply(snaps), nil
}

func (s *Store) Subscribe(ctx context.Context, q docstore.Query) (<-chan []docstore.Snapshot, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	changes, err := s.notifier.Listen(ctx, q.OwnerID, q.Collection)
	if err != nil {
		return nil, fmt.Errorf("listen for changes: %w", err)
	}
	return docstore.Watch(ctx, q, s.Query, changes)
}

func (s *Store) notify(ctx context.Context, ownerID, collection string) {
	if err := s.notifier.Notify(ctx, ownerID, collection); err != nil {
		log.Warnf("sqlitestore notify %s/%s: %s", ownerID, collection, err)
	}
}

func decode(data string) (docstore.Document, error) {
	doc := docstore.Document{}
	if data == "" {
		return doc, nil
	}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}
