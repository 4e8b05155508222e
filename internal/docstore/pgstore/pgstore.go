// Package pgstore keeps documents as JSONB rows in a single postgres table.
package pgstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/gymprogress/internal/docstore"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

type Store struct {
	db       *pgxpool.Pool
	notifier docstore.Notifier
	newID    func() string
}

var _ docstore.Store = (*Store)(nil)

func New(db *pgxpool.Pool, notifier docstore.Notifier) *Store {
	if notifier == nil {
		notifier = docstore.NewHub()
	}
	return &Store{
		db:       db,
		notifier: notifier,
		newID:    uuid.NewString,
	}
}

func (s *Store) Create(ctx context.Context, ownerID, collection string, doc docstore.Document) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.create")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

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
	span.SetAttributes(
		attribute.String("collection", collection),
		attribute.String("document.id", id),
	)
	if _, err := s.db.Exec(
		ctx,
		`INSERT INTO documents (owner_id, collection, id, data) VALUES ($1, $2, $3, $4::jsonb)`,
		ownerID, collection, id, data,
	); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return "", docstore.ErrAlreadyExists
		}
		return "", fmt.Errorf("insert document: %w", err)
	}

	s.notify(ctx, ownerID, collection)
	return id, nil
}

func (s *Store) Get(ctx context.Context, path docstore.Path) (_ docstore.Document, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := path.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("document.path", path.String()))

	var data []byte
	if err := s.db.QueryRow(
		ctx,
		`SELECT data FROM documents WHERE owner_id = $1 AND collection = $2 AND id = $3`,
		path.OwnerID, path.Collection, path.ID,
	).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, docstore.ErrNotFound
		}
		return nil, fmt.Errorf("select document: %w", err)
	}

	return decode(data)
}

func (s *Store) Update(ctx context.Context, path docstore.Path, patch docstore.Document) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := path.Validate(); err != nil {
		return err
	}
	span.SetAttributes(attribute.String("document.path", path.String()))

	if patch == nil {
		patch = docstore.Document{}
	}
	data, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("marshal patch: %w", err)
	}

	tag, err := s.db.Exec(
		ctx,
		`UPDATE documents SET data = data || $4::jsonb, updated_at = now()
		WHERE owner_id = $1 AND collection = $2 AND id = $3`,
		path.OwnerID, path.Collection, path.ID, data,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}

	s.notify(ctx, path.OwnerID, path.Collection)
	return nil
}

func (s *Store) Delete(ctx context.Context, path docstore.Path) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := path.Validate(); err != nil {
		return err
	}
	span.SetAttributes(attribute.String("document.path", path.String()))

	tag, err := s.db.Exec(
		ctx,
		`DELETE FROM documents WHERE owner_id = $1 AND collection = $2 AND id = $3`,
		path.OwnerID, path.Collection, path.ID,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return docstore.ErrNotFound
	}

	s.notify(ctx, path.OwnerID, path.Collection)
	return nil
}

func (s *Store) Query(ctx context.Context, q docstore.Query) (_ []docstore.Snapshot, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "docstore.pg.query")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := q.Validate(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("collection", q.Collection))

	sql, args := BuildQuery(q)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var snaps []docstore.Snapshot
	for rows.Next() {
		var id string
		var data []byte
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

	span.SetAttributes(attribute.Int("documents.count", len(snaps)))
	return snaps, nil
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
		log.Warnf("pgstore notify %s/%s: %s", ownerID, collection, err)
	}
}

func decode(data []byte) (docstore.Document, error) {
	doc := docstore.Document{}
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

// BuildQuery translates q into SQL over the documents table. Numeric bounds
// only match JSON numbers, mirroring the in-memory evaluation in docstore.
func BuildQuery(q docstore.Query) (string, []any) {
	args := []any{q.OwnerID, q.Collection}
	bind := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	var sb strings.Builder
	sb.WriteString(`SELECT id, data FROM documents WHERE owner_id = $1 AND collection = $2`)

	for _, f := range q.Where {
		op := string(f.Op)
		if f.Op == docstore.OpEq {
			op = "="
		}

		sb.WriteString(" AND ")
		if f.Field == docstore.FieldID {
			sb.WriteString("id " + op + " " + bind(fmt.Sprint(f.Value)) + "::text")
			continue
		}

		key := bind(f.Field) + "::text"
		if n, ok := docstore.Numeric(f.Value); ok {
			sb.WriteString(numericField(key) + " " + op + " " + bind(n) + "::double precision")
			continue
		}
		switch v := f.Value.(type) {
		case string:
			sb.WriteString(
				"(jsonb_typeof(data -> " + key + ") = 'string' AND (data ->> " + key + ") " + op + " " + bind(v) + "::text)",
			)
		case bool:
			sb.WriteString(
				"(jsonb_typeof(data -> " + key + ") = 'boolean' AND (data ->> " + key + ")::boolean " + op + " " + bind(v) + "::boolean)",
			)
		}
	}

	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	switch q.OrderBy {
	case "":
		sb.WriteString(" ORDER BY id ASC")
	case docstore.FieldID:
		sb.WriteString(" ORDER BY id " + dir)
	default:
		key := bind(q.OrderBy) + "::text"
		sb.WriteString(
			" ORDER BY " + numericField(key) + " " + dir + " NULLS LAST, " +
				stringField(key) + " " + dir + " NULLS LAST, id ASC",
		)
	}

	if q.Limit > 0 {
		sb.WriteString(" LIMIT " + bind(q.Limit))
	}

	return sb.String(), args
}

func numericField(key string) string {
	return "(CASE WHEN jsonb_typeof(data -> " + key + ") = 'number' THEN (data ->> " + key + ")::double precision END)"
}

func stringField(key string) string {
	return "(CASE WHEN jsonb_typeof(data -> " + key + ") = 'string' THEN data ->> " + key + " END)"
}
