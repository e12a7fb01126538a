package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"escher-cotizador/go_backend/internal/infra/db/postgres"
)

// Postgres keeps every collection in one JSONB documents table, with
// server-side timestamps on the row rather than inside the payload.
type Postgres struct {
	db   *postgres.DB
	feed *fanout
}

func NewPostgres(db *postgres.DB) *Postgres {
	return &Postgres{db: db, feed: newFanout()}
}

// EnsureSchema creates the documents table if needed, so docker-compose can
// bootstrap a fresh database.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	payload JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (collection, id)
);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(collection, created_at DESC);`
	if _, err := p.db.Pool.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (p *Postgres) Create(ctx context.Context, collection string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal %s payload: %w", collection, err)
	}
	id := uuid.NewString()
	_, err = p.db.Pool.Exec(ctx, `
		INSERT INTO documents (collection, id, payload, created_at, updated_at)
		VALUES ($1, $2, $3, now(), now())
	`, collection, id, body)
	if err != nil {
		return "", wrapPg("insert "+collection, err)
	}
	p.feed.notify(collection)
	return id, nil
}

func (p *Postgres) Update(ctx context.Context, collection, id string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", collection, err)
	}
	tag, err := p.db.Pool.Exec(ctx, `
		UPDATE documents SET payload = $3, updated_at = now()
		WHERE collection = $1 AND id = $2
	`, collection, id, body)
	if err != nil {
		return wrapPg("update "+collection, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update %s/%s: %w", collection, id, ErrNotFound)
	}
	p.feed.notify(collection)
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string, out any) error {
	var body []byte
	var created, updated time.Time
	err := p.db.Pool.QueryRow(ctx, `
		SELECT payload, created_at, updated_at FROM documents
		WHERE collection = $1 AND id = $2
	`, collection, id).Scan(&body, &created, &updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get %s/%s: %w", collection, id, ErrNotFound)
	}
	if err != nil {
		return wrapPg("get "+collection, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s/%s: %w", collection, id, err)
	}
	return mergeMeta(out, id, created, updated)
}

func (p *Postgres) Query(ctx context.Context, collection string, filters []Filter, order Order, out any) error {
	query := `SELECT id, payload, created_at, updated_at FROM documents WHERE collection = $1`
	args := []any{collection}
	for _, f := range filters {
		query += fmt.Sprintf(" AND payload->>$%d = $%d", len(args)+1, len(args)+2)
		args = append(args, f.Field, f.Value)
	}
	query += orderClause(order, &args)

	rows, err := p.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return wrapPg("query "+collection, err)
	}
	defer rows.Close()

	docs := make([]json.RawMessage, 0)
	for rows.Next() {
		var id string
		var body []byte
		var created, updated time.Time
		if err := rows.Scan(&id, &body, &created, &updated); err != nil {
			return wrapPg("scan "+collection, err)
		}
		merged, err := spliceMeta(body, id, created, updated)
		if err != nil {
			return fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, merged)
	}
	if err := rows.Err(); err != nil {
		return wrapPg("query "+collection, err)
	}
	all, err := json.Marshal(docs)
	if err != nil {
		return err
	}
	return json.Unmarshal(all, out)
}

func (p *Postgres) Subscribe(collection string, fn func()) (cancel func()) {
	return p.feed.subscribe(collection, fn)
}

func orderClause(order Order, args *[]any) string {
	dir := " ASC"
	if order.Desc {
		dir = " DESC"
	}
	switch order.Field {
	case "":
		return " ORDER BY created_at ASC"
	case "createdAt":
		return " ORDER BY created_at" + dir
	case "updatedAt":
		return " ORDER BY updated_at" + dir
	default:
		*args = append(*args, order.Field)
		return " ORDER BY payload->>$" + strconv.Itoa(len(*args)) + dir
	}
}

// mergeMeta writes the row-level id and timestamps over the decoded value.
// A second Unmarshal into the same destination only touches the fields
// present in the metadata document.
func mergeMeta(out any, id string, created, updated time.Time) error {
	meta, err := json.Marshal(map[string]any{
		"id":        id,
		"createdAt": created.UTC(),
		"updatedAt": updated.UTC(),
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(meta, out)
}

// spliceMeta does the same merge on the raw payload, preserving number
// precision for fields this layer does not know about.
func spliceMeta(body []byte, id string, created, updated time.Time) (json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	doc := map[string]any{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	doc["id"] = id
	doc["createdAt"] = created.UTC()
	doc["updatedAt"] = updated.UTC()
	return json.Marshal(doc)
}

func wrapPg(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "42501" {
		return fmt.Errorf("%s: %w", op, ErrPermissionDenied)
	}
	return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
}
