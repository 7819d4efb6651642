package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

// LibSQLStore implements the Store interface using libSQL (embedded SQLite fork).
type LibSQLStore struct {
	db *sql.DB
}

// NewLibSQLStore opens a libSQL database at the given path and returns a Store.
// The path should be a file URI, e.g. "file:/path/to/db.db".
func NewLibSQLStore(dbPath string) (*LibSQLStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Apply connection-level PRAGMAs. Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	return &LibSQLStore{db: db}, nil
}

// Close closes the database.
func (s *LibSQLStore) Close() error { return s.db.Close() }

// Migrate runs all pending database migrations.
func (s *LibSQLStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

// Vacuum runs VACUUM on the database.
func (s *LibSQLStore) Vacuum(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "VACUUM")
	return err
}

// SaveWorkflow inserts or updates one workflow document.
func (s *LibSQLStore) SaveWorkflow(ctx context.Context, rec *WorkflowRecord) error {
	if rec.ID == "" {
		return schema.NewError(schema.ErrCodeValidation, "workflow record id is empty")
	}
	if !json.Valid(rec.Document) {
		return schema.NewError(schema.ErrCodeValidation, "workflow record document is not valid JSON")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO workflows (id, name, document, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   document = excluded.document,
		   updated_at = excluded.updated_at`,
		rec.ID, rec.Name, string(rec.Document), timeOrNow(rec.CreatedAt), time.Now().UTC(),
	)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "save workflow").WithCause(err)
	}
	return nil
}

// GetWorkflow fetches one workflow document by ID.
func (s *LibSQLStore) GetWorkflow(ctx context.Context, id string) (*WorkflowRecord, error) {
	rec := &WorkflowRecord{}
	var doc string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, document, created_at, updated_at FROM workflows WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Name, &doc, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storeNotFound("workflow", id)
	}
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "get workflow").WithCause(err)
	}
	rec.Document = json.RawMessage(doc)
	return rec, nil
}

// ListWorkflows returns all stored workflows, newest first.
func (s *LibSQLStore) ListWorkflows(ctx context.Context) ([]*WorkflowRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, document, created_at, updated_at FROM workflows ORDER BY updated_at DESC`)
	if err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "list workflows").WithCause(err)
	}
	defer rows.Close()

	var out []*WorkflowRecord
	for rows.Next() {
		rec := &WorkflowRecord{}
		var doc string
		if err := rows.Scan(&rec.ID, &rec.Name, &doc, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, schema.NewError(schema.ErrCodeStore, "scan workflow row").WithCause(err)
		}
		rec.Document = json.RawMessage(doc)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, schema.NewError(schema.ErrCodeStore, "iterate workflow rows").WithCause(err)
	}
	return out, nil
}

// DeleteWorkflow removes one workflow by ID.
func (s *LibSQLStore) DeleteWorkflow(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM workflows WHERE id = ?`, id)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "delete workflow").WithCause(err)
	}
	return checkRowsAffected(res, "workflow", id)
}

func storeNotFound(kind, id string) *schema.FlowError {
	return schema.NewErrorf(schema.ErrCodeNotFound, "%s %q not found", kind, id)
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "rows affected").WithCause(err)
	}
	if n == 0 {
		return storeNotFound(kind, id)
	}
	return nil
}

func timeOrNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}

var _ Store = (*LibSQLStore)(nil)
