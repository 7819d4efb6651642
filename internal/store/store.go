package store

import (
	"context"
	"encoding/json"
	"time"
)

// WorkflowRecord is a persisted workflow: the serialized document plus
// bookkeeping columns. Document is the codec's output, stored opaque.
type WorkflowRecord struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Document  json.RawMessage `json:"document"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Store defines the persistence layer contract.
// All implementations must be safe for concurrent use.
type Store interface {
	SaveWorkflow(ctx context.Context, rec *WorkflowRecord) error
	GetWorkflow(ctx context.Context, id string) (*WorkflowRecord, error)
	ListWorkflows(ctx context.Context) ([]*WorkflowRecord, error)
	DeleteWorkflow(ctx context.Context, id string) error

	// Maintenance
	Migrate(ctx context.Context) error
	Vacuum(ctx context.Context) error

	// Lifecycle
	Close() error
}
