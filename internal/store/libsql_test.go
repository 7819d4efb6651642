package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewcho-dev/opsconductor-flow/pkg/schema"
)

func newTestStore(t *testing.T) *LibSQLStore {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	s, err := NewLibSQLStore("file:" + dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() {
		_ = s.Close()
		_ = os.RemoveAll(dir)
	})
	return s
}

func sampleRecord(name string) *WorkflowRecord {
	now := time.Now().UTC()
	return &WorkflowRecord{
		ID:        uuid.New().String(),
		Name:      name,
		Document:  json.RawMessage(`{"workflow_id":"wf","name":"` + name + `","nodes":[],"edges":[]}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestSaveAndGetWorkflow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("link watch")
	require.NoError(t, s.SaveWorkflow(ctx, rec))

	got, err := s.GetWorkflow(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, "link watch", got.Name)
	assert.JSONEq(t, string(rec.Document), string(got.Document))
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestSaveWorkflow_UpsertKeepsCreatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("v1")
	require.NoError(t, s.SaveWorkflow(ctx, rec))

	first, err := s.GetWorkflow(ctx, rec.ID)
	require.NoError(t, err)

	rec.Name = "v2"
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.SaveWorkflow(ctx, rec))

	got, err := s.GetWorkflow(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "v2", got.Name)
	assert.WithinDuration(t, first.CreatedAt, got.CreatedAt, time.Second)
	assert.True(t, got.UpdatedAt.After(got.CreatedAt))
}

func TestSaveWorkflow_EmptyID(t *testing.T) {
	s := newTestStore(t)
	rec := sampleRecord("x")
	rec.ID = ""
	err := s.SaveWorkflow(context.Background(), rec)
	require.Error(t, err)
}

func TestGetWorkflow_NotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetWorkflow(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeNotFound, schema.CodeOf(err))
}

func TestListWorkflows_NewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	older := sampleRecord("older")
	require.NoError(t, s.SaveWorkflow(ctx, older))

	time.Sleep(10 * time.Millisecond)
	newer := sampleRecord("newer")
	require.NoError(t, s.SaveWorkflow(ctx, newer))

	recs, err := s.ListWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "newer", recs[0].Name)
	assert.Equal(t, "older", recs[1].Name)
}

func TestDeleteWorkflow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("doomed")
	require.NoError(t, s.SaveWorkflow(ctx, rec))
	require.NoError(t, s.DeleteWorkflow(ctx, rec.ID))

	_, err := s.GetWorkflow(ctx, rec.ID)
	require.Error(t, err)

	err = s.DeleteWorkflow(ctx, rec.ID)
	require.Error(t, err)
	assert.Equal(t, schema.ErrCodeNotFound, schema.CodeOf(err))
}

func TestMigrate_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
}

func TestVacuum(t *testing.T) {
	s := newTestStore(t)
	assert.NoError(t, s.Vacuum(context.Background()))
}
