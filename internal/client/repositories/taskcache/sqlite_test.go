package taskcache

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/client/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE cached_tasks (
    owner_id  TEXT    NOT NULL,
    task_id   TEXT    NOT NULL,
    position  INTEGER NOT NULL,
    payload   TEXT    NOT NULL,
    cached_at TEXT    NOT NULL,
    PRIMARY KEY (owner_id, task_id)
)`

func setupRepo(t *testing.T) *SQLiteRepository {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(schema)
	require.NoError(t, err)
	return NewSQLiteRepository(db)
}

func task(id, title string, deadline time.Time) *models.Task {
	return &models.Task{
		ID:       id,
		Title:    title,
		Status:   "todo",
		Priority: "medium",
		Deadline: deadline,
		Assignee: &models.UserSummary{ID: "u1", Name: "Uma"},
	}
}

func TestReplaceAndList_KeepsOrder(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	d := time.Date(2025, 3, 5, 9, 0, 0, 0, time.UTC)

	in := []*models.Task{task("t3", "third", d), task("t1", "first", d.Add(time.Hour)), task("t2", "second", d.Add(2*time.Hour))}
	require.NoError(t, r.Replace(ctx, "u1", in, at))

	got, cachedAt, err := r.List(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, at.Equal(cachedAt))
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("cached tasks mismatch (-want +got):\n%s", diff)
	}
}

func TestReplace_OverwritesPerOwner(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()
	now := time.Now().UTC()
	d := now.Add(24 * time.Hour).Truncate(time.Second)

	require.NoError(t, r.Replace(ctx, "u1", []*models.Task{task("a", "a", d), task("b", "b", d)}, now))
	require.NoError(t, r.Replace(ctx, "u2", []*models.Task{task("c", "c", d)}, now))
	require.NoError(t, r.Replace(ctx, "u1", []*models.Task{task("b", "b2", d)}, now.Add(time.Minute)))

	got, _, err := r.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].Title)

	other, _, err := r.List(ctx, "u2")
	require.NoError(t, err)
	require.Len(t, other, 1)
}

func TestList_EmptyAndClear(t *testing.T) {
	r := setupRepo(t)
	ctx := context.Background()

	got, cachedAt, err := r.List(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.True(t, cachedAt.IsZero())

	require.NoError(t, r.Replace(ctx, "u1", []*models.Task{task("a", "a", time.Now().UTC())}, time.Now()))
	require.NoError(t, r.Clear(ctx))

	got, _, err = r.List(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestReplace_FailsWithoutSchema(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	r := NewSQLiteRepository(db)
	err = r.Replace(context.Background(), "u1", []*models.Task{{ID: "a"}}, time.Now())
	assert.ErrorContains(t, err, "failed to cache tasks of u1")

	_, _, err = r.List(context.Background(), "u1")
	assert.Error(t, err)
}
