package tasks

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/memstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUsers(t *testing.T, store *memstore.Store, users ...models.User) {
	t.Helper()
	require.NoError(t, store.Update(context.Background(), func(d *memstore.Data) error {
		for _, u := range users {
			d.Users[u.ID] = u
		}
		return nil
	}))
}

func TestMemoryRepository_ListByAssignee_DeadlineAscendingStable(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedUsers(t, store,
		models.User{ID: "m1", Name: "Mia", Email: "mia@x", Role: models.RoleManager},
		models.User{ID: "u1", Name: "Uma", Email: "uma@x", Role: models.RoleUser},
	)
	repo := NewMemoryRepository(store)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		title    string
		deadline time.Time
		assignee string
	}{
		{"d3", base.Add(3 * time.Hour), "u1"},
		{"d1-first", base.Add(1 * time.Hour), "u1"},
		{"other", base, "u2"},
		{"d2", base.Add(2 * time.Hour), "u1"},
		{"d1-second", base.Add(1 * time.Hour), "u1"},
	} {
		_, err := repo.Create(ctx, &models.Task{Title: tc.title, Deadline: tc.deadline, AssignedTo: tc.assignee, CreatedBy: "m1"})
		require.NoError(t, err)
	}

	got, err := repo.ListByAssignee(ctx, "u1")
	require.NoError(t, err)

	titles := make([]string, 0, len(got))
	for _, v := range got {
		titles = append(titles, v.Title)
		require.NotNil(t, v.Creator)
		assert.Equal(t, "Mia", v.Creator.Name)
	}
	assert.Equal(t, []string{"d1-first", "d1-second", "d2", "d3"}, titles)
}

func TestMemoryRepository_ListByCreator_NewestFirst(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	seedUsers(t, store, models.User{ID: "u1", Name: "Uma", Role: models.RoleUser})
	repo := NewMemoryRepository(store)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"old", "mid", "new"} {
		_, err := repo.Create(ctx, &models.Task{Title: title, AssignedTo: "u1", CreatedBy: "m1", CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, &models.Task{Title: "foreign", AssignedTo: "u1", CreatedBy: "m2", CreatedAt: base.Add(time.Hour)})
	require.NoError(t, err)

	got, err := repo.ListByCreator(ctx, "m1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "new", got[0].Title)
	assert.Equal(t, "old", got[2].Title)
	require.NotNil(t, got[0].Assignee)
	assert.Equal(t, "Uma", got[0].Assignee.Name)
}

func TestMemoryRepository_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(memstore.New())

	created, err := repo.Create(ctx, &models.Task{Title: "x", Status: "todo"})
	require.NoError(t, err)

	later := time.Now()
	updated, err := repo.UpdateStatus(ctx, created.ID, "done", later)
	require.NoError(t, err)
	assert.Equal(t, models.Status("done"), updated.Status)
	assert.True(t, later.Equal(updated.UpdatedAt))

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Status("done"), got.Status)

	_, err = repo.UpdateStatus(ctx, "missing", "done", later)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
