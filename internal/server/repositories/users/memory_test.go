package users

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_CreateAndLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(memstore.New())

	u, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "alice@example.com", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = uuid.Parse(u.ID)
	assert.NoError(t, err, "memory ids are uuids")

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", byID.Name)
}

func TestMemoryRepository_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(memstore.New())

	_, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "a@x", Role: models.RoleUser})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &models.User{Name: "Other", Email: "a@x", Role: models.RoleManager})
	require.ErrorIs(t, err, common.ErrorAlreadyExists)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(memstore.New())

	_, err := repo.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = repo.GetByEmail(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoryRepository_ListSortedByName(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(memstore.New())

	for _, name := range []string{"Carol", "Alice", "Bob"} {
		_, err := repo.Create(ctx, &models.User{Name: name, Email: name + "@x", Role: models.RoleUser})
		require.NoError(t, err)
	}

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"Alice", "Bob", "Carol"}, []string{all[0].Name, all[1].Name, all[2].Name})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository(memstore.New())

	u, err := repo.Create(ctx, &models.User{Name: "Alice", Email: "a@x", Role: models.RoleUser})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	got.Name = "Mallory"

	again, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", again.Name)
}
