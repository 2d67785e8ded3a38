package users

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/memstore"
	"github.com/google/uuid"
)

type MemoryRepository struct {
	store *memstore.Store
}

func NewMemoryRepository(store *memstore.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.store.Update(ctx, func(d *memstore.Data) error {
		for _, u := range d.Users {
			if u.Email == user.Email {
				return common.ErrorAlreadyExists
			}
		}
		user.ID = uuid.NewString()
		d.Users[user.ID] = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var found *models.User
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		for _, u := range d.Users {
			if u.Email == email {
				u := u
				found = &u
				return nil
			}
		}
		return nil
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var found *models.User
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		if u, ok := d.Users[id]; ok {
			found = &u
		}
		return nil
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) List(ctx context.Context) ([]*models.User, error) {
	result := make([]*models.User, 0)
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		for _, u := range d.Users {
			u := u
			result = append(result, &u)
		}
		return nil
	})

	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}
