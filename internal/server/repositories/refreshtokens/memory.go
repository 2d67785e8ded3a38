package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/memstore"
)

type MemoryRepository struct {
	store *memstore.Store
}

func NewMemoryRepository(store *memstore.Store) *MemoryRepository {
	return &MemoryRepository{store: store}
}

func (r *MemoryRepository) Create(ctx context.Context, userID string, token string, expires time.Time) error {
	return r.store.Update(ctx, func(d *memstore.Data) error {
		if _, ok := d.RefreshTokens[token]; ok {
			return common.ErrorAlreadyExists
		}
		d.RefreshTokens[token] = models.RefreshToken{
			Token:     token,
			UserID:    userID,
			Expires:   expires,
			CreatedAt: time.Now().UTC(),
		}
		return nil
	})
}

func (r *MemoryRepository) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var found *models.RefreshToken
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		if t, ok := d.RefreshTokens[token]; ok {
			found = &t
		}
		return nil
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) Delete(ctx context.Context, token string) error {
	return r.store.Update(ctx, func(d *memstore.Data) error {
		if _, ok := d.RefreshTokens[token]; !ok {
			return common.ErrorNotFound
		}
		delete(d.RefreshTokens, token)
		return nil
	})
}

func (r *MemoryRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	err := r.store.Update(ctx, func(d *memstore.Data) error {
		for k, t := range d.RefreshTokens {
			if t.Expires.Before(now) {
				delete(d.RefreshTokens, k)
				n++
			}
		}
		return nil
	})
	return n, err
}
