package contacts

import (
	"context"

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

func (r *MemoryRepository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	_ = r.store.Update(ctx, func(d *memstore.Data) error {
		msg.ID = uuid.NewString()
		d.Contacts = append(d.Contacts, *msg)
		return nil
	})
	return msg, nil
}
