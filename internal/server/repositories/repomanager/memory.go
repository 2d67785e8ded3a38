package repomanager

import (
	"context"

	"github.com/dmitrijs2005/tasklane/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/memstore"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/users"
	"github.com/google/uuid"
)

// MemoryRepositoryManager keeps everything in process memory. Identifiers
// are UUIDs. Data does not survive a restart.
type MemoryRepositoryManager struct {
	store *memstore.Store
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{store: memstore.New()}
}

func (m *MemoryRepositoryManager) Users() users.Repository {
	return users.NewMemoryRepository(m.store)
}

func (m *MemoryRepositoryManager) Tasks() tasks.Repository {
	return tasks.NewMemoryRepository(m.store)
}

func (m *MemoryRepositoryManager) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewMemoryRepository(m.store)
}

func (m *MemoryRepositoryManager) Contacts() contacts.Repository {
	return contacts.NewMemoryRepository(m.store)
}

func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return m.store.WithTx(ctx, func(ctx context.Context) error {
		return fn(ctx, m)
	})
}

func (m *MemoryRepositoryManager) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Close(ctx context.Context) error { return nil }
