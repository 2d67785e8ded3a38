package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/tasklane/internal/server/config"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/users"
)

// Repositories vends repositories bound to one store handle: the shared
// connection pool, or a transaction inside WithTx.
type Repositories interface {
	Users() users.Repository
	Tasks() tasks.Repository
	RefreshTokens() refreshtokens.Repository
	Contacts() contacts.Repository
}

type RepositoryManager interface {
	Repositories

	// WithTx runs fn with repositories bound to a single transaction. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error

	// ValidID reports whether id is well formed for this store's
	// identifier scheme.
	ValidID(id string) bool

	RunMigrations(ctx context.Context) error
	Close(ctx context.Context) error
}

// Open connects to the backend selected by cfg.Storage.
func Open(ctx context.Context, cfg *config.Config) (RepositoryManager, error) {
	switch cfg.Storage {
	case config.StoragePostgres:
		m, err := OpenPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageMongo:
		m, err := OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return m, nil
	case config.StorageMemory:
		return NewMemoryRepositoryManager(), nil
	default:
		return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
	}
}
