// Package repomanager provides the RepositoryManager implementations for
// PostgreSQL, MongoDB and process memory, wiring together repository
// constructors, transactions and schema setup.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tasklane/internal/dbx"
	"github.com/dmitrijs2005/tasklane/internal/server/migrations"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/contacts"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/users"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// postgresRepositories binds the PostgreSQL repositories to a pool or a tx.
type postgresRepositories struct {
	db dbx.DBTX
}

func (r postgresRepositories) Users() users.Repository {
	return users.NewPostgresRepository(r.db)
}

func (r postgresRepositories) Tasks() tasks.Repository {
	return tasks.NewPostgresRepository(r.db)
}

func (r postgresRepositories) RefreshTokens() refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(r.db)
}

func (r postgresRepositories) Contacts() contacts.Repository {
	return contacts.NewPostgresRepository(r.db)
}

// PostgresRepositoryManager vends PostgreSQL-backed repositories. Identifiers
// are UUIDs generated by the database.
type PostgresRepositoryManager struct {
	postgresRepositories
	db *sql.DB
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// OpenPostgres opens a pgx-backed pool for dsn and verifies connectivity.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresRepositoryManager, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewPostgresRepositoryManager(db), nil
}

func NewPostgresRepositoryManager(db *sql.DB) *PostgresRepositoryManager {
	return &PostgresRepositoryManager{postgresRepositories: postgresRepositories{db: db}, db: db}
}

func (m *PostgresRepositoryManager) WithTx(ctx context.Context, fn func(ctx context.Context, r Repositories) error) error {
	return dbx.WithTx(ctx, m.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, postgresRepositories{db: tx})
	})
}

func (m *PostgresRepositoryManager) ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// RunMigrations sets up goose with the embedded migrations and applies them.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, m.db, "."); err != nil {
		return err
	}
	return nil
}

func (m *PostgresRepositoryManager) Close(ctx context.Context) error {
	return m.db.Close()
}
