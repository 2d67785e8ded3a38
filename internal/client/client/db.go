package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/tasklane/internal/client/migrations"
	"github.com/dmitrijs2005/tasklane/internal/client/repositories/taskcache"
	"github.com/pressly/goose/v3"

	_ "modernc.org/sqlite"
)

// Repositories bundles the local stores backed by the CLI's SQLite file.
type Repositories struct {
	Tasks taskcache.Repository
	db    *sql.DB
}

func (r *Repositories) Close() error {
	return r.db.Close()
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens the SQLite file at dsn and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{Tasks: taskcache.NewSQLiteRepository(db), db: db}, nil
}
