package taskcache

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/client/models"
	"github.com/dmitrijs2005/tasklane/internal/dbx"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Replace(ctx context.Context, ownerID string, tasks []*models.Task, at time.Time) error {
	stamp := at.UTC().Format(time.RFC3339Nano)

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cached_tasks WHERE owner_id = ?`, ownerID); err != nil {
			return err
		}
		for i, t := range tasks {
			payload, err := json.Marshal(t)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO cached_tasks (owner_id, task_id, position, payload, cached_at)
				VALUES (?, ?, ?, ?, ?)
			`, ownerID, t.ID, i, string(payload), stamp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to cache tasks of %s: %w", ownerID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, ownerID string) ([]*models.Task, time.Time, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT payload, cached_at FROM cached_tasks
		WHERE owner_id = ?
		ORDER BY position
	`, ownerID)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to list cached tasks: %w", err)
	}
	defer rows.Close()

	var (
		tasks    []*models.Task
		cachedAt time.Time
	)
	for rows.Next() {
		var payload, stamp string
		if err := rows.Scan(&payload, &stamp); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to scan cached task: %w", err)
		}
		var t models.Task
		if err := json.Unmarshal([]byte(payload), &t); err != nil {
			return nil, time.Time{}, fmt.Errorf("failed to decode cached task: %w", err)
		}
		if cachedAt.IsZero() {
			if cachedAt, err = time.Parse(time.RFC3339Nano, stamp); err != nil {
				return nil, time.Time{}, fmt.Errorf("failed to parse cache time: %w", err)
			}
		}
		tasks = append(tasks, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("failed to iterate cached tasks: %w", err)
	}

	return tasks, cachedAt, nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cached_tasks`); err != nil {
		return fmt.Errorf("failed to clear task cache: %w", err)
	}
	return nil
}
