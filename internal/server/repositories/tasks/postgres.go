package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/dbx"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

const taskColumns = `t.id, t.title, t.description, t.priority, t.deadline, t.status,
		 t.assigned_to, t.created_by, t.created_at, t.updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(s scanner, extra ...any) (*models.Task, error) {
	t := &models.Task{}
	var priority, status string
	dest := append([]any{
		&t.ID, &t.Title, &t.Description, &priority, &t.Deadline, &status,
		&t.AssignedTo, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt,
	}, extra...)
	if err := s.Scan(dest...); err != nil {
		return nil, err
	}
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)
	return t, nil
}

func (r *PostgresRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query :=
		`INSERT INTO tasks (title, description, priority, deadline, status, assigned_to, created_by, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id
		 `

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, string(task.Priority), task.Deadline, string(task.Status),
		task.AssignedTo, task.CreatedBy, task.CreatedAt, task.UpdatedAt).Scan(&task.ID)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return task, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	query := `SELECT ` + taskColumns + `
		 FROM tasks t
		 WHERE t.id = $1
		 `

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) UpdateStatus(ctx context.Context, id string, status models.Status, updatedAt time.Time) (*models.Task, error) {
	query := `UPDATE tasks t SET status = $2, updated_at = $3
		 WHERE t.id = $1
		 RETURNING ` + taskColumns

	task, err := scanTask(r.db.QueryRowContext(ctx, query, id, string(status), updatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return task, nil
}

func (r *PostgresRepository) ListByAssignee(ctx context.Context, userID string) ([]*models.TaskView, error) {
	query := `SELECT ` + taskColumns + `, u.id, u.name, u.email, u.role
		 FROM tasks t
		 JOIN users u ON u.id = t.created_by
		 WHERE t.assigned_to = $1
		 ORDER BY t.deadline ASC, t.created_at ASC, t.id ASC
		 `
	return r.list(ctx, query, userID, func(v *models.TaskView, u *models.UserSummary) { v.Creator = u })
}

func (r *PostgresRepository) ListByCreator(ctx context.Context, userID string) ([]*models.TaskView, error) {
	query := `SELECT ` + taskColumns + `, u.id, u.name, u.email, u.role
		 FROM tasks t
		 JOIN users u ON u.id = t.assigned_to
		 WHERE t.created_by = $1
		 ORDER BY t.created_at DESC, t.id DESC
		 `
	return r.list(ctx, query, userID, func(v *models.TaskView, u *models.UserSummary) { v.Assignee = u })
}

func (r *PostgresRepository) list(ctx context.Context, query string, userID string, attach func(*models.TaskView, *models.UserSummary)) ([]*models.TaskView, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.TaskView, 0)
	for rows.Next() {
		u := &models.UserSummary{}
		var role string
		task, err := scanTask(rows, &u.ID, &u.Name, &u.Email, &role)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		u.Role = models.Role(role)

		view := &models.TaskView{Task: *task}
		attach(view, u)
		result = append(result, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}
