// Package tasks declares the task repository contract and its PostgreSQL,
// MongoDB and in-memory implementations.
package tasks

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

// Repository persists tasks. Absent tasks yield common.ErrorNotFound.
type Repository interface {
	// Create stores task and returns it with ID populated.
	Create(ctx context.Context, task *models.Task) (*models.Task, error)
	GetByID(ctx context.Context, id string) (*models.Task, error)
	// UpdateStatus sets status and updatedAt and returns the stored task.
	UpdateStatus(ctx context.Context, id string, status models.Status, updatedAt time.Time) (*models.Task, error)
	// ListByAssignee returns the tasks assigned to userID by ascending
	// deadline, ties in creation order, each with its Creator attached.
	ListByAssignee(ctx context.Context, userID string) ([]*models.TaskView, error)
	// ListByCreator returns the tasks created by userID, newest first, each
	// with its Assignee attached.
	ListByCreator(ctx context.Context, userID string) ([]*models.TaskView, error)
}
