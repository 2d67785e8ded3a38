// Package taskcache keeps the last task listing a user fetched so the CLI
// can show it while the server is unreachable.
package taskcache

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/client/models"
)

type Repository interface {
	// Replace swaps the cached listing of ownerID for tasks, keeping order.
	Replace(ctx context.Context, ownerID string, tasks []*models.Task, at time.Time) error
	// List returns the cached listing in its original order and the time it
	// was stored. An empty cache yields no tasks and a zero time.
	List(ctx context.Context, ownerID string) ([]*models.Task, time.Time, error)
	Clear(ctx context.Context) error
}
