package tasks

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
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

func (r *MemoryRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	_ = r.store.Update(ctx, func(d *memstore.Data) error {
		task.ID = uuid.NewString()
		d.Tasks = append(d.Tasks, *task)
		return nil
	})
	return task, nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var found *models.Task
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		for _, t := range d.Tasks {
			if t.ID == id {
				t := t
				found = &t
				break
			}
		}
		return nil
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *MemoryRepository) UpdateStatus(ctx context.Context, id string, status models.Status, updatedAt time.Time) (*models.Task, error) {
	var updated *models.Task
	err := r.store.Update(ctx, func(d *memstore.Data) error {
		for i := range d.Tasks {
			if d.Tasks[i].ID == id {
				d.Tasks[i].Status = status
				d.Tasks[i].UpdatedAt = updatedAt
				t := d.Tasks[i]
				updated = &t
				return nil
			}
		}
		return common.ErrorNotFound
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *MemoryRepository) ListByAssignee(ctx context.Context, userID string) ([]*models.TaskView, error) {
	result := make([]*models.TaskView, 0)
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		for _, t := range d.Tasks {
			if t.AssignedTo != userID {
				continue
			}
			view := &models.TaskView{Task: t}
			if u, ok := d.Users[t.CreatedBy]; ok {
				view.Creator = u.Summary()
			}
			result = append(result, view)
		}
		return nil
	})

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Deadline.Before(result[j].Deadline)
	})
	return result, nil
}

func (r *MemoryRepository) ListByCreator(ctx context.Context, userID string) ([]*models.TaskView, error) {
	result := make([]*models.TaskView, 0)
	_ = r.store.View(ctx, func(d *memstore.Data) error {
		for i := len(d.Tasks) - 1; i >= 0; i-- {
			t := d.Tasks[i]
			if t.CreatedBy != userID {
				continue
			}
			view := &models.TaskView{Task: t}
			if u, ok := d.Users[t.AssignedTo]; ok {
				view.Assignee = u.Summary()
			}
			result = append(result, view)
		}
		return nil
	})

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}
