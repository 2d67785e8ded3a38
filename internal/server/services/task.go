package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
)

// CreateTaskInput is what a manager may supply for a new task. The creator
// is never part of it.
type CreateTaskInput struct {
	Title       string
	Description string
	Priority    models.Priority
	Deadline    time.Time
	AssignedTo  string
}

// TaskService owns task creation, the role-partitioned listings and status
// changes. The acting user always comes from the verified session.
type TaskService struct {
	repomanager repomanager.RepositoryManager
	workflow    Workflow
	now         func() time.Time
}

func NewTaskService(m repomanager.RepositoryManager, w Workflow) *TaskService {
	return &TaskService{repomanager: m, workflow: w, now: time.Now}
}

// Workflow returns the status workflow tasks follow.
func (s *TaskService) Workflow() Workflow {
	return s.workflow
}

func (s *TaskService) CreateTask(ctx context.Context, manager *models.User, in CreateTaskInput) (*models.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.AssignedTo = strings.TrimSpace(in.AssignedTo)

	if in.Title == "" || in.Deadline.IsZero() || in.AssignedTo == "" {
		return nil, common.Detail(common.ErrorValidation, "title, deadline, assignedTo required")
	}
	if !s.repomanager.ValidID(in.AssignedTo) {
		return nil, common.Detail(common.ErrorValidation, "assignedTo must be a valid ID")
	}
	if in.Priority == "" {
		in.Priority = models.PriorityMedium
	}
	if !in.Priority.Valid() {
		return nil, common.Detail(common.ErrorValidation, "priority must be low, medium or high")
	}

	if _, err := s.repomanager.Users().GetByID(ctx, in.AssignedTo); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Detail(common.ErrorNotFound, "Assigned user not found")
		}
		return nil, fmt.Errorf("%w: find assignee: %v", common.ErrorInternal, err)
	}

	now := s.now().UTC()
	task := &models.Task{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Deadline:    in.Deadline.UTC(),
		Status:      s.workflow.Initial(),
		AssignedTo:  in.AssignedTo,
		CreatedBy:   manager.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repomanager.Tasks().Create(ctx, task)
	if err != nil {
		return nil, fmt.Errorf("%w: create task: %v", common.ErrorInternal, err)
	}
	return created, nil
}

// ListTasksForUser returns the tasks assigned to user, soonest deadline first.
func (s *TaskService) ListTasksForUser(ctx context.Context, user *models.User) ([]*models.TaskView, error) {
	views, err := s.repomanager.Tasks().ListByAssignee(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list assigned tasks: %v", common.ErrorInternal, err)
	}
	return views, nil
}

// ListTasksForManager returns the tasks manager created, newest first.
func (s *TaskService) ListTasksForManager(ctx context.Context, manager *models.User) ([]*models.TaskView, error) {
	views, err := s.repomanager.Tasks().ListByCreator(ctx, manager.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: list created tasks: %v", common.ErrorInternal, err)
	}
	return views, nil
}

// UpdateStatus sets the status of a task assigned to user.
func (s *TaskService) UpdateStatus(ctx context.Context, user *models.User, taskID string, status models.Status) (*models.Task, error) {
	if strings.TrimSpace(taskID) == "" || status == "" {
		return nil, common.Detail(common.ErrorValidation, "Task id and status are required")
	}
	if !s.workflow.Valid(status) {
		return nil, common.Detail(common.ErrorValidation, "invalid status")
	}
	if !s.repomanager.ValidID(taskID) {
		return nil, common.Detail(common.ErrorNotFound, "Task not found")
	}

	task, err := s.repomanager.Tasks().GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Detail(common.ErrorNotFound, "Task not found")
		}
		return nil, fmt.Errorf("%w: find task: %v", common.ErrorInternal, err)
	}

	if task.AssignedTo != user.ID {
		return nil, common.Detail(common.ErrorForbidden, "Only the assignee can change this task")
	}

	now := s.now().UTC()
	if err := s.workflow.CheckTransition(task, status, now); err != nil {
		return nil, err
	}

	updated, err := s.repomanager.Tasks().UpdateStatus(ctx, task.ID, status, now)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.Detail(common.ErrorNotFound, "Task not found")
		}
		return nil, fmt.Errorf("%w: update task: %v", common.ErrorInternal, err)
	}
	return updated, nil
}

// StatsForUser counts the tasks assigned to user.
func (s *TaskService) StatsForUser(ctx context.Context, user *models.User) (*models.TaskStats, error) {
	views, err := s.ListTasksForUser(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.stats(views), nil
}

// StatsForManager counts the tasks manager created.
func (s *TaskService) StatsForManager(ctx context.Context, manager *models.User) (*models.TaskStats, error) {
	views, err := s.ListTasksForManager(ctx, manager)
	if err != nil {
		return nil, err
	}
	return s.stats(views), nil
}

// stats: completed is the workflow's completed status, pending is anything
// else, overdue is pending with the deadline already behind us.
func (s *TaskService) stats(views []*models.TaskView) *models.TaskStats {
	now := s.now()
	st := &models.TaskStats{Total: len(views)}
	for _, v := range views {
		if v.Status == s.workflow.Completed() {
			st.Completed++
			continue
		}
		st.Pending++
		if v.Deadline.Before(now) {
			st.Overdue++
		}
	}
	return st
}
