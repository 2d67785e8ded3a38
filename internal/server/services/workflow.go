package services

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
)

// Workflow names accepted by NewWorkflow.
const (
	WorkflowFree     = "free"
	WorkflowDeadline = "deadline"
)

// Workflow is the task status state machine shared by every task operation.
type Workflow interface {
	Name() string
	Statuses() []models.Status
	Initial() models.Status
	// Completed is the status counted as finished work.
	Completed() models.Status
	Valid(status models.Status) bool
	// CheckTransition reports whether task may move to status at now.
	CheckTransition(task *models.Task, status models.Status, now time.Time) error
}

type statusWorkflow struct {
	name           string
	statuses       []models.Status
	completed      models.Status
	gateOnDeadline bool
}

// NewWorkflow returns the workflow registered under name.
//
// free: todo, in-progress, done; any status may be set from any status.
// deadline: pending, submitted; every change is refused once the deadline
// has passed.
func NewWorkflow(name string) (Workflow, error) {
	switch name {
	case WorkflowFree:
		return &statusWorkflow{
			name:      WorkflowFree,
			statuses:  []models.Status{models.StatusTodo, models.StatusInProgress, models.StatusDone},
			completed: models.StatusDone,
		}, nil
	case WorkflowDeadline:
		return &statusWorkflow{
			name:           WorkflowDeadline,
			statuses:       []models.Status{models.StatusPending, models.StatusSubmitted},
			completed:      models.StatusSubmitted,
			gateOnDeadline: true,
		}, nil
	default:
		return nil, fmt.Errorf("unknown workflow %q", name)
	}
}

func (w *statusWorkflow) Name() string { return w.name }

func (w *statusWorkflow) Statuses() []models.Status {
	return append([]models.Status(nil), w.statuses...)
}

func (w *statusWorkflow) Initial() models.Status { return w.statuses[0] }

func (w *statusWorkflow) Completed() models.Status { return w.completed }

func (w *statusWorkflow) Valid(status models.Status) bool {
	for _, s := range w.statuses {
		if s == status {
			return true
		}
	}
	return false
}

func (w *statusWorkflow) CheckTransition(task *models.Task, status models.Status, now time.Time) error {
	if !w.Valid(status) {
		return common.Detail(common.ErrorValidation, "invalid status")
	}
	if w.gateOnDeadline && now.After(task.Deadline) {
		return common.Detail(common.ErrDeadlineExpired, "deadline has passed")
	}
	return nil
}
