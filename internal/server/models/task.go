package models

import "time"

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Status is a task status; its domain depends on the configured workflow.
type Status string

// Statuses of the free workflow.
const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusDone       Status = "done"
)

// Statuses of the deadline workflow.
const (
	StatusPending   Status = "pending"
	StatusSubmitted Status = "submitted"
)

// Task is a unit of work a manager assigns to a user.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Priority    Priority  `json:"priority"`
	Deadline    time.Time `json:"deadline"`
	Status      Status    `json:"status"`
	AssignedTo  string    `json:"assignedTo"`
	CreatedBy   string    `json:"createdBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskView is a task with the counterpart user attached: the creator in a
// user's listing, the assignee in a manager's listing.
type TaskView struct {
	Task
	Creator  *UserSummary `json:"creator,omitempty"`
	Assignee *UserSummary `json:"assignee,omitempty"`
}

// TaskStats are the dashboard counters over a task listing.
type TaskStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
	Overdue   int `json:"overdue"`
}
