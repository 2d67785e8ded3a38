package models

import (
	"fmt"
	"time"
)

// Task mirrors a task listing entry. Creator and Assignee are only present
// in listings.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Priority    string       `json:"priority"`
	Deadline    time.Time    `json:"deadline"`
	Status      string       `json:"status"`
	AssignedTo  string       `json:"assignedTo"`
	CreatedBy   string       `json:"createdBy"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Creator     *UserSummary `json:"creator,omitempty"`
	Assignee    *UserSummary `json:"assignee,omitempty"`
}

// NewTask is what a manager fills in to create a task.
type NewTask struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	Deadline    time.Time `json:"deadline"`
	AssignedTo  string    `json:"assignedTo"`
}

// Overdue reports whether the deadline passed before now.
func (t *Task) Overdue(now time.Time) bool {
	return now.After(t.Deadline)
}

// Summary renders t as a single line for terminal output.
func (t *Task) Summary(now time.Time) string {
	line := fmt.Sprintf("%s  [%s] %s (priority: %s, due %s)",
		t.ID, t.Status, t.Title, t.Priority, t.Deadline.Local().Format("2006-01-02 15:04"))
	if t.Assignee != nil {
		line += " -> " + t.Assignee.Name
	}
	if t.Overdue(now) {
		line += " OVERDUE"
	}
	return line
}
