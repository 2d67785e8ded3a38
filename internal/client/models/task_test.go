package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTask_Overdue(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &Task{Deadline: deadline}

	assert.False(t, task.Overdue(deadline.Add(-time.Minute)))
	assert.False(t, task.Overdue(deadline))
	assert.True(t, task.Overdue(deadline.Add(time.Second)))
}

func TestTask_Summary(t *testing.T) {
	deadline := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	task := &Task{
		ID:       "t1",
		Title:    "Write report",
		Status:   "todo",
		Priority: "high",
		Deadline: deadline,
		Assignee: &UserSummary{Name: "Alice"},
	}

	s := task.Summary(deadline.Add(-time.Hour))
	require.Contains(t, s, "t1")
	require.Contains(t, s, "[todo] Write report")
	require.Contains(t, s, "priority: high")
	require.Contains(t, s, "-> Alice")
	require.NotContains(t, s, "OVERDUE")

	assert.Contains(t, task.Summary(deadline.Add(time.Hour)), "OVERDUE")
}
