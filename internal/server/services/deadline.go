package services

import (
	"strings"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
)

// DateLayout is the date-only deadline form, as sent by a date picker.
const DateLayout = "2006-01-02"

// ParseDeadline accepts an RFC 3339 timestamp or a bare date. A bare date
// means the last millisecond of that day in UTC. An empty string yields the
// zero time so that CreateTask reports the missing field.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.Parse(DateLayout, s); err == nil {
		return d.Add(24*time.Hour - time.Millisecond), nil
	}
	return time.Time{}, common.Detail(common.ErrorValidation, "deadline must be a date")
}
