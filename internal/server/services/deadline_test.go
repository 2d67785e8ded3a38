package services

import (
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDeadline(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"2030-01-15", time.Date(2030, 1, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)},
		{" 2030-01-15 ", time.Date(2030, 1, 15, 23, 59, 59, int(999*time.Millisecond), time.UTC)},
		{"2030-01-15T10:30:00Z", time.Date(2030, 1, 15, 10, 30, 0, 0, time.UTC)},
		{"2030-01-15T10:30:00+02:00", time.Date(2030, 1, 15, 8, 30, 0, 0, time.UTC)},
	} {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseDeadline(tc.in)
			require.NoError(t, err)
			assert.True(t, tc.want.Equal(got), "got %v", got)
			if !got.IsZero() {
				assert.Equal(t, time.UTC, got.Location())
			}
		})
	}
}

func TestParseDeadline_Rejects(t *testing.T) {
	for _, in := range []string{"tomorrow", "15/01/2030", "2030-13-01", "2030-01-15 10:30"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseDeadline(in)
			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Equal(t, "deadline must be a date", common.PublicMessage(err, ""))
		})
	}
}
