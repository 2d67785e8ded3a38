package scheduler

import (
	"context"

	"github.com/dmitrijs2005/tasklane/internal/logging"
)

// SessionSweeper deletes expired refresh-token sessions.
type SessionSweeper interface {
	SweepSessions(ctx context.Context) (int64, error)
}

// SweepSessions is the job that purges expired sessions.
func SweepSessions(s SessionSweeper, log logging.Logger) Job {
	return func(ctx context.Context) error {
		n, err := s.SweepSessions(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			log.Info(ctx, "expired sessions removed", "count", n)
		}
		return nil
	}
}
