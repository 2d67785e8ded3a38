// Package scheduler runs periodic maintenance jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/robfig/cron/v3"
)

// JobTimeout bounds a single run of any job.
const JobTimeout = 30 * time.Second

// Job is one unit of background work.
type Job func(ctx context.Context) error

// Scheduler wraps cron-based jobs.
type Scheduler struct {
	cron    *cron.Cron
	log     logging.Logger
	timeout time.Duration
}

func New(log logging.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithLocation(time.UTC)),
		log:     log,
		timeout: JobTimeout,
	}
}

// Schedule registers job under a standard cron spec or a descriptor such as
// "@every 1h" or "@daily".
func (s *Scheduler) Schedule(spec, name string, job Job) (cron.EntryID, error) {
	id, err := s.cron.AddFunc(spec, func() { s.run(name, job) })
	if err != nil {
		return 0, fmt.Errorf("schedule %s: %w", name, err)
	}
	return id, nil
}

// ScheduleInterval registers a periodic job every given duration.
func (s *Scheduler) ScheduleInterval(interval time.Duration, name string, job Job) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive")
	}
	return s.Schedule(fmt.Sprintf("@every %s", interval), name, job)
}

func (s *Scheduler) run(name string, job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			s.log.Error(ctx, "job panicked", "job", name, "panic", r)
		}
	}()

	if err := job(ctx); err != nil {
		s.log.Error(ctx, "job failed", "job", name, "error", err)
		return
	}
	s.log.Debug(ctx, "job done", "job", name, "took", time.Since(start))
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop prevents new runs and waits for running jobs, or for ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
