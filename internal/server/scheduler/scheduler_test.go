package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSweeper struct {
	calls atomic.Int32
	n     int64
	err   error
}

func (f *fakeSweeper) SweepSessions(ctx context.Context) (int64, error) {
	f.calls.Add(1)
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("no deadline")
	}
	return f.n, f.err
}

func TestSchedule_RunsJob(t *testing.T) {
	s := New(logging.Nop{})
	ran := make(chan struct{}, 1)

	_, err := s.ScheduleInterval(time.Second, "tick", func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})
	require.NoError(t, err)

	s.Start()
	defer s.Stop(context.Background())

	select {
	case <-ran:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestSchedule_InvalidSpec(t *testing.T) {
	s := New(logging.Nop{})

	_, err := s.Schedule("every now and then", "bad", func(context.Context) error { return nil })
	assert.Error(t, err)

	_, err = s.ScheduleInterval(0, "bad", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRun_BoundsContextAndSurvivesPanics(t *testing.T) {
	s := New(logging.Nop{})
	sw := &fakeSweeper{n: 3}

	s.run("sweep", SweepSessions(sw, logging.Nop{}))
	assert.Equal(t, int32(1), sw.calls.Load())

	sw.err = errors.New("db down")
	assert.NotPanics(t, func() { s.run("sweep", SweepSessions(sw, logging.Nop{})) })

	assert.NotPanics(t, func() {
		s.run("boom", func(context.Context) error { panic("boom") })
	})
}

func TestSweepSessions_PropagatesError(t *testing.T) {
	sw := &fakeSweeper{err: errors.New("db down")}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, SweepSessions(sw, logging.Nop{})(ctx))
}
