package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olkan/catalog/pkg/config"
	"github.com/olkan/catalog/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	ran      chan struct{}
}

func newFakeJob(name string) *fakeJob {
	return &fakeJob{name: name, schedule: "0 0 3 * * *", ran: make(chan struct{}, 1)}
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }

func (j *fakeJob) Run(context.Context) error {
	select {
	case j.ran <- struct{}{}:
	default:
	}
	return nil
}

func testScheduler() *Scheduler {
	return New(logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"}))
}

func TestScheduler_AddJob(t *testing.T) {
	s := testScheduler()

	require.NoError(t, s.AddJob(newFakeJob("nightly")))

	t.Run("duplicate name rejected", func(t *testing.T) {
		err := s.AddJob(newFakeJob("nightly"))
		assert.ErrorContains(t, err, "already exists")
	})

	t.Run("bad schedule rejected", func(t *testing.T) {
		j := newFakeJob("broken")
		j.schedule = "not a cron expression"
		err := s.AddJob(j)
		assert.ErrorContains(t, err, "failed to schedule job")
	})
}

func TestScheduler_RunJob(t *testing.T) {
	s := testScheduler()

	j := newFakeJob("on-demand")
	require.NoError(t, s.AddJob(j))

	require.NoError(t, s.RunJob("on-demand"))

	select {
	case <-j.ran:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not run")
	}
}

func TestScheduler_RunJobUnknown(t *testing.T) {
	s := testScheduler()

	err := s.RunJob("missing")
	assert.ErrorContains(t, err, "not found")
}

func TestScheduler_StartStop(t *testing.T) {
	s := testScheduler()

	require.NoError(t, s.AddJob(newFakeJob("idle")))

	s.Start()
	s.Stop()
}
