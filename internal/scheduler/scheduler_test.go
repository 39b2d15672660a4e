package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct{ calls int }

func (f *fakePruner) Prune() int { f.calls++; return 1 }

type fakePurger struct {
	cutoff time.Time
	err    error
}

func (f *fakePurger) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestNew_RejectsInvalidSpec(t *testing.T) {
	_, err := New(context.Background(), time.Second, Job{Name: "bad", Spec: "not a cron", Run: func(context.Context) error { return nil }})
	assert.Error(t, err)

	_, err = New(context.Background(), time.Second, Job{Name: "nil", Spec: "@daily"})
	assert.Error(t, err)
}

func TestNew_RegistersJobs(t *testing.T) {
	p := &fakePruner{}
	s, err := New(context.Background(), time.Second,
		PruneLimiterJob("@every 5m", p),
		AuditRetentionJob("0 3 * * *", 24*time.Hour, &fakePurger{}),
	)
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
}

func TestWrap_RunsJobWithDeadline(t *testing.T) {
	s := &Scheduler{timeout: time.Second}
	var hadDeadline bool
	s.wrap(context.Background(), Job{Name: "j", Run: func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return errors.New("logged, not returned")
	}})()
	assert.True(t, hadDeadline)
}

func TestWrap_SkipsAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ran := false
	s := &Scheduler{timeout: time.Second}
	s.wrap(ctx, Job{Name: "j", Run: func(context.Context) error { ran = true; return nil }})()
	assert.False(t, ran)
}

func TestJobs(t *testing.T) {
	p := &fakePruner{}
	require.NoError(t, PruneLimiterJob("@every 1m", p).Run(context.Background()))
	assert.Equal(t, 1, p.calls)

	purger := &fakePurger{}
	before := time.Now().Add(-48 * time.Hour)
	require.NoError(t, AuditRetentionJob("@daily", 48*time.Hour, purger).Run(context.Background()))
	assert.WithinDuration(t, before, purger.cutoff, time.Minute)

	purger.err = errors.New("db down")
	assert.Error(t, AuditRetentionJob("@daily", time.Hour, purger).Run(context.Background()))
}
