// Package scheduler runs periodic maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Job is one periodic task. Spec is a standard five-field cron expression or
// a descriptor such as "@daily" or "@every 5m".
type Job struct {
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

// Scheduler owns a cron instance and the jobs registered on it.
type Scheduler struct {
	cron    *cron.Cron
	timeout time.Duration
}

// New validates and registers jobs. Each run gets its own context bounded by timeout.
func New(ctx context.Context, timeout time.Duration, jobs ...Job) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), timeout: timeout}
	for _, j := range jobs {
		if j.Run == nil {
			return nil, fmt.Errorf("scheduler: job %q has no Run func", j.Name)
		}
		if _, err := s.cron.AddFunc(j.Spec, s.wrap(ctx, j)); err != nil {
			return nil, fmt.Errorf("scheduler: job %q: invalid spec %q: %w", j.Name, j.Spec, err)
		}
		slog.Info("scheduler: job registered", "job", j.Name, "spec", j.Spec)
	}
	return s, nil
}

func (s *Scheduler) wrap(ctx context.Context, j Job) func() {
	return func() {
		if ctx.Err() != nil {
			return
		}
		runCtx, cancel := context.WithTimeout(ctx, s.timeout)
		defer cancel()

		start := time.Now()
		if err := j.Run(runCtx); err != nil {
			slog.Error("scheduler: job failed", "job", j.Name, "err", err)
			return
		}
		slog.Debug("scheduler: job done", "job", j.Name, "duration_ms", time.Since(start).Milliseconds())
	}
}

// Start runs the scheduler until ctx is cancelled, then waits for running jobs.
func (s *Scheduler) Start(ctx context.Context) {
	s.cron.Start()
	go func() {
		<-ctx.Done()
		<-s.cron.Stop().Done()
	}()
}

// Len reports how many jobs are registered.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}
