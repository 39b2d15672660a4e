package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Pruner is satisfied by *middleware.IPRateLimiter.
type Pruner interface {
	Prune() int
}

// AuditPurger is satisfied by *repo.AuditRepo.
type AuditPurger interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// PruneLimiterJob drops idle rate limiter buckets.
func PruneLimiterJob(spec string, p Pruner) Job {
	return Job{
		Name: "prune-rate-limiter",
		Spec: spec,
		Run: func(ctx context.Context) error {
			if n := p.Prune(); n > 0 {
				slog.Debug("pruned rate limiter buckets", "count", n)
			}
			return nil
		},
	}
}

// AuditRetentionJob deletes audit entries older than retention.
func AuditRetentionJob(spec string, retention time.Duration, audit AuditPurger) Job {
	return Job{
		Name: "audit-retention",
		Spec: spec,
		Run: func(ctx context.Context) error {
			n, err := audit.DeleteOlderThan(ctx, time.Now().Add(-retention))
			if err != nil {
				return err
			}
			if n > 0 {
				slog.Info("audit entries purged", "count", n, "retention", retention.String())
			}
			return nil
		},
	}
}
