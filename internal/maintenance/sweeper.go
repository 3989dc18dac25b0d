package maintenance

import (
	"context"
	"log/slog"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
)

// Purgeable is one resource module's contract with the retention sweep: hard
// delete everything soft-deleted at or before the cutoff.
type Purgeable interface {
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type target struct {
	name string
	p    Purgeable
}

// Sweeper hard-deletes soft-deleted rows older than the retention window. One
// sweeper covers every registered resource; resources only supply the purge
// query.
type Sweeper struct {
	retention time.Duration
	interval  time.Duration
	targets   []target
	logger    *slog.Logger
}

func NewSweeper(retention, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{retention: retention, interval: interval, logger: logger}
}

func (s *Sweeper) Register(name string, p Purgeable) {
	s.targets = append(s.targets, target{name: name, p: p})
}

// Run sweeps on the configured interval until the context is cancelled. The
// first sweep happens after one full interval; startup is not a purge event.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce purges every registered target and reports rows removed. A
// failing target is logged and skipped; the rest of the sweep continues.
func (s *Sweeper) SweepOnce(ctx context.Context) int64 {
	cutoff := time.Now().UTC().Add(-s.retention)
	var total int64
	for _, tgt := range s.targets {
		start := time.Now()
		n, err := tgt.p.PurgeDeletedBefore(cutoff)
		elapsed := time.Since(start)
		if err != nil {
			s.logger.ErrorContext(ctx, "purge sweep failed", "entity", tgt.name, "error", err)
			continue
		}
		observability.RecordPurgeSweep(ctx, tgt.name, n, elapsed)
		if n > 0 {
			s.logger.InfoContext(ctx, "purge sweep removed rows", "entity", tgt.name, "rows", n, "cutoff", cutoff)
		}
		total += n
	}
	return total
}
