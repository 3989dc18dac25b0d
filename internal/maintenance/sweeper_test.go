package maintenance

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type fakePurgeable struct {
	rows    int64
	err     error
	cutoffs []time.Time
}

func (f *fakePurgeable) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	f.cutoffs = append(f.cutoffs, cutoff)
	return f.rows, f.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSweepOncePurgesAllTargets(t *testing.T) {
	s := NewSweeper(24*time.Hour, time.Hour, testLogger())
	a := &fakePurgeable{rows: 3}
	b := &fakePurgeable{rows: 2}
	s.Register("cases", a)
	s.Register("documents", b)

	total := s.SweepOnce(context.Background())
	if total != 5 {
		t.Fatalf("expected 5 purged rows, got %d", total)
	}
	if len(a.cutoffs) != 1 || len(b.cutoffs) != 1 {
		t.Fatal("expected each target purged exactly once")
	}

	wantCutoff := time.Now().UTC().Add(-24 * time.Hour)
	if diff := a.cutoffs[0].Sub(wantCutoff); diff < -time.Minute || diff > time.Minute {
		t.Fatalf("cutoff %s not near retention boundary", a.cutoffs[0])
	}
}

func TestSweepOnceContinuesPastFailures(t *testing.T) {
	s := NewSweeper(time.Hour, time.Hour, testLogger())
	bad := &fakePurgeable{err: errors.New("db down")}
	good := &fakePurgeable{rows: 4}
	s.Register("broken", bad)
	s.Register("healthy", good)

	total := s.SweepOnce(context.Background())
	if total != 4 {
		t.Fatalf("expected failing target skipped, got total %d", total)
	}
	if len(good.cutoffs) != 1 {
		t.Fatal("expected healthy target still purged")
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	s := NewSweeper(time.Hour, 10*time.Millisecond, testLogger())
	tgt := &fakePurgeable{}
	s.Register("cases", tgt)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := s.Run(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if len(tgt.cutoffs) == 0 {
		t.Fatal("expected at least one sweep before cancellation")
	}
}
