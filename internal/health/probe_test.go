package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestReadyAggregatesChecks(t *testing.T) {
	p := NewProbeRunner(0, 100*time.Millisecond)
	p.Register("db", func(ctx context.Context) error { return nil })
	p.Register("redis", func(ctx context.Context) error { return errors.New("connection refused") })

	ready, results := p.Ready(context.Background())
	if ready {
		t.Fatal("expected not ready with a failing check")
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Status != "up" || results[1].Status != "down" {
		t.Fatalf("unexpected results: %+v", results)
	}
}

func TestReadyCachesWithinTTL(t *testing.T) {
	calls := 0
	p := NewProbeRunner(time.Minute, 100*time.Millisecond)
	p.Register("db", func(ctx context.Context) error {
		calls++
		return nil
	})

	p.Ready(context.Background())
	p.Ready(context.Background())
	if calls != 1 {
		t.Fatalf("expected cached second call, got %d probe runs", calls)
	}
}

func TestReadyWithNoChecks(t *testing.T) {
	p := NewProbeRunner(0, time.Second)
	ready, results := p.Ready(context.Background())
	if !ready {
		t.Fatal("expected ready with no checks")
	}
	if len(results) != 0 {
		t.Fatalf("expected no results, got %d", len(results))
	}
}
