package health

import (
	"context"
	"sync"
	"time"
)

type CheckFunc func(ctx context.Context) error

type Result struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// ProbeRunner evaluates registered readiness checks, caching the combined
// result briefly so a probe storm cannot hammer the dependencies.
type ProbeRunner struct {
	cacheTTL time.Duration
	timeout  time.Duration

	mu      sync.Mutex
	checks  []namedCheck
	ready   bool
	results []Result
	checked time.Time
}

type namedCheck struct {
	name  string
	check CheckFunc
}

func NewProbeRunner(cacheTTL, timeout time.Duration) *ProbeRunner {
	return &ProbeRunner{cacheTTL: cacheTTL, timeout: timeout}
}

func (p *ProbeRunner) Register(name string, check CheckFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.checks = append(p.checks, namedCheck{name: name, check: check})
}

func (p *ProbeRunner) Ready(ctx context.Context) (bool, []Result) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if time.Since(p.checked) < p.cacheTTL && p.results != nil {
		return p.ready, p.results
	}

	ready := true
	results := make([]Result, 0, len(p.checks))
	for _, c := range p.checks {
		cctx, cancel := context.WithTimeout(ctx, p.timeout)
		err := c.check(cctx)
		cancel()
		if err != nil {
			ready = false
			results = append(results, Result{Name: c.name, Status: "down", Error: err.Error()})
			continue
		}
		results = append(results, Result{Name: c.name, Status: "up"})
	}
	p.ready = ready
	p.results = results
	p.checked = time.Now()
	return ready, results
}
