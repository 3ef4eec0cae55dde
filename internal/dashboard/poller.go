package dashboard

import (
	"context"
	"sync"
	"time"
)

// DefaultInterval is how often the dashboard summary is refreshed.
const DefaultInterval = 5 * time.Minute

// fetchTimeout is the maximum time allowed for one refresh.
const fetchTimeout = 30 * time.Second

// Fetcher performs one full dashboard read.
type Fetcher interface {
	Summary(ctx context.Context) Summary
}

// Poller keeps the latest dashboard summary fresh on a fixed interval.
type Poller struct {
	fetcher  Fetcher
	interval time.Duration

	mu      sync.RWMutex
	summary Summary
}

// NewPoller creates a poller. A non-positive interval selects DefaultInterval.
func NewPoller(fetcher Fetcher, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		fetcher:  fetcher,
		interval: interval,
		summary:  EmptySummary(),
	}
}

// Run refreshes immediately and then on every tick until ctx is canceled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.Refresh(ctx)
		}
	}
}

// Refresh performs one read and stores the result.
func (p *Poller) Refresh(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	summary := p.fetcher.Summary(ctx)
	p.mu.Lock()
	p.summary = summary
	p.mu.Unlock()
}

// Summary returns the latest summary.
func (p *Poller) Summary() Summary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.summary
}
