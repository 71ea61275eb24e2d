package price

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultInterval is the refresh period for the price feed.
const DefaultInterval = 24 * time.Hour

// State is a snapshot of the poller.
type State struct {
	Price     float64   `json:"price"`
	Loading   bool      `json:"loading"`
	Error     string    `json:"error,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// Poller fetches the price once on Run and then every interval. A failed
// fetch keeps the last good price and sets Error; the next success clears it.
type Poller struct {
	source   Source
	interval time.Duration

	mu      sync.RWMutex
	state   State
	stopped bool
}

// NewPoller returns a poller seeded with the fallback price. An invalid
// fallback seeds zero.
func NewPoller(source Source, fallback float64, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if !Valid(fallback) {
		fallback = 0
	}
	return &Poller{
		source:   source,
		interval: interval,
		state:    State{Price: fallback},
	}
}

// State returns the current snapshot.
func (p *Poller) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// SetFallback replaces the seeded price. It has no effect once a fetch has
// succeeded, or when price is not a valid price.
func (p *Poller) SetFallback(price float64) {
	if !Valid(price) {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state.UpdatedAt.IsZero() {
		p.state.Price = price
	}
}

// Run refreshes immediately and then on every tick until ctx is done. After
// Run returns the state is frozen.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer p.stop()

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

// Refresh performs a single fetch and applies the result.
func (p *Poller) Refresh(ctx context.Context) {
	if !p.update(ctx, func(s *State) { s.Loading = true }) {
		return
	}

	price, err := p.source.Fetch(ctx)
	if err == nil && !Valid(price) {
		err = fmt.Errorf("source returned invalid price %v", price)
	}
	if err != nil {
		slog.Error("failed to fetch gold price", "error", err)
		p.update(ctx, func(s *State) {
			s.Loading = false
			s.Error = "Unable to fetch the latest gold price"
		})
		return
	}

	p.update(ctx, func(s *State) {
		s.Loading = false
		s.Error = ""
		s.Price = price
		s.UpdatedAt = time.Now()
	})
	slog.Info("gold price updated", "price", price)
}

// update applies fn unless the poller has been torn down.
func (p *Poller) update(ctx context.Context, fn func(*State)) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped || ctx.Err() != nil {
		return false
	}
	fn(&p.state)
	return true
}

func (p *Poller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	p.state.Loading = false
}
