// Randomized politeness delays between navigations.

package ratelimit

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type Scope int

const (
	InterPage Scope = iota
	InterDetailPage
	InterLocation
)

func (s Scope) String() string {
	switch s {
	case InterPage:
		return "inter_page"
	case InterDetailPage:
		return "inter_detail_page"
	case InterLocation:
		return "inter_location"
	}
	return "unknown"
}

// Range is an inclusive [Min, Max] delay window.
type Range struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

func DefaultRanges() map[Scope]Range {
	return map[Scope]Range{
		InterPage:       {Min: 4 * time.Second, Max: 7 * time.Second},
		InterDetailPage: {Min: 4 * time.Second, Max: 8 * time.Second},
		InterLocation:   {Min: 20 * time.Second, Max: 30 * time.Second},
	}
}

// Policy samples delays uniformly from a per-scope range.
type Policy struct {
	mu     sync.Mutex
	ranges map[Scope]Range
	rnd    *rand.Rand
}

// NewPolicy builds a policy. Scopes missing from ranges fall back to the defaults.
// A nil src seeds from the clock.
func NewPolicy(ranges map[Scope]Range, src rand.Source) *Policy {
	merged := DefaultRanges()
	for scope, r := range ranges {
		merged[scope] = r
	}
	if src == nil {
		src = rand.NewSource(time.Now().UnixNano())
	}
	return &Policy{
		ranges: merged,
		rnd:    rand.New(src),
	}
}

// DelayFor returns a duration in the scope's range.
func (p *Policy) DelayFor(scope Scope) time.Duration {
	r := p.ranges[scope]
	if r.Max <= r.Min {
		return r.Min
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return r.Min + time.Duration(p.rnd.Int63n(int64(r.Max-r.Min)+1))
}

// Pacer applies the policy delays and spaces out navigations.
type Pacer struct {
	policy  *Policy
	limiter *rate.Limiter
	sleep   func(ctx context.Context, d time.Duration) error
}

// NewPacer returns a pacer that allows at most one navigation per minInterval.
// minInterval <= 0 disables the spacing.
func NewPacer(policy *Policy, minInterval time.Duration) *Pacer {
	limit := rate.Inf
	if minInterval > 0 {
		limit = rate.Every(minInterval)
	}
	return &Pacer{
		policy:  policy,
		limiter: rate.NewLimiter(limit, 1),
		sleep:   Sleep,
	}
}

// WithSleeper swaps the sleep function, mostly for tests.
func (p *Pacer) WithSleeper(fn func(ctx context.Context, d time.Duration) error) *Pacer {
	p.sleep = fn
	return p
}

// Wait suspends for a delay sampled for scope. It returns early with the
// context error when ctx is cancelled.
func (p *Pacer) Wait(ctx context.Context, scope Scope) error {
	d := p.policy.DelayFor(scope)
	log.Printf("   ⏳ Waiting %.1f seconds (%s)...", d.Seconds(), scope)
	return p.sleep(ctx, d)
}

// BeforeNavigate blocks until the next navigation is allowed.
func (p *Pacer) BeforeNavigate(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
