package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// StubClock returns a fixed time and hands out a drivable ticker. Safe for
// concurrent use.
type StubClock struct {
	mu     sync.Mutex
	now    time.Time
	ticker *StubTicker
}

// NewStubClock creates a StubClock set to the given time.
func NewStubClock(t time.Time) *StubClock {
	return &StubClock{now: t, ticker: NewStubTicker()}
}

// FixedClock returns a StubClock set to 2024-01-15 10:30:00 UTC.
func FixedClock() *StubClock {
	return NewStubClock(time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC))
}

func (c *StubClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *StubClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NewTicker returns the clock's stub ticker regardless of the duration, so
// tests drive time explicitly via Ticker().Tick.
func (c *StubClock) NewTicker(time.Duration) provid.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker
}

// Ticker returns the stub ticker handed out by NewTicker.
func (c *StubClock) Ticker() *StubTicker {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ticker
}

// StubTicker is a manually driven provid.Ticker.
type StubTicker struct {
	ch chan time.Time
}

// NewStubTicker creates a ticker that fires only when Tick is called.
func NewStubTicker() *StubTicker {
	return &StubTicker{ch: make(chan time.Time)}
}

func (t *StubTicker) C() <-chan time.Time { return t.ch }

// Stop is a no-op; the ticker only fires on explicit Tick calls.
func (t *StubTicker) Stop() {}

// Tick fires the ticker once, blocking until the consumer receives it.
func (t *StubTicker) Tick() {
	t.ch <- time.Now()
}

// TryTick fires the ticker if a consumer is ready, and reports whether the
// tick was delivered.
func (t *StubTicker) TryTick() bool {
	select {
	case t.ch <- time.Now():
		return true
	default:
		return false
	}
}

// StubIDGenerator returns sequential IDs: "id-1", "id-2", etc.
type StubIDGenerator struct {
	mu      sync.Mutex
	counter int
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (g *StubIDGenerator) New() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.counter++
	return fmt.Sprintf("id-%d", g.counter)
}

// Compile-time checks against the provid interfaces.
var (
	_ provid.Clock       = (*StubClock)(nil)
	_ provid.Ticker      = (*StubTicker)(nil)
	_ provid.IDGenerator = (*StubIDGenerator)(nil)
)
