package provid

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval so business logic is deterministic in tests.
type Clock interface {
	Now() time.Time

	// NewTicker returns a Ticker firing every d. The recording elapsed
	// counter runs on a 1 Hz ticker obtained here so tests can drive it.
	NewTicker(d time.Duration) Ticker
}

// Ticker is the cancellable periodic tick used for the elapsed-time counter.
// Stop must be called on every exit path from Recording.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock returns the actual current time and real tickers.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(d)}
}

type realTicker struct {
	t *time.Ticker
}

func (rt *realTicker) C() <-chan time.Time { return rt.t.C }
func (rt *realTicker) Stop()               { rt.t.Stop() }

// IDGenerator abstracts unique ID generation so tests are deterministic.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) New() string { return uuid.New().String() }
