package provid

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MaxRecordingSeconds is the hard upper bound on recording length. A
// session that never receives Stop is stopped automatically at this mark.
// Not user-configurable.
const MaxRecordingSeconds = 300

// State is the capture state machine's current phase. States after
// Recording are the pipeline's suspend points; a UI should render
// "processing" for all of them.
type State int

const (
	StateIdle State = iota
	StateRecording
	StateFinalizing
	StateRegistering
	StateCommitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRecording:
		return "recording"
	case StateFinalizing:
		return "finalizing"
	case StateRegistering:
		return "registering"
	case StateCommitting:
		return "committing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Attempt is the terminal outcome of one recording attempt.
type Attempt struct {
	ID      string
	Record  *Record // nil unless the attempt reached Done
	Err     error   // nil unless the attempt reached Failed
	Elapsed int     // seconds spent in Recording
}

// Controller is the capture state machine. It drives one recording attempt
// at a time through Recording, Finalizing, Registering and Committing, and
// guarantees at most one in-flight registration per device.
//
// There is exactly one UI actor, so transitions are strictly sequential;
// the mutex only guards the state word against a stray concurrent Start,
// which is rejected rather than queued.
type Controller struct {
	camera  Camera
	caps    Capability
	service *Service
	clock   Clock
	idgen   IDGenerator
	logger  Logger

	// OnTick, if set, is called once per elapsed second while recording.
	// OnPhase, if set, is called on every state transition. Both are
	// fire-and-forget UI hooks and must not block; set them before the
	// first Start.
	OnTick  func(elapsedSeconds int)
	OnPhase func(state State)

	mu      sync.Mutex
	state   State
	elapsed int
}

// NewController creates a capture controller in Idle.
func NewController(camera Camera, caps Capability, service *Service, clock Clock, idgen IDGenerator, logger Logger) *Controller {
	return &Controller{
		camera:  camera,
		caps:    caps,
		service: service,
		clock:   clock,
		idgen:   idgen,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the machine's current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Stop asks the current recording to finish. Cooperative: the pipeline
// proceeds with whatever bytes were captured. Once fingerprinting or
// registration has started there is no cancellation; the attempt runs to a
// terminal state.
func (c *Controller) Stop() {
	c.camera.Stop()
}

// Start runs one complete recording attempt and blocks until it reaches a
// terminal state, then resets the machine to Idle and returns the attempt.
//
// Rejected with ErrAttemptInProgress while another attempt is in flight and
// with ErrPermissionDenied (failing closed, still Idle) when the capture
// capability is absent.
func (c *Controller) Start(ctx context.Context) (*Attempt, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return nil, ErrAttemptInProgress
	}
	if !c.caps.Granted() {
		c.mu.Unlock()
		return nil, ErrPermissionDenied
	}
	c.state = StateRecording
	c.elapsed = 0
	c.mu.Unlock()

	attempt := &Attempt{ID: c.idgen.New()}
	c.logger.Info("recording started", "attempt", attempt.ID)
	c.notifyPhase(StateRecording)

	captureURI, err := c.record(ctx)

	c.mu.Lock()
	attempt.Elapsed = c.elapsed
	c.mu.Unlock()

	if err != nil {
		return c.finish(attempt, nil, fmt.Errorf("capture failed: %w", err)), nil
	}
	c.logger.Debug("capture finished", "attempt", attempt.ID, "uri", captureURI, "elapsed", attempt.Elapsed)

	c.setState(StateFinalizing)
	fingerprint, err := c.service.FingerprintCapture(captureURI)
	if err != nil {
		return c.finish(attempt, nil, err), nil
	}

	c.setState(StateRegistering)
	cert, err := c.service.Register(ctx, fingerprint)
	if err != nil {
		return c.finish(attempt, nil, err), nil
	}

	c.setState(StateCommitting)
	record, err := c.service.CommitAndAppend(captureURI, cert)
	if err != nil {
		return c.finish(attempt, nil, err), nil
	}

	return c.finish(attempt, record, nil), nil
}

// record runs the camera with the elapsed-time ticker alongside it. The
// ticker is a best-effort 1 Hz counter independent of the pipeline and is
// cancelled on every exit path from Recording, including the automatic stop
// at MaxRecordingSeconds.
func (c *Controller) record(ctx context.Context) (string, error) {
	ticker := c.clock.NewTicker(time.Second)
	done := make(chan struct{})
	go c.countElapsed(ticker, done)

	captureURI, err := c.camera.Record(ctx)

	close(done)
	ticker.Stop()
	return captureURI, err
}

func (c *Controller) countElapsed(ticker Ticker, done <-chan struct{}) {
	for {
		select {
		case <-ticker.C():
			c.mu.Lock()
			c.elapsed++
			elapsed := c.elapsed
			c.mu.Unlock()

			if c.OnTick != nil {
				c.OnTick(elapsed)
			}
			if elapsed >= MaxRecordingSeconds {
				c.logger.Info("recording cap reached, stopping", "elapsed", elapsed)
				c.camera.Stop()
				return
			}
		case <-done:
			return
		}
	}
}

// finish records the terminal state, notifies observers, and resets the
// machine to Idle for the next attempt.
func (c *Controller) finish(attempt *Attempt, record *Record, err error) *Attempt {
	attempt.Record = record
	attempt.Err = err

	if err != nil {
		c.setState(StateFailed)
		c.logger.Warn("recording attempt failed", "attempt", attempt.ID, "error", err)
	} else {
		c.setState(StateDone)
	}

	c.mu.Lock()
	c.state = StateIdle
	c.mu.Unlock()
	return attempt
}

func (c *Controller) setState(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	c.notifyPhase(s)
}

func (c *Controller) notifyPhase(s State) {
	if c.OnPhase != nil {
		c.OnPhase(s)
	}
}
