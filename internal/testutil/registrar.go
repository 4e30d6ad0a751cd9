package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/hsnkilic/ProofVid/internal/provid"
)

// StubRegistrar is an in-memory provid.Registrar. It issues fixed
// certificates and can be made to fail or to block until released, which
// lets tests hold the pipeline in its registering phase.
type StubRegistrar struct {
	Err error // returned instead of a certificate when set

	mu       sync.Mutex
	counter  int
	requests []string // fingerprints in call order
	gate     chan struct{}
}

// NewStubRegistrar creates a registrar that succeeds immediately.
func NewStubRegistrar() *StubRegistrar {
	return &StubRegistrar{}
}

// Block makes subsequent Register calls wait until Release.
func (r *StubRegistrar) Block() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gate = make(chan struct{})
}

// Release unblocks any Register calls waiting on a prior Block.
func (r *StubRegistrar) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gate != nil {
		close(r.gate)
		r.gate = nil
	}
}

// Requests returns the fingerprints submitted so far.
func (r *StubRegistrar) Requests() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.requests...)
}

func (r *StubRegistrar) Register(ctx context.Context, fingerprint, deviceInfo, metadata string) (*provid.Certificate, error) {
	r.mu.Lock()
	r.requests = append(r.requests, fingerprint)
	gate := r.gate
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if r.Err != nil {
		return nil, r.Err
	}

	r.mu.Lock()
	r.counter++
	certID := r.counter
	r.mu.Unlock()

	return &provid.Certificate{
		CertificateID: fmt.Sprintf("cert-%d", certID),
		Hash:          fingerprint,
		IssuedAt:      FixedIssuedAt,
		Success:       true,
	}, nil
}

// Compile-time check that StubRegistrar implements provid.Registrar.
var _ provid.Registrar = (*StubRegistrar)(nil)
