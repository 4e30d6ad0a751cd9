package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	v1 "github.com/hsnkilic/ProofVid/api/v1"
)

// FixedIssuedAt is the timestamp the stub authority stamps on every
// certificate.
const FixedIssuedAt = "2024-01-15T10:30:00Z"

// StubAuthority is an in-process registration authority for tests. It
// accepts well-formed fingerprints once, answers duplicates with 409, and
// can be forced into a failure mode.
type StubAuthority struct {
	Server *httptest.Server

	mu         sync.Mutex
	registered map[string]string // fingerprint -> certificate ID
	counter    int

	// FailStatus, when non-zero, makes every request fail with this status
	// and FailMessage as the error body.
	FailStatus  int
	FailMessage string
}

// NewStubAuthority starts a stub authority. The server is shut down when
// the test completes.
func NewStubAuthority(t *testing.T) *StubAuthority {
	t.Helper()

	a := &StubAuthority{registered: make(map[string]string)}
	a.Server = httptest.NewServer(http.HandlerFunc(a.handle))
	t.Cleanup(a.Server.Close)
	return a
}

// URL returns the authority's base URL.
func (a *StubAuthority) URL() string { return a.Server.URL }

// Registered reports whether the fingerprint has been accepted.
func (a *StubAuthority) Registered(fingerprint string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.registered[fingerprint]
	return ok
}

// Count returns the number of accepted registrations.
func (a *StubAuthority) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.registered)
}

func (a *StubAuthority) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != v1.RegisterRoute || r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.FailStatus != 0 {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(a.FailStatus)
		json.NewEncoder(w).Encode(v1.ErrorReply{Error: a.FailMessage})
		return
	}

	var req v1.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if !v1.RegexpSHA256.MatchString(req.Hash) {
		writeError(w, http.StatusBadRequest, "invalid hash")
		return
	}

	if _, dup := a.registered[req.Hash]; dup {
		writeError(w, http.StatusConflict, "hash already registered")
		return
	}

	a.counter++
	certID := fmt.Sprintf("cert-%d", a.counter)
	a.registered[req.Hash] = certID

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v1.RegisterReply{
		Success:       true,
		CertificateID: certID,
		Hash:          req.Hash,
		Timestamp:     FixedIssuedAt,
	})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v1.ErrorReply{Error: msg})
}
