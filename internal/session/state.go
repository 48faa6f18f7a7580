// Package session holds the in-memory state of one connected wallet.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AlexZinkM/nftvault/internal/signer"
)

// MaxLogLines bounds the session log; older lines are evicted first.
const MaxLogLines = 200

// State is the explicit application state passed to handlers.
// It is never persisted; Disconnect drops everything but the gateway override.
type State struct {
	mu      sync.Mutex
	id      string
	signer  signer.Signer
	gateway string
	logs    []string
	start   int // index of the oldest line in logs once the ring is full
	now     func() time.Time
}

// New creates an empty, disconnected session.
func New() *State {
	return &State{id: uuid.NewString(), now: time.Now}
}

// ID identifies the session in logs and API responses.
func (s *State) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Connect attaches a signer.
func (s *State) Connect(sg signer.Signer) {
	s.mu.Lock()
	s.signer = sg
	s.mu.Unlock()
	s.Logf("connected %s", sg.Address().Hex())
}

// Disconnect drops the signer and the log and starts a fresh session id.
func (s *State) Disconnect() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signer = nil
	s.logs = nil
	s.start = 0
	s.id = uuid.NewString()
}

// Signer returns the connected signer, nil when disconnected.
func (s *State) Signer() signer.Signer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.signer
}

// Address returns the connected address in checksum form, empty when disconnected.
func (s *State) Address() string {
	sg := s.Signer()
	if sg == nil {
		return ""
	}
	return sg.Address().Hex()
}

// Gateway returns the gateway override, empty when unset.
func (s *State) Gateway() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gateway
}

// SetGateway overrides the payload gateway for this session.
func (s *State) SetGateway(url string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gateway = url
}

// Logf appends a timestamped line.
func (s *State) Logf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := fmt.Sprintf("[%s] %s", s.now().Format("15:04:05"), fmt.Sprintf(format, args...))
	if len(s.logs) < MaxLogLines {
		s.logs = append(s.logs, line)
		return
	}
	s.logs[s.start] = line
	s.start = (s.start + 1) % MaxLogLines
}

// Logs returns the log lines oldest first.
func (s *State) Logs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.logs))
	out = append(out, s.logs[s.start:]...)
	out = append(out, s.logs[:s.start]...)
	return out
}
