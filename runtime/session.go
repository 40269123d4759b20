// Package runtime wires the connection manager, the registries and the
// command router together. It orchestrates the system without containing
// domain rules.
package runtime

import (
	"sync"
	"time"
)

// Session is the live representation of one connected client. The outbox
// decouples registry operations from socket I/O: the connection's writer
// goroutine is the only consumer, and producers never block on it, so one
// slow client cannot stall a broadcast.
type Session struct {
	Username    string
	ConnectedAt time.Time

	mu     sync.Mutex
	outbox chan string
	closed bool
}

func NewSession(username string, bufferSize int) *Session {
	return &Session{
		Username:    username,
		ConnectedAt: time.Now().UTC(),
		outbox:      make(chan string, bufferSize),
	}
}

// TrySend queues one outbound line without blocking. A full or closed
// outbox drops the line; per-recipient failure is independent and must
// not affect delivery to anyone else.
func (s *Session) TrySend(line string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	select {
	case s.outbox <- line:
		return true
	default:
		return false
	}
}

// Close seals the outbox. The writer drains what was already queued and
// then stops.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.outbox)
}

// Outbox is consumed by the connection's writer goroutine only.
func (s *Session) Outbox() <-chan string {
	return s.outbox
}
