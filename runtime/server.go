package runtime

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"

	"chat-hub/domain"
	"chat-hub/errors"
)

// Server owns the listener and the per-connection goroutine pairs: a
// reader feeding lines to the router and a writer draining the session
// outbox to the socket. The failure domain is one connection; a dead
// client only ever takes its own pair down.
type Server struct {
	log        *slog.Logger
	router     *Router
	sessions   *Registry
	bufferSize int
	maxLine    int

	mu    sync.Mutex
	conns map[net.Conn]struct{}
	wg    sync.WaitGroup
}

func NewServer(log *slog.Logger, router *Router, sessions *Registry, bufferSize, maxLine int) *Server {
	return &Server{
		log:        log,
		router:     router,
		sessions:   sessions,
		bufferSize: bufferSize,
		maxLine:    maxLine,
		conns:      make(map[net.Conn]struct{}),
	}
}

// Serve accepts connections until the context is canceled or the
// listener fails. On either exit path it closes the listener and every
// live connection and waits for the handlers to drain before returning.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
		case <-stop:
		}
		_ = listener.Close()
	}()

	var reason error
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() == nil {
				reason = fmt.Errorf("accept: %w", err)
			}
			break
		}
		s.track(conn)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			defer s.untrack(conn)
			s.handle(conn)
		}()
	}

	_ = listener.Close()
	s.closeConnections()
	s.wg.Wait()
	return reason
}

func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewScanner(conn)
	reader.Buffer(make([]byte, 0, 4096), s.maxLine)

	session, err := s.claimUsername(conn, reader)
	if err != nil {
		s.log.Info("username negotiation failed", "remote", conn.RemoteAddr().String(), "error", err)
		return
	}
	s.log.Info("client connected", "username", session.Username, "remote", conn.RemoteAddr().String())

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for line := range session.Outbox() {
			if _, err := fmt.Fprintf(conn, "%s\n", line); err != nil {
				return
			}
		}
	}()

	s.welcome(session)
	s.router.Announce(session.Username, fmt.Sprintf("%s has joined the chat", session.Username))

	for reader.Scan() {
		if s.router.Dispatch(session, reader.Text()) {
			break
		}
	}

	s.router.Disconnect(session)
	<-writerDone
	s.log.Info("client disconnected", "username", session.Username)
}

// claimUsername negotiates the identity of a fresh connection: one prompt
// line, one claim line, then either the session is registered or the
// connection is refused with a terminal error line.
func (s *Server) claimUsername(conn net.Conn, reader *bufio.Scanner) (*Session, error) {
	if _, err := fmt.Fprintf(conn, "Enter your username:\n"); err != nil {
		return nil, err
	}
	if !reader.Scan() {
		if err := reader.Err(); err != nil {
			return nil, err
		}
		return nil, errors.ErrSessionClosed
	}
	username := strings.TrimSpace(reader.Text())
	if err := domain.ValidateUsername(username); err != nil {
		_, _ = fmt.Fprintf(conn, "Error: %s\n", err)
		return nil, err
	}
	session := NewSession(username, s.bufferSize)
	if err := s.sessions.Register(session); err != nil {
		_, _ = fmt.Fprintf(conn, "Error: %s. Please try again.\n", err)
		return nil, err
	}
	return session, nil
}

func (s *Server) welcome(session *Session) {
	session.TrySend(fmt.Sprintf("Welcome to the chat, %s!", session.Username))
	session.TrySend("Commands:")
	session.TrySend("- Type normally for public messages")
	session.TrySend("- Use @username message for private messages")
	session.TrySend("- Use #groupname message for group messages")
	session.TrySend("- /creategroup groupname - Create a new group")
	session.TrySend("- /addtogroup groupname username - Add user to group (admin only)")
	session.TrySend("- /leavegroup groupname - Leave a group")
	session.TrySend("- /listgroups - List your groups")
	session.TrySend("- /groupmembers groupname - List group members")
	session.TrySend("- /users - See online users")
	session.TrySend("- /quit - Leave chat")
}

func (s *Server) track(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[conn] = struct{}{}
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// closeConnections unblocks every reader so the handlers can run their
// normal departure cleanup during shutdown.
func (s *Server) closeConnections() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for conn := range s.conns {
		_ = conn.Close()
	}
}
