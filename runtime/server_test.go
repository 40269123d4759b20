package runtime

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func Test_Serve_Listener_Failure_Still_Drains_Handlers(t *testing.T) {
	req := require.New(t)
	f := newRouter(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	server := NewServer(log, f.router, f.sessions, 8, 4096)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(context.Background(), listener) }()

	// Given a client mid-negotiation, so its handler is blocked reading
	conn, err := net.Dial("tcp", listener.Addr().String())
	req.NoError(err)
	defer conn.Close()
	req.NoError(conn.SetDeadline(time.Now().Add(30 * time.Second)))
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	req.NoError(err)
	req.Contains(line, "Enter your username:")

	// When the listener dies without the context being canceled
	req.NoError(listener.Close())

	// Then Serve reports the failure instead of hanging, which means the
	// live connection was closed and its handler finished
	select {
	case err := <-serveDone:
		req.Error(err)
		req.Contains(err.Error(), "accept")
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after the listener failed")
	}
	_, err = reader.ReadString('\n')
	req.Error(err)
}

func Test_Serve_Context_Cancel_Is_A_Clean_Stop(t *testing.T) {
	req := require.New(t)
	f := newRouter(t)
	log := logs.GetLoggerFromLevel(slog.LevelError)
	server := NewServer(log, f.router, f.sessions, 8, 4096)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	req.NoError(err)

	ctx, cancel := context.WithCancel(context.Background())
	serveDone := make(chan error, 1)
	go func() { serveDone <- server.Serve(ctx, listener) }()

	conn, err := net.Dial("tcp", listener.Addr().String())
	req.NoError(err)
	defer conn.Close()
	req.NoError(conn.SetDeadline(time.Now().Add(30 * time.Second)))
	reader := bufio.NewReader(conn)
	_, err = reader.ReadString('\n')
	req.NoError(err)

	cancel()

	select {
	case err := <-serveDone:
		req.NoError(err)
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after cancellation")
	}
}
