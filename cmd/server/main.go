package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"chat-hub/internal"
	"chat-hub/repositories"
	"chat-hub/runtime"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components and manages the server lifecycle, so
// every deferred cleanup (like the database close) executes before the
// process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.INFO))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Registries, Router & Server
	sessions := runtime.NewRegistry()
	groups := runtime.NewGroups(log, repositories.NewGroupRepository(db))
	messages := repositories.NewMessageRepository(db)
	router := runtime.NewRouter(log, sessions, groups, messages)
	server := runtime.NewServer(log, router, sessions, config.ConnectionBufferSize, config.MaxContentLength)

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Listener
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	listener, err := net.Listen("tcp", address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", address, err)
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("Chat server listening", "address", address)
		errChan <- server.Serve(ctx, listener)
	}()

	// 6. Wait for Stop or Error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
		if err := <-errChan; err != nil {
			return err
		}
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	log.Info("Program stopped cleanly")
	return nil
}
