package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"

	"glue-connect/relay"
	"glue-connect/workers"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes the relay and manages its lifecycle, so that defers
// execute on every exit path and the entry point stays testable.
func run() error {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := relay.NewHub(log)
	address := fmt.Sprintf("%s:%d", config.Host, config.Port)
	server := relay.NewServerWorker(log, address, hub, config.ShutdownTimeout)

	// The supervisor restarts the listener if serving fails and waits
	// for a clean drain on shutdown.
	workers.NewSupervisor(log).
		Add(server).
		Run(ctx)
	return nil
}
