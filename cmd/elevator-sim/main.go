package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"elevator-sim/internal/elevator"
	"elevator-sim/internal/server"
	"elevator-sim/internal/sim"
)

var (
	mode = flag.String("mode", "sim", "Mode to run: sim, shell, server, or both")
	port = flag.String("port", "8080", "Port for HTTP server")

	floors      = flag.Int("floors", 10, "Number of floors in the building")
	capacity    = flag.Int("capacity", 8, "Maximum passengers in the car")
	probability = flag.Float64("probability", 0.1, "Per-tick probability of a new passenger request")
	ticks       = flag.Int("ticks", 24*60, "Total simulation ticks")
	seed        = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
)

func main() {
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetryProvider, err := elevator.NewTelemetryProvider()
	if err != nil {
		log.Fatalf("Failed to initialize telemetry: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	switch *mode {
	case "sim":
		runSim(ctx, cancel, telemetryProvider, sigChan)
	case "shell":
		runShell(ctx, cancel, telemetryProvider, sigChan)
	case "server":
		runServer(ctx, cancel, telemetryProvider, sigChan)
	case "both":
		runBoth(ctx, cancel, telemetryProvider, sigChan)
	default:
		log.Fatalf("Invalid mode: %s. Must be sim, shell, server, or both", *mode)
	}
}

func simConfig() sim.Config {
	cfg := sim.Config{
		Floors:      *floors,
		Capacity:    *capacity,
		Probability: *probability,
		Ticks:       *ticks,
		Seed:        *seed,
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg
}

func runSim(ctx context.Context, cancel context.CancelFunc, telemetryProvider *elevator.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	cfg := simConfig()
	simulation, err := sim.New(cfg, elevator.LogObserver{})
	if err != nil {
		log.Fatalf("Invalid simulation config: %v", err)
	}

	log.Printf("Simulating %d ticks: %d floors, capacity %d, probability %g, seed %d",
		cfg.Ticks, cfg.Floors, cfg.Capacity, cfg.Probability, cfg.Seed)

	report, err := simulation.Run(ctx)
	if err != nil {
		log.Printf("Simulation aborted: %v", err)
	}

	fmt.Printf("Ticks: %d\nRequests: %d\nBoardings: %d\nArrivals: %d\nStill waiting: %d\nStops served: %d\nFinal floor: %d\n",
		report.Ticks, report.Requests, report.Boardings, report.Arrivals,
		report.StillWaiting, report.StopsServed, report.FinalFloor)

	shutdownTelemetry(telemetryProvider)
}

func runShell(ctx context.Context, cancel context.CancelFunc, telemetryProvider *elevator.TelemetryProvider, sigChan chan os.Signal) {
	go func() {
		<-sigChan
		log.Println("Shutting down...")
		cancel()
	}()

	shell := sim.NewShell(telemetryProvider)
	shell.Run(ctx)

	shutdownTelemetry(telemetryProvider)
}

func runServer(ctx context.Context, cancel context.CancelFunc, telemetryProvider *elevator.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(*port, telemetryProvider)

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	log.Printf("Starting server mode on port %s", *port)
	if err := srv.Start(); err != nil && err != context.Canceled {
		log.Printf("Server error: %v", err)
	}

	shutdownTelemetry(telemetryProvider)
}

func runBoth(ctx context.Context, cancel context.CancelFunc, telemetryProvider *elevator.TelemetryProvider, sigChan chan os.Signal) {
	srv := server.NewServer(*port, telemetryProvider)

	serverDone := make(chan error, 1)
	go func() {
		log.Printf("Starting HTTP server on port %s", *port)
		serverDone <- srv.Start()
	}()

	shellDone := make(chan bool, 1)
	go func() {
		shell := sim.NewShell(telemetryProvider)
		shell.Run(ctx)
		shellDone <- true
	}()

	go func() {
		<-sigChan
		log.Println("Received shutdown signal...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}

		cancel()
	}()

	select {
	case err := <-serverDone:
		if err != nil && err != context.Canceled {
			log.Printf("Server error: %v", err)
		}
	case <-shellDone:
		log.Println("Shell exited")
	case <-ctx.Done():
		log.Println("Context cancelled")
	}

	shutdownTelemetry(telemetryProvider)
}

func shutdownTelemetry(telemetryProvider *elevator.TelemetryProvider) {
	log.Println("Shutting down telemetry...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := telemetryProvider.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down telemetry: %v", err)
	}
}
