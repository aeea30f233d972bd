package sim

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"elevator-sim/internal/elevator"
)

// Shell is a line-based command interface for driving an elevator by hand.
// Every command runs under its own trace span.
type Shell struct {
	car       *elevator.InstrumentedElevator
	scanner   *bufio.Scanner
	telemetry *elevator.TelemetryProvider
}

func NewShell(telemetry *elevator.TelemetryProvider) *Shell {
	return &Shell{
		scanner:   bufio.NewScanner(os.Stdin),
		telemetry: telemetry,
	}
}

func (s *Shell) Run(ctx context.Context) {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	for {
		if !s.scanner.Scan() {
			break
		}

		input := strings.TrimSpace(s.scanner.Text())
		if input == "" {
			continue
		}

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))

		s.processCommand(cmdCtx, input)
		cmdSpan.End()
	}

	span.AddEvent("shell_ended")
}

func (s *Shell) processCommand(ctx context.Context, input string) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.parse_command")
	defer span.End()

	parts := strings.Fields(input)
	if len(parts) == 0 {
		return
	}

	command := parts[0]
	span.SetAttributes(attribute.String("command.name", command))

	switch command {
	case "create":
		s.handleCreate(ctx, parts)
	case "request":
		s.handleRequest(ctx, parts)
	case "call":
		s.handleCall(ctx, parts)
	case "step":
		s.handleStep(ctx, parts)
	case "status":
		s.handleStatus()
	case "run":
		s.handleRun(ctx, parts)
	case "help":
		s.printUsage()
	default:
		span.AddEvent("unknown_command", trace.WithAttributes(
			attribute.String("unknown_command", command),
		))
		fmt.Printf("Unknown command: %s\n", command)
		s.printUsage()
	}
}

func (s *Shell) printUsage() {
	fmt.Println("Commands:")
	fmt.Println("  create <floors> <capacity>")
	fmt.Println("  request <origin> <destination>")
	fmt.Println("  call <floor> <up|down>")
	fmt.Println("  step [n]")
	fmt.Println("  status")
	fmt.Println("  run <ticks> <probability>")
}

func (s *Shell) handleCreate(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	_, span := tracer.Start(ctx, "shell.create_elevator")
	defer span.End()

	if len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: create <floors> <capacity>")
		return
	}

	floors, err := strconv.Atoi(parts[1])
	if err != nil || floors < 2 {
		span.AddEvent("invalid_floors")
		fmt.Println("Invalid floor count")
		return
	}

	capacity, err := strconv.Atoi(parts[2])
	if err != nil || capacity <= 0 {
		span.AddEvent("invalid_capacity")
		fmt.Println("Invalid capacity")
		return
	}

	span.SetAttributes(
		attribute.Int("elevator.floors", floors),
		attribute.Int("elevator.capacity", capacity),
	)

	car, err := elevator.NewInstrumentedElevator(floors, capacity, s.telemetry)
	if err != nil {
		span.RecordError(err)
		fmt.Printf("Error creating elevator: %s\n", err.Error())
		return
	}
	car.Subscribe(elevator.LogObserver{})

	s.car = car
	span.AddEvent("elevator_created")
	fmt.Printf("Created an elevator serving floors 0-%d with capacity %d\n", floors-1, capacity)
}

func (s *Shell) handleRequest(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	cmdCtx, span := tracer.Start(ctx, "shell.request_command")
	defer span.End()

	if s.car == nil {
		span.AddEvent("elevator_not_created")
		fmt.Println("Elevator not created")
		return
	}

	if len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: request <origin> <destination>")
		return
	}

	origin, err1 := strconv.Atoi(parts[1])
	destination, err2 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil {
		span.AddEvent("invalid_floor")
		fmt.Println("Invalid floor number")
		return
	}

	p, err := elevator.NewPassenger(origin, destination)
	if err != nil {
		span.RecordError(err)
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	span.SetAttributes(attribute.String("passenger.id", p.ID.String()))

	if err := s.car.Request(cmdCtx, p); err != nil {
		span.RecordError(err)
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Printf("%s is waiting on floor %d\n", p, origin)
}

func (s *Shell) handleCall(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	cmdCtx, span := tracer.Start(ctx, "shell.call_command")
	defer span.End()

	if s.car == nil {
		span.AddEvent("elevator_not_created")
		fmt.Println("Elevator not created")
		return
	}

	if len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: call <floor> <up|down>")
		return
	}

	floor, err := strconv.Atoi(parts[1])
	if err != nil {
		span.AddEvent("invalid_floor")
		fmt.Println("Invalid floor number")
		return
	}

	var direction elevator.Direction
	switch parts[2] {
	case "up":
		direction = elevator.DirectionUp
	case "down":
		direction = elevator.DirectionDown
	default:
		span.AddEvent("invalid_direction")
		fmt.Println("Direction must be up or down")
		return
	}

	if err := s.car.RequestStop(cmdCtx, floor, direction); err != nil {
		span.RecordError(err)
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	fmt.Printf("Stop requested: floor %d (%s)\n", floor, direction)
}

func (s *Shell) handleStep(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	cmdCtx, span := tracer.Start(ctx, "shell.step_command")
	defer span.End()

	if s.car == nil {
		span.AddEvent("elevator_not_created")
		fmt.Println("Elevator not created")
		return
	}

	n := 1
	if len(parts) == 2 {
		parsed, err := strconv.Atoi(parts[1])
		if err != nil || parsed <= 0 {
			span.AddEvent("invalid_step_count")
			fmt.Println("Invalid step count")
			return
		}
		n = parsed
	}

	span.SetAttributes(attribute.Int("step.count", n))

	for i := 0; i < n; i++ {
		if err := s.car.Advance(cmdCtx); err != nil {
			span.RecordError(err)
			fmt.Printf("Error: %s\n", err.Error())
			return
		}
	}

	s.handleStatus()
}

func (s *Shell) handleStatus() {
	if s.car == nil {
		fmt.Println("Elevator not created")
		return
	}

	fmt.Printf("Floor %d, %s, doors %s, %d/%d aboard, stops %v, %d waiting\n",
		s.car.CurrentFloor(),
		s.car.Direction(),
		s.car.Doors(),
		s.car.Occupancy(),
		s.car.Capacity(),
		s.car.Queue(),
		s.car.Waiting(),
	)
}

func (s *Shell) handleRun(ctx context.Context, parts []string) {
	tracer := s.telemetry.Tracer()
	cmdCtx, span := tracer.Start(ctx, "shell.run_simulation")
	defer span.End()

	if s.car == nil {
		span.AddEvent("elevator_not_created")
		fmt.Println("Elevator not created")
		return
	}

	if len(parts) != 3 {
		span.AddEvent("invalid_arguments")
		fmt.Println("Usage: run <ticks> <probability>")
		return
	}

	ticks, err := strconv.Atoi(parts[1])
	if err != nil || ticks <= 0 {
		span.AddEvent("invalid_ticks")
		fmt.Println("Invalid tick count")
		return
	}

	probability, err := strconv.ParseFloat(parts[2], 64)
	if err != nil || probability < 0 || probability > 1 {
		span.AddEvent("invalid_probability")
		fmt.Println("Invalid probability")
		return
	}

	cfg := Config{
		Floors:      s.car.Floors(),
		Capacity:    s.car.Capacity(),
		Probability: probability,
		Ticks:       ticks,
	}

	simulation, err := New(cfg, elevator.LogObserver{})
	if err != nil {
		span.RecordError(err)
		fmt.Printf("Error: %s\n", err.Error())
		return
	}

	report, err := simulation.Run(cmdCtx)
	if err != nil {
		span.RecordError(err)
		fmt.Printf("Simulation aborted: %s\n", err.Error())
		return
	}

	span.SetAttributes(
		attribute.Int("simulation.requests", report.Requests),
		attribute.Int("simulation.arrivals", report.Arrivals),
	)

	fmt.Printf("Ran %d ticks: %d requests, %d boardings, %d arrivals, %d still waiting, %d stops served\n",
		report.Ticks, report.Requests, report.Boardings, report.Arrivals, report.StillWaiting, report.StopsServed)
}
