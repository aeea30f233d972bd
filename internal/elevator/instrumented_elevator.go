package elevator

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// InstrumentedElevator decorates an Elevator with tracing and metrics. The
// plain Elevator stays free of telemetry concerns; this wrapper adds spans
// around the public operations and subscribes a metrics observer for the
// per-event counters.
type InstrumentedElevator struct {
	*Elevator
	telemetry *TelemetryProvider

	stopRequests metric.Int64Counter
	steps        metric.Int64Counter
	stepDuration metric.Float64Histogram
	floorGauge   metric.Int64Gauge
}

func NewInstrumentedElevator(floors, capacity int, telemetry *TelemetryProvider) (*InstrumentedElevator, error) {
	base := New(floors, capacity)

	meter := telemetry.Meter()

	stopRequests, err := meter.Int64Counter("elevator_stop_requests_total",
		metric.WithDescription("Total number of stop requests received"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	steps, err := meter.Int64Counter("elevator_steps_total",
		metric.WithDescription("Total number of simulation steps advanced"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	stepDuration, err := meter.Float64Histogram("elevator_step_duration_seconds",
		metric.WithDescription("Duration of a single advance step"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	floorGauge, err := meter.Int64Gauge("elevator_current_floor",
		metric.WithDescription("Floor the car is currently on"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ie := &InstrumentedElevator{
		Elevator:     base,
		telemetry:    telemetry,
		stopRequests: stopRequests,
		steps:        steps,
		stepDuration: stepDuration,
		floorGauge:   floorGauge,
	}

	observer, err := NewMetricsObserver(meter)
	if err != nil {
		return nil, err
	}
	base.Subscribe(observer)

	return ie, nil
}

func (ie *InstrumentedElevator) RequestStop(ctx context.Context, floor int, direction Direction) error {
	tracer := ie.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "elevator.request_stop",
		trace.WithAttributes(
			attribute.Int("elevator.floor", floor),
			attribute.String("elevator.direction", direction.String()),
		))
	defer span.End()

	err := ie.Elevator.RequestStop(floor, direction)

	labels := []attribute.KeyValue{
		attribute.String("direction", direction.String()),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "rejected"))
	} else {
		labels = append(labels, attribute.String("status", "accepted"))
		span.SetAttributes(attribute.IntSlice("elevator.stop_queue", ie.Queue()))
	}
	ie.stopRequests.Add(ctx, 1, metric.WithAttributes(labels...))

	return err
}

func (ie *InstrumentedElevator) Request(ctx context.Context, p *Passenger) error {
	tracer := ie.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "elevator.request",
		trace.WithAttributes(
			attribute.String("passenger.id", p.ID.String()),
			attribute.Int("passenger.origin", p.Origin),
			attribute.Int("passenger.destination", p.Destination),
		))
	defer span.End()

	err := ie.Elevator.Request(p)

	labels := []attribute.KeyValue{
		attribute.String("direction", p.Direction().String()),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "rejected"))
	} else {
		labels = append(labels, attribute.String("status", "accepted"))
	}
	ie.stopRequests.Add(ctx, 1, metric.WithAttributes(labels...))

	return err
}

func (ie *InstrumentedElevator) Advance(ctx context.Context) error {
	tracer := ie.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "elevator.advance",
		trace.WithAttributes(
			attribute.Int("elevator.floor", ie.CurrentFloor()),
			attribute.String("elevator.phase", ie.Phase().String()),
		))
	defer span.End()

	start := time.Now()

	err := ie.Elevator.Advance()

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("phase", ie.Phase().String()),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels, attribute.String("status", "failed"))
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(
			attribute.Int("elevator.floor_after", ie.CurrentFloor()),
			attribute.String("elevator.direction", ie.Direction().String()),
			attribute.Int("elevator.occupancy", ie.Occupancy()),
		)
	}

	ie.steps.Add(ctx, 1, metric.WithAttributes(labels...))
	ie.stepDuration.Record(ctx, duration, metric.WithAttributes(labels...))
	ie.floorGauge.Record(ctx, int64(ie.CurrentFloor()))

	return err
}

// MetricsObserver records elevator events as OpenTelemetry metrics. It is a
// regular Observer and carries no elevator state of its own.
type MetricsObserver struct {
	BaseObserver

	boardings  metric.Int64Counter
	alightings metric.Int64Counter
	occupancy  metric.Int64UpDownCounter
	doorCycles metric.Int64Counter
	arrivals   metric.Int64Counter
}

func NewMetricsObserver(meter metric.Meter) (*MetricsObserver, error) {
	boardings, err := meter.Int64Counter("elevator_boardings_total",
		metric.WithDescription("Total number of passengers boarded"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	alightings, err := meter.Int64Counter("elevator_alightings_total",
		metric.WithDescription("Total number of passengers alighted"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancy, err := meter.Int64UpDownCounter("elevator_occupancy",
		metric.WithDescription("Current number of passengers in the car"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	doorCycles, err := meter.Int64Counter("elevator_door_cycles_total",
		metric.WithDescription("Total number of door open/close cycles"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	arrivals, err := meter.Int64Counter("elevator_arrivals_total",
		metric.WithDescription("Total number of stops served"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	return &MetricsObserver{
		boardings:  boardings,
		alightings: alightings,
		occupancy:  occupancy,
		doorCycles: doorCycles,
		arrivals:   arrivals,
	}, nil
}

func (m *MetricsObserver) OnArrival(floor int) {
	m.arrivals.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Int("floor", floor)))
}

func (m *MetricsObserver) OnDoorsClose(floor int) {
	m.doorCycles.Add(context.Background(), 1,
		metric.WithAttributes(attribute.Int("floor", floor)))
}

func (m *MetricsObserver) OnBoard(p *Passenger) {
	ctx := context.Background()
	m.boardings.Add(ctx, 1,
		metric.WithAttributes(attribute.String("direction", p.Direction().String())))
	m.occupancy.Add(ctx, 1)
}

func (m *MetricsObserver) OnAlight(p *Passenger) {
	ctx := context.Background()
	m.alightings.Add(ctx, 1,
		metric.WithAttributes(attribute.String("direction", p.Direction().String())))
	m.occupancy.Add(ctx, -1)
}
