package elevator

import (
	"context"
	"testing"
)

func TestInstrumentedElevatorIntegration(t *testing.T) {
	telemetry, err := NewTelemetryProvider()
	if err != nil {
		t.Fatalf("Failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := telemetry.Shutdown(context.Background()); err != nil {
			t.Errorf("Failed to shutdown telemetry: %v", err)
		}
	}()

	car, err := NewInstrumentedElevator(6, 2, telemetry)
	if err != nil {
		t.Fatalf("Failed to create instrumented elevator: %v", err)
	}

	ctx := context.Background()

	p, err := NewPassenger(0, 3)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := car.Request(ctx, p); err != nil {
		t.Errorf("Unexpected error: %s", err.Error())
	}

	if err := car.RequestStop(ctx, 9, DirectionUp); err == nil {
		t.Error("Expected error for floor outside the building")
	}

	for i := 0; i < 6; i++ {
		if err := car.Advance(ctx); err != nil {
			t.Fatalf("Advance failed: %v", err)
		}
	}

	if p.State() != StateArrived {
		t.Errorf("Expected passenger arrived, got %s", p.State())
	}
	if car.Phase() != PhaseIdle {
		t.Errorf("Expected idle car, got %s", car.Phase())
	}
}
