package elevator

import (
	"errors"
	"testing"
)

func TestNewPassenger(t *testing.T) {
	p, err := NewPassenger(3, 7)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if p.Origin != 3 {
		t.Errorf("Expected origin 3, got %d", p.Origin)
	}
	if p.Destination != 7 {
		t.Errorf("Expected destination 7, got %d", p.Destination)
	}
	if p.State() != StateWaiting {
		t.Errorf("Expected waiting state, got %s", p.State())
	}
	if p.Direction() != DirectionUp {
		t.Errorf("Expected up direction, got %s", p.Direction())
	}

	down, _ := NewPassenger(7, 3)
	if down.Direction() != DirectionDown {
		t.Errorf("Expected down direction, got %s", down.Direction())
	}
}

func TestNewPassengerSameFloor(t *testing.T) {
	_, err := NewPassenger(4, 4)
	if !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("Expected ErrInvalidRequest, got %v", err)
	}
}

func TestPassengerCallOutOfRange(t *testing.T) {
	e := New(5, 8)

	p, _ := NewPassenger(2, 9)
	if err := p.Call(e); !errors.Is(err, ErrFloorOutOfRange) {
		t.Errorf("Expected ErrFloorOutOfRange, got %v", err)
	}
	if len(e.Queue()) != 0 || e.Waiting() != 0 {
		t.Errorf("Expected no state change after rejected call, queue %v waiting %d", e.Queue(), e.Waiting())
	}
}

func TestPassengerBoardDoorsClosed(t *testing.T) {
	e := New(10, 8)
	p, _ := NewPassenger(0, 3)

	if err := p.Board(e); !errors.Is(err, ErrDoorsClosed) {
		t.Errorf("Expected ErrDoorsClosed, got %v", err)
	}
	if p.State() != StateWaiting {
		t.Errorf("Expected passenger untouched, got %s", p.State())
	}
}

func TestPassengerBoardWrongFloor(t *testing.T) {
	e := New(10, 8)
	e.RequestStop(0, DirectionUp)
	advanceN(t, e, 1) // doors open at floor 0

	p, _ := NewPassenger(2, 5)
	if err := p.Board(e); !errors.Is(err, ErrFloorMismatch) {
		t.Errorf("Expected ErrFloorMismatch, got %v", err)
	}
}

func TestPassengerBoardWhenFull(t *testing.T) {
	e := New(10, 1)
	e.RequestStop(0, DirectionUp)
	advanceN(t, e, 1)

	a, _ := NewPassenger(0, 3)
	if err := a.Board(e); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	b, _ := NewPassenger(0, 5)
	if err := b.Board(e); !errors.Is(err, ErrBoardingDenied) {
		t.Errorf("Expected ErrBoardingDenied, got %v", err)
	}
	if b.State() != StateWaiting {
		t.Errorf("Expected denied passenger to stay waiting, got %s", b.State())
	}
}

func TestPassengerAlight(t *testing.T) {
	e := New(10, 8)
	e.RequestStop(0, DirectionUp)
	advanceN(t, e, 1)

	p, _ := NewPassenger(0, 2)
	if err := p.Board(e); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.State() != StateBoarded {
		t.Fatalf("Expected boarded state, got %s", p.State())
	}

	if err := p.Alight(e); !errors.Is(err, ErrFloorMismatch) {
		t.Errorf("Expected ErrFloorMismatch before reaching the destination, got %v", err)
	}

	// Ride to the destination; the car alights the passenger itself.
	advanceN(t, e, 4)
	if p.State() != StateArrived {
		t.Errorf("Expected arrived state, got %s", p.State())
	}
	if e.Occupancy() != 0 {
		t.Errorf("Expected empty car, got %d occupants", e.Occupancy())
	}
}

func TestPassengerAlightNotAboard(t *testing.T) {
	e := New(10, 8)
	e.RequestStop(0, DirectionUp)
	advanceN(t, e, 1)

	p, _ := NewPassenger(0, 2)
	if err := p.Alight(e); !errors.Is(err, ErrPassengerNotFound) {
		t.Errorf("Expected ErrPassengerNotFound, got %v", err)
	}
}
