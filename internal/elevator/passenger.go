package elevator

import (
	"fmt"

	"github.com/google/uuid"
)

// PassengerState tracks a passenger through their trip.
type PassengerState int

const (
	StateWaiting PassengerState = iota
	StateBoarded
	StateArrived
)

func (s PassengerState) String() string {
	switch s {
	case StateBoarded:
		return "boarded"
	case StateArrived:
		return "arrived"
	default:
		return "waiting"
	}
}

// Passenger is a single trip request. Origin and destination are fixed at
// creation; only the state changes as the passenger boards and alights.
type Passenger struct {
	ID          uuid.UUID
	Origin      int
	Destination int

	state PassengerState
}

// NewPassenger creates a passenger wanting to travel between two distinct
// floors.
func NewPassenger(origin, destination int) (*Passenger, error) {
	if origin == destination {
		return nil, ErrInvalidRequest
	}
	return &Passenger{
		ID:          uuid.New(),
		Origin:      origin,
		Destination: destination,
		state:       StateWaiting,
	}, nil
}

// Direction is the direction the passenger intends to travel.
func (p *Passenger) Direction() Direction {
	return DirectionBetween(p.Origin, p.Destination)
}

// State reports where the passenger is in their trip.
func (p *Passenger) State() PassengerState {
	return p.state
}

// Call registers the passenger's pickup request with the elevator.
func (p *Passenger) Call(e *Elevator) error {
	return e.Request(p)
}

// Board moves the passenger into the car. Legal only while the car is
// stationary with open doors at the passenger's origin floor and below
// capacity.
func (p *Passenger) Board(e *Elevator) error {
	return e.board(p)
}

// Alight moves the passenger out of the car. Legal only while the car is
// stationary with open doors at the passenger's destination floor.
func (p *Passenger) Alight(e *Elevator) error {
	return e.alight(p)
}

func (p *Passenger) String() string {
	return fmt.Sprintf("Passenger %s (%d->%d)", p.ID, p.Origin, p.Destination)
}
