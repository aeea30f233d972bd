package sim

import (
	"fmt"

	"elevator-sim/internal/elevator"
)

type EventKind string

const (
	EventRequest    EventKind = "request"
	EventArrival    EventKind = "arrival"
	EventDoorsOpen  EventKind = "doors_open"
	EventDoorsClose EventKind = "doors_close"
	EventBoard      EventKind = "board"
	EventAlight     EventKind = "alight"
)

// Event is one recorded elevator notification, stamped with the simulation
// tick it happened on.
type Event struct {
	Tick      int                `json:"tick"`
	Kind      EventKind          `json:"kind"`
	Floor     int                `json:"floor"`
	Direction elevator.Direction `json:"direction,omitempty"`
	Passenger string             `json:"passenger,omitempty"`
}

func (e Event) String() string {
	switch e.Kind {
	case EventBoard, EventAlight:
		return fmt.Sprintf("[%04d] %s passenger=%s floor=%d", e.Tick, e.Kind, e.Passenger, e.Floor)
	case EventRequest:
		return fmt.Sprintf("[%04d] %s floor=%d direction=%s", e.Tick, e.Kind, e.Floor, e.Direction)
	default:
		return fmt.Sprintf("[%04d] %s floor=%d", e.Tick, e.Kind, e.Floor)
	}
}

// Journal records every elevator notification as a tick-stamped event
// trace. It is the simulation's logging collaborator: the core knows only
// the Observer contract, the journal gives each run an inspectable history.
type Journal struct {
	tick   int
	floor  func() int
	events []Event
}

// NewJournal creates a journal. floor supplies the car's current floor for
// the passenger events, which do not carry one themselves.
func NewJournal(floor func() int) *Journal {
	return &Journal{floor: floor}
}

// SetTick stamps subsequent events with the given tick.
func (j *Journal) SetTick(tick int) {
	j.tick = tick
}

// Events returns a copy of the recorded trace.
func (j *Journal) Events() []Event {
	out := make([]Event, len(j.events))
	copy(out, j.events)
	return out
}

// Count returns the number of recorded events of a kind.
func (j *Journal) Count(kind EventKind) int {
	n := 0
	for _, e := range j.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

func (j *Journal) OnRequest(floor int, direction elevator.Direction) {
	j.events = append(j.events, Event{Tick: j.tick, Kind: EventRequest, Floor: floor, Direction: direction})
}

func (j *Journal) OnArrival(floor int) {
	j.events = append(j.events, Event{Tick: j.tick, Kind: EventArrival, Floor: floor})
}

func (j *Journal) OnDoorsOpen(floor int) {
	j.events = append(j.events, Event{Tick: j.tick, Kind: EventDoorsOpen, Floor: floor})
}

func (j *Journal) OnDoorsClose(floor int) {
	j.events = append(j.events, Event{Tick: j.tick, Kind: EventDoorsClose, Floor: floor})
}

func (j *Journal) OnBoard(p *elevator.Passenger) {
	j.events = append(j.events, Event{Tick: j.tick, Kind: EventBoard, Floor: j.floor(), Passenger: p.ID.String()})
}

func (j *Journal) OnAlight(p *elevator.Passenger) {
	j.events = append(j.events, Event{Tick: j.tick, Kind: EventAlight, Floor: j.floor(), Passenger: p.ID.String()})
}
