package sim

import (
	"context"
	"fmt"
	"math/rand"

	"elevator-sim/internal/elevator"
)

// Config holds the run parameters. The random source is seeded explicitly
// so runs are reproducible; nothing here is process-wide state.
type Config struct {
	Floors      int     `json:"floors"`
	Capacity    int     `json:"capacity"`
	Probability float64 `json:"probability"`
	Ticks       int     `json:"ticks"`
	Seed        int64   `json:"seed"`
}

func (c Config) Validate() error {
	if c.Floors < 2 {
		return fmt.Errorf("floors must be at least 2, got %d", c.Floors)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be positive, got %d", c.Capacity)
	}
	if c.Probability < 0 || c.Probability > 1 {
		return fmt.Errorf("probability must be within [0, 1], got %g", c.Probability)
	}
	if c.Ticks < 1 {
		return fmt.Errorf("ticks must be positive, got %d", c.Ticks)
	}
	return nil
}

// Report summarizes a finished run.
type Report struct {
	Ticks        int     `json:"ticks"`
	Requests     int     `json:"requests"`
	Boardings    int     `json:"boardings"`
	Arrivals     int     `json:"arrivals"`
	StillWaiting int     `json:"still_waiting"`
	StopsServed  int     `json:"stops_served"`
	FinalFloor   int     `json:"final_floor"`
	Events       []Event `json:"events,omitempty"`
}

// Simulation drives a single elevator through a fixed number of discrete
// ticks. On each tick a passenger request is injected with the configured
// probability, then the car advances one step. The simulation is the
// external collaborator: all scheduling decisions stay inside the elevator.
type Simulation struct {
	cfg      Config
	rng      *rand.Rand
	car      *elevator.Elevator
	journal  *Journal
	spawned  []*elevator.Passenger
	requests int
}

// New creates a simulation with its own elevator and journal. Extra
// observers are subscribed after the journal, in the given order.
func New(cfg Config, observers ...elevator.Observer) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	car := elevator.New(cfg.Floors, cfg.Capacity)
	journal := NewJournal(car.CurrentFloor)
	car.Subscribe(journal)
	for _, o := range observers {
		car.Subscribe(o)
	}

	return &Simulation{
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(cfg.Seed)),
		car:     car,
		journal: journal,
	}, nil
}

// Elevator exposes the simulated car, mainly for inspection in tests.
func (s *Simulation) Elevator() *elevator.Elevator {
	return s.car
}

// Journal exposes the recorded event trace.
func (s *Simulation) Journal() *Journal {
	return s.journal
}

// Run executes the configured number of ticks and returns the run report.
// It stops early if the context is cancelled or the elevator reports an
// invariant violation.
func (s *Simulation) Run(ctx context.Context) (Report, error) {
	for tick := 0; tick < s.cfg.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return s.report(tick), ctx.Err()
		default:
		}

		s.journal.SetTick(tick)

		if s.rng.Float64() < s.cfg.Probability {
			if err := s.spawnRequest(); err != nil {
				return s.report(tick), err
			}
		}

		if err := s.car.Advance(); err != nil {
			return s.report(tick), err
		}
	}
	return s.report(s.cfg.Ticks), nil
}

// spawnRequest generates one random passenger and files their request.
func (s *Simulation) spawnRequest() error {
	origin := s.rng.Intn(s.cfg.Floors)
	destination := s.rng.Intn(s.cfg.Floors)
	for destination == origin {
		destination = s.rng.Intn(s.cfg.Floors)
	}

	p, err := elevator.NewPassenger(origin, destination)
	if err != nil {
		return err
	}
	if err := p.Call(s.car); err != nil {
		return err
	}

	s.spawned = append(s.spawned, p)
	s.requests++
	return nil
}

func (s *Simulation) report(ticks int) Report {
	arrived := 0
	for _, p := range s.spawned {
		if p.State() == elevator.StateArrived {
			arrived++
		}
	}
	return Report{
		Ticks:        ticks,
		Requests:     s.requests,
		Boardings:    s.journal.Count(EventBoard),
		Arrivals:     arrived,
		StillWaiting: s.car.Waiting(),
		StopsServed:  s.journal.Count(EventArrival),
		FinalFloor:   s.car.CurrentFloor(),
		Events:       s.journal.Events(),
	}
}
