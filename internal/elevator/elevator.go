package elevator

import (
	"errors"
	"sort"

	"github.com/google/uuid"
)

// hallKey identifies one group of waiting passengers: the floor they wait on
// and the direction they intend to travel.
type hallKey struct {
	floor     int
	direction Direction
}

// Elevator is a single car serving a building of floors numbered
// 0..floors-1. It owns the stop queue, the occupants and the registry of
// waiting passengers, and advances one discrete step at a time. All methods
// are synchronous and must be called serially.
type Elevator struct {
	floors   int
	capacity int

	currentFloor int
	direction    Direction
	doors        DoorState
	phase        Phase

	queue     []int
	occupants map[uuid.UUID]*Passenger
	waiting   map[hallKey][]*Passenger
	observers observerSet
}

// New creates an idle elevator at floor 0 with closed doors.
func New(floors, capacity int) *Elevator {
	if floors < 2 {
		floors = 2
	}
	if capacity < 1 {
		capacity = 1
	}
	return &Elevator{
		floors:    floors,
		capacity:  capacity,
		direction: DirectionIdle,
		doors:     DoorsClosed,
		phase:     PhaseIdle,
		occupants: make(map[uuid.UUID]*Passenger),
		waiting:   make(map[hallKey][]*Passenger),
	}
}

// Subscribe attaches an observer. Notifications are delivered in
// subscription order.
func (e *Elevator) Subscribe(o Observer) {
	e.observers.subscribe(o)
}

// RequestStop commits the car to visiting a floor. The stop queue is
// re-sorted under the directional scan policy: floors ahead in the current
// direction of travel are served in sweep order before any floor behind the
// car, which is deferred to the next sweep. Requesting a floor already
// queued is a no-op apart from the notification.
func (e *Elevator) RequestStop(floor int, direction Direction) error {
	if floor < 0 || floor >= e.floors {
		return ErrFloorOutOfRange
	}
	e.enqueue(floor)
	e.observers.notify(func(o Observer) { o.OnRequest(floor, direction) })
	return nil
}

// Request files a passenger's pickup request: the passenger joins the
// waiting registry at their origin floor and the origin becomes a committed
// stop. Boarding happens when the car opens its doors there with capacity
// to spare.
func (e *Elevator) Request(p *Passenger) error {
	if p.Origin == p.Destination {
		return ErrInvalidRequest
	}
	if p.Destination < 0 || p.Destination >= e.floors {
		return ErrFloorOutOfRange
	}
	if err := e.RequestStop(p.Origin, p.Direction()); err != nil {
		return err
	}
	key := hallKey{floor: p.Origin, direction: p.Direction()}
	e.waiting[key] = append(e.waiting[key], p)
	return nil
}

// Advance runs one discrete step of the movement and door state machine.
// An empty-queue idle step is a no-op and fires no notifications. The only
// error it can return is an InvariantError, which indicates a logic defect;
// the step is aborted in that case.
func (e *Elevator) Advance() error {
	if err := e.checkInvariants(); err != nil {
		return err
	}

	switch e.phase {
	case PhaseIdle:
		if len(e.queue) == 0 {
			return nil
		}
		if e.queue[0] == e.currentFloor {
			// A stop requested at the car's own floor is served
			// immediately, without a movement step.
			e.arrive()
			return nil
		}
		e.direction = DirectionBetween(e.currentFloor, e.queue[0])
		e.sortQueue()
		e.phase = PhaseMoving
		return nil

	case PhaseMoving:
		return e.step()

	case PhaseDoorsOpen:
		return e.exchange()
	}
	return nil
}

// step moves the car one floor toward the head of the stop queue.
func (e *Elevator) step() error {
	if len(e.queue) == 0 {
		return invariantViolation("moving with an empty stop queue")
	}
	if e.doors == DoorsOpen {
		return invariantViolation("doors open while moving")
	}

	e.direction = DirectionBetween(e.currentFloor, e.queue[0])
	switch e.direction {
	case DirectionUp:
		e.currentFloor = min(e.currentFloor+1, e.floors-1)
	case DirectionDown:
		e.currentFloor = max(e.currentFloor-1, 0)
	}

	if e.currentFloor == e.queue[0] {
		e.arrive()
	}
	return nil
}

// arrive pops the reached stop off the queue and opens the door phase.
func (e *Elevator) arrive() {
	floor := e.queue[0]
	e.queue = e.queue[1:]
	e.phase = PhaseDoorsOpen
	e.doors = DoorsOpen
	e.observers.notify(func(o Observer) { o.OnArrival(floor) })
}

// exchange handles one doors-open stop: occupants bound for this floor
// alight first, so the capacity they free is usable by boarders in the same
// step; then waiting passengers travelling with the car board while capacity
// allows. A group travelling against the departure direction boards anyway
// when no committed stop lies past this floor in the travel direction: the
// sweep reverses here, and deferring them would strand the car shuttling
// between two re-queued turnaround floors. Anyone left behind stays waiting
// and the floor is re-queued into the next sweep.
func (e *Elevator) exchange() error {
	floor := e.currentFloor
	travel := e.direction
	e.observers.notify(func(o Observer) { o.OnDoorsOpen(floor) })

	for _, p := range e.arrivalsAt(floor) {
		if err := e.alight(p); err != nil {
			return err
		}
	}

	// The direction the car is about to adopt decides who may board.
	serveDir := DirectionIdle
	if len(e.queue) > 0 {
		serveDir = DirectionBetween(floor, e.queue[0])
	}

	revisit := false
	for _, d := range []Direction{DirectionUp, DirectionDown} {
		// Boarding commits destinations, so a stop that began with an
		// empty queue adopts the first boarder's direction.
		if serveDir == DirectionIdle && len(e.queue) > 0 {
			serveDir = DirectionBetween(floor, e.queue[0])
		}
		if travel == DirectionIdle {
			travel = serveDir
		}

		key := hallKey{floor: floor, direction: d}
		pending := e.waiting[key]
		if len(pending) == 0 {
			continue
		}
		if serveDir != DirectionIdle && d != serveDir && e.stopBeyond(floor, travel) {
			// Opposite-direction riders wait for the next sweep unless
			// the sweep reverses at this floor.
			revisit = true
			continue
		}

		var left []*Passenger
		for _, p := range pending {
			err := e.board(p)
			if errors.Is(err, ErrBoardingDenied) {
				left = append(left, p)
				revisit = true
				continue
			}
			if err != nil {
				return err
			}
		}
		if len(left) == 0 {
			delete(e.waiting, key)
		} else {
			e.waiting[key] = left
		}
	}

	e.doors = DoorsClosed
	e.observers.notify(func(o Observer) { o.OnDoorsClose(floor) })

	if len(e.queue) == 0 {
		e.direction = DirectionIdle
		e.phase = PhaseIdle
	} else {
		e.direction = DirectionBetween(e.currentFloor, e.queue[0])
		e.phase = PhaseMoving
	}
	// Re-queue only after the departure direction is settled, so the
	// deferred floor sorts into the next sweep instead of becoming the
	// head and stopping the car in place.
	if revisit {
		e.enqueue(floor)
	}
	return nil
}

// board moves a passenger into the car and commits their destination as a
// stop. Capacity overflow is reported as ErrBoardingDenied and leaves the
// passenger untouched.
func (e *Elevator) board(p *Passenger) error {
	if e.doors != DoorsOpen {
		return ErrDoorsClosed
	}
	if e.currentFloor != p.Origin {
		return ErrFloorMismatch
	}
	if len(e.occupants) >= e.capacity {
		return ErrBoardingDenied
	}

	p.state = StateBoarded
	e.occupants[p.ID] = p
	e.enqueue(p.Destination)
	e.observers.notify(func(o Observer) { o.OnBoard(p) })
	return nil
}

// alight moves a passenger out of the car at their destination.
func (e *Elevator) alight(p *Passenger) error {
	if e.doors != DoorsOpen {
		return ErrDoorsClosed
	}
	if _, ok := e.occupants[p.ID]; !ok {
		return ErrPassengerNotFound
	}
	if e.currentFloor != p.Destination {
		return ErrFloorMismatch
	}

	delete(e.occupants, p.ID)
	p.state = StateArrived
	e.observers.notify(func(o Observer) { o.OnAlight(p) })
	return nil
}

// enqueue inserts a floor into the stop queue if absent and re-sorts under
// the scan policy.
func (e *Elevator) enqueue(floor int) {
	for _, f := range e.queue {
		if f == floor {
			return
		}
	}
	e.queue = append(e.queue, floor)
	e.sortQueue()
}

// sortQueue orders the stop queue so that floors reachable without
// reversing come first, in sweep order, and floors behind the car follow in
// next-sweep order. While idle the queue keeps insertion order; the sweep
// direction is adopted from the first pending request when the car starts.
func (e *Elevator) sortQueue() {
	sort.SliceStable(e.queue, func(i, j int) bool {
		return e.sweepKey(e.queue[i]) < e.sweepKey(e.queue[j])
	})
}

// sweepKey ranks a floor for the directional scan: distance ahead of the
// car in its direction of travel, or pushed past every ahead floor when the
// floor lies behind.
func (e *Elevator) sweepKey(floor int) int {
	d := int(e.direction)
	delta := d * (floor - e.currentFloor)
	if delta > 0 {
		return delta
	}
	return -delta + e.floors
}

// stopBeyond reports whether a committed stop lies strictly past the floor
// in the given direction.
func (e *Elevator) stopBeyond(floor int, d Direction) bool {
	for _, f := range e.queue {
		if int(d)*(f-floor) > 0 {
			return true
		}
	}
	return false
}

// checkInvariants verifies the state the scheduler depends on. Any
// violation means a defect in the step logic, not a recoverable condition.
func (e *Elevator) checkInvariants() error {
	seen := make(map[int]bool, len(e.queue))
	for _, f := range e.queue {
		if seen[f] {
			return invariantViolation("duplicate floor %d in stop queue", f)
		}
		seen[f] = true
	}
	if len(e.occupants) > e.capacity {
		return invariantViolation("occupancy %d exceeds capacity %d", len(e.occupants), e.capacity)
	}
	if e.doors == DoorsOpen && e.phase != PhaseDoorsOpen {
		return invariantViolation("doors open outside a stop")
	}
	if e.phase == PhaseMoving && e.direction == DirectionIdle {
		return invariantViolation("moving without a direction")
	}
	return nil
}

// arrivalsAt returns the occupants whose destination is the given floor, in
// a deterministic order.
func (e *Elevator) arrivalsAt(floor int) []*Passenger {
	var out []*Passenger
	for _, p := range e.occupants {
		if p.Destination == floor {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// CurrentFloor returns the floor the car is on.
func (e *Elevator) CurrentFloor() int { return e.currentFloor }

// Floors returns the number of floors the car serves.
func (e *Elevator) Floors() int { return e.floors }

// Capacity returns the maximum number of occupants.
func (e *Elevator) Capacity() int { return e.capacity }

// Direction returns the car's direction of travel.
func (e *Elevator) Direction() Direction { return e.direction }

// Doors returns the door state.
func (e *Elevator) Doors() DoorState { return e.doors }

// Phase returns the state machine phase.
func (e *Elevator) Phase() Phase { return e.phase }

// Occupancy returns the number of passengers in the car.
func (e *Elevator) Occupancy() int { return len(e.occupants) }

// IsFull reports whether the car is at capacity.
func (e *Elevator) IsFull() bool { return len(e.occupants) >= e.capacity }

// Queue returns a copy of the stop queue in visit order.
func (e *Elevator) Queue() []int {
	out := make([]int, len(e.queue))
	copy(out, e.queue)
	return out
}

// Waiting returns the number of passengers still waiting on any floor.
func (e *Elevator) Waiting() int {
	n := 0
	for _, group := range e.waiting {
		n += len(group)
	}
	return n
}

// Passengers returns the occupants in a deterministic order.
func (e *Elevator) Passengers() []*Passenger {
	out := make([]*Passenger, 0, len(e.occupants))
	for _, p := range e.occupants {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}
