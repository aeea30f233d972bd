package elevator

// Direction is the travel direction of the elevator, or the direction a
// passenger intends to travel.
type Direction int

const (
	DirectionDown Direction = -1
	DirectionIdle Direction = 0
	DirectionUp   Direction = 1
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "idle"
	}
}

// DirectionBetween returns the direction of travel from one floor to another.
func DirectionBetween(from, to int) Direction {
	switch {
	case to > from:
		return DirectionUp
	case to < from:
		return DirectionDown
	default:
		return DirectionIdle
	}
}

// DoorState reports whether the car doors are open or closed.
type DoorState int

const (
	DoorsClosed DoorState = iota
	DoorsOpen
)

func (s DoorState) String() string {
	if s == DoorsOpen {
		return "open"
	}
	return "closed"
}

// Phase is the state of the car's movement state machine. The car cycles
// PhaseIdle -> PhaseMoving -> PhaseDoorsOpen and back, one transition per
// Advance call.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseMoving
	PhaseDoorsOpen
)

func (p Phase) String() string {
	switch p {
	case PhaseMoving:
		return "moving"
	case PhaseDoorsOpen:
		return "doors_open"
	default:
		return "idle"
	}
}
