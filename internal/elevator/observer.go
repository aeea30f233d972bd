package elevator

import "log"

// Observer receives notifications as the elevator changes state. Callbacks
// are invoked synchronously, in registration order, after the state change
// they report has been applied. Observers cannot veto or mutate elevator
// state; a panic in one observer does not prevent delivery to the rest.
type Observer interface {
	OnRequest(floor int, direction Direction)
	OnArrival(floor int)
	OnDoorsOpen(floor int)
	OnDoorsClose(floor int)
	OnBoard(p *Passenger)
	OnAlight(p *Passenger)
}

// BaseObserver is a no-op Observer. Embed it to implement only the
// callbacks of interest.
type BaseObserver struct{}

func (BaseObserver) OnRequest(int, Direction) {}
func (BaseObserver) OnArrival(int)            {}
func (BaseObserver) OnDoorsOpen(int)          {}
func (BaseObserver) OnDoorsClose(int)         {}
func (BaseObserver) OnBoard(*Passenger)       {}
func (BaseObserver) OnAlight(*Passenger)      {}

// observerSet fans a notification out to every subscribed observer,
// isolating panics so one misbehaving observer cannot starve the others.
type observerSet struct {
	observers []Observer
}

func (s *observerSet) subscribe(o Observer) {
	s.observers = append(s.observers, o)
}

func (s *observerSet) notify(fn func(Observer)) {
	for _, o := range s.observers {
		deliver(o, fn)
	}
}

func deliver(o Observer, fn func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Observer panic recovered: %v", r)
		}
	}()
	fn(o)
}

// LogObserver logs every elevator event through the standard logger.
type LogObserver struct{}

func (LogObserver) OnRequest(floor int, direction Direction) {
	log.Printf("Stop requested: floor %d (%s)", floor, direction)
}

func (LogObserver) OnArrival(floor int) {
	log.Printf("Elevator arrived on floor %d", floor)
}

func (LogObserver) OnDoorsOpen(floor int) {
	log.Printf("Doors open on floor %d", floor)
}

func (LogObserver) OnDoorsClose(floor int) {
	log.Printf("Doors closed on floor %d", floor)
}

func (LogObserver) OnBoard(p *Passenger) {
	log.Printf("%s entered the elevator", p)
}

func (LogObserver) OnAlight(p *Passenger) {
	log.Printf("%s left the elevator", p)
}
