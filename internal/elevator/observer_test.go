package elevator

import (
	"fmt"
	"testing"
)

type namedObserver struct {
	BaseObserver
	name string
	log  *[]string
}

func (o *namedObserver) OnArrival(floor int) {
	*o.log = append(*o.log, fmt.Sprintf("%s arrival %d", o.name, floor))
}

type panickyObserver struct {
	BaseObserver
}

func (panickyObserver) OnArrival(int) {
	panic("observer blew up")
}

func TestObserversNotifiedInRegistrationOrder(t *testing.T) {
	e := New(10, 8)

	var trace []string
	e.Subscribe(&namedObserver{name: "first", log: &trace})
	e.Subscribe(&namedObserver{name: "second", log: &trace})

	e.RequestStop(0, DirectionUp)
	if err := e.Advance(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []string{"first arrival 0", "second arrival 0"}
	if len(trace) != len(expected) {
		t.Fatalf("Expected %v, got %v", expected, trace)
	}
	for i, want := range expected {
		if trace[i] != want {
			t.Errorf("Expected %q at position %d, got %q", want, i, trace[i])
		}
	}
}

func TestObserverPanicDoesNotBlockDelivery(t *testing.T) {
	e := New(10, 8)

	var trace []string
	e.Subscribe(panickyObserver{})
	e.Subscribe(&namedObserver{name: "survivor", log: &trace})

	e.RequestStop(0, DirectionUp)
	if err := e.Advance(); err != nil {
		t.Fatalf("Expected the panic to be isolated, got error: %v", err)
	}

	if len(trace) != 1 || trace[0] != "survivor arrival 0" {
		t.Errorf("Expected delivery to continue past the panicking observer, got %v", trace)
	}
}

func TestBaseObserverIsANoop(t *testing.T) {
	e := New(10, 8)
	e.Subscribe(BaseObserver{})

	e.RequestStop(2, DirectionUp)
	advanceN(t, e, 4)

	if e.Phase() != PhaseIdle {
		t.Errorf("Expected idle car, got %s", e.Phase())
	}
}
