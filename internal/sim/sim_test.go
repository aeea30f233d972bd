package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"elevator-sim/internal/elevator"
)

func TestConfigValidate(t *testing.T) {
	valid := Config{Floors: 10, Capacity: 8, Probability: 0.1, Ticks: 100, Seed: 1}
	require.NoError(t, valid.Validate())

	cases := []struct {
		name string
		cfg  Config
	}{
		{"too few floors", Config{Floors: 1, Capacity: 8, Probability: 0.1, Ticks: 100}},
		{"zero capacity", Config{Floors: 10, Capacity: 0, Probability: 0.1, Ticks: 100}},
		{"negative probability", Config{Floors: 10, Capacity: 8, Probability: -0.1, Ticks: 100}},
		{"probability above one", Config{Floors: 10, Capacity: 8, Probability: 1.5, Ticks: 100}},
		{"zero ticks", Config{Floors: 10, Capacity: 8, Probability: 0.1, Ticks: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Error(t, tc.cfg.Validate())
		})
	}
}

func TestSimulationRun(t *testing.T) {
	cfg := Config{Floors: 8, Capacity: 4, Probability: 0.5, Ticks: 300, Seed: 42}

	simulation, err := New(cfg)
	require.NoError(t, err)

	car := simulation.Elevator()
	report, err := simulation.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, cfg.Ticks, report.Ticks)
	require.Positive(t, report.Requests)
	require.Positive(t, report.StopsServed)
	require.GreaterOrEqual(t, report.Requests, report.Boardings)
	require.GreaterOrEqual(t, report.Boardings, report.Arrivals)
	require.LessOrEqual(t, car.Occupancy(), cfg.Capacity)

	// Everyone is either still waiting, riding, or arrived.
	require.Equal(t, report.Requests, report.StillWaiting+car.Occupancy()+report.Arrivals)
}

func TestSimulationOccupancyNeverExceedsCapacity(t *testing.T) {
	cfg := Config{Floors: 6, Capacity: 2, Probability: 0.8, Ticks: 400, Seed: 7}

	simulation, err := New(cfg)
	require.NoError(t, err)

	car := simulation.Elevator()
	car.Subscribe(&occupancyChecker{t: t, car: car})

	_, err = simulation.Run(context.Background())
	require.NoError(t, err)
}

type occupancyChecker struct {
	elevator.BaseObserver
	t   *testing.T
	car *elevator.Elevator
}

func (c *occupancyChecker) OnBoard(*elevator.Passenger) {
	if c.car.Occupancy() > c.car.Capacity() {
		c.t.Errorf("occupancy %d exceeds capacity %d", c.car.Occupancy(), c.car.Capacity())
	}
}

func TestSimulationDeterministicWithSeed(t *testing.T) {
	cfg := Config{Floors: 10, Capacity: 3, Probability: 0.3, Ticks: 250, Seed: 99}

	first, err := New(cfg)
	require.NoError(t, err)
	firstReport, err := first.Run(context.Background())
	require.NoError(t, err)

	second, err := New(cfg)
	require.NoError(t, err)
	secondReport, err := second.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, firstReport.Requests, secondReport.Requests)
	require.Equal(t, firstReport.Arrivals, secondReport.Arrivals)

	firstEvents := first.Journal().Events()
	secondEvents := second.Journal().Events()
	require.Equal(t, len(firstEvents), len(secondEvents))
	for i := range firstEvents {
		require.Equal(t, firstEvents[i].Tick, secondEvents[i].Tick)
		require.Equal(t, firstEvents[i].Kind, secondEvents[i].Kind)
		require.Equal(t, firstEvents[i].Floor, secondEvents[i].Floor)
	}
}

func TestSimulationCancelledContext(t *testing.T) {
	cfg := Config{Floors: 10, Capacity: 8, Probability: 0.1, Ticks: 1000, Seed: 1}

	simulation, err := New(cfg)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := simulation.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, report.Ticks)
}

func TestJournalRecordsTrace(t *testing.T) {
	car := elevator.New(6, 2)
	journal := NewJournal(car.CurrentFloor)
	car.Subscribe(journal)

	p, err := elevator.NewPassenger(0, 3)
	require.NoError(t, err)
	require.NoError(t, p.Call(car))

	for tick := 0; tick < 6; tick++ {
		journal.SetTick(tick)
		require.NoError(t, car.Advance())
	}

	events := journal.Events()
	require.NotEmpty(t, events)
	require.Equal(t, EventRequest, events[0].Kind)
	require.Equal(t, 1, journal.Count(EventBoard))
	require.Equal(t, 1, journal.Count(EventAlight))
	require.Equal(t, 2, journal.Count(EventArrival))

	// Ticks are monotone non-decreasing along the trace.
	for i := 1; i < len(events); i++ {
		require.GreaterOrEqual(t, events[i].Tick, events[i-1].Tick)
	}
}
