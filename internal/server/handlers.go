package server

import (
	"encoding/json"
	"net/http"
	"os"
	"sync"

	"elevator-sim/internal/elevator"
	"elevator-sim/internal/sim"
)

func getServiceName() string {
	if name := os.Getenv("OTEL_SERVICE_NAME"); name != "" {
		return name
	}
	return "elevator-sim-service"
}

// Handler serves the elevator API. The core is single-threaded by
// construction, so every operation on the car is serialized behind the
// mutex.
type Handler struct {
	telemetry *elevator.TelemetryProvider
	car       *elevator.InstrumentedElevator
	mu        sync.Mutex
}

func NewHandler(telemetry *elevator.TelemetryProvider) *Handler {
	return &Handler{telemetry: telemetry}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": getServiceName(),
		"meta":    extractMeta(r.Context()),
	})
}

func (h *Handler) CreateElevator(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ElevatorCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Floors < 2 {
		WriteError(ctx, w, http.StatusBadRequest, "Floors must be at least 2")
		return
	}
	if req.Capacity <= 0 {
		WriteError(ctx, w, http.StatusBadRequest, "Capacity must be greater than 0")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	car, err := elevator.NewInstrumentedElevator(req.Floors, req.Capacity, h.telemetry)
	if err != nil {
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to create elevator")
		return
	}

	h.car = car

	WriteSuccess(ctx, w, "Elevator created successfully", map[string]any{
		"floors":   req.Floors,
		"capacity": req.Capacity,
	})
}

func (h *Handler) RequestTrip(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req PassengerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.car == nil {
		WriteError(ctx, w, http.StatusBadRequest, "Elevator not created. Create elevator first")
		return
	}

	p, err := elevator.NewPassenger(req.Origin, req.Destination)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.car.Request(ctx, p); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	WriteSuccess(ctx, w, "Trip requested", map[string]any{
		"passenger_id": p.ID.String(),
		"origin":       p.Origin,
		"destination":  p.Destination,
		"direction":    p.Direction().String(),
	})
}

func (h *Handler) HallCall(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req HallCallRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var direction elevator.Direction
	switch req.Direction {
	case "up":
		direction = elevator.DirectionUp
	case "down":
		direction = elevator.DirectionDown
	default:
		WriteError(ctx, w, http.StatusBadRequest, "Direction must be up or down")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.car == nil {
		WriteError(ctx, w, http.StatusBadRequest, "Elevator not created. Create elevator first")
		return
	}

	if err := h.car.RequestStop(ctx, req.Floor, direction); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	WriteSuccess(ctx, w, "Stop requested", map[string]any{
		"floor":      req.Floor,
		"direction":  direction.String(),
		"stop_queue": h.car.Queue(),
	})
}

func (h *Handler) Step(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req := StepRequest{Count: 1}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}
	if req.Count <= 0 {
		WriteError(ctx, w, http.StatusBadRequest, "Count must be greater than 0")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.car == nil {
		WriteError(ctx, w, http.StatusBadRequest, "Elevator not created. Create elevator first")
		return
	}

	for i := 0; i < req.Count; i++ {
		if err := h.car.Advance(ctx); err != nil {
			WriteError(ctx, w, http.StatusInternalServerError, err.Error())
			return
		}
	}

	WriteSuccess(ctx, w, "Advanced", h.state())
}

func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.car == nil {
		WriteError(ctx, w, http.StatusBadRequest, "Elevator not created. Create elevator first")
		return
	}

	WriteSuccess(ctx, w, "", h.state())
}

func (h *Handler) RunSimulation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var cfg sim.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := cfg.Validate(); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	simulation, err := sim.New(cfg)
	if err != nil {
		WriteError(ctx, w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := simulation.Run(ctx)
	if err != nil {
		WriteError(ctx, w, http.StatusInternalServerError, err.Error())
		return
	}

	WriteSuccess(ctx, w, "Simulation complete", report)
}

// state snapshots the car for API responses. Caller holds the mutex.
func (h *Handler) state() StateResponse {
	occupants := h.car.Passengers()
	passengers := make([]PassengerStatus, 0, len(occupants))
	for _, p := range occupants {
		passengers = append(passengers, PassengerStatus{
			ID:          p.ID.String(),
			Origin:      p.Origin,
			Destination: p.Destination,
			State:       p.State().String(),
		})
	}

	return StateResponse{
		Floor:      h.car.CurrentFloor(),
		Direction:  h.car.Direction().String(),
		Doors:      h.car.Doors().String(),
		Phase:      h.car.Phase().String(),
		Capacity:   h.car.Capacity(),
		Occupancy:  h.car.Occupancy(),
		StopQueue:  h.car.Queue(),
		Waiting:    h.car.Waiting(),
		Passengers: passengers,
	}
}
