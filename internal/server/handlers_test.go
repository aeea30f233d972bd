package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"elevator-sim/internal/elevator"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	telemetry, err := elevator.NewTelemetryProvider()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = telemetry.Shutdown(context.Background())
	})

	return NewServer("0", telemetry)
}

func doJSON(t *testing.T, srv *Server, method, path string, body any) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "healthy")
}

func TestCreateElevatorValidation(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/elevator", ElevatorCreateRequest{Floors: 1, Capacity: 4})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/elevator", ElevatorCreateRequest{Floors: 10, Capacity: 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)
}

func TestRequestBeforeCreate(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/elevator/request", PassengerRequest{Origin: 0, Destination: 3})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, resp.Error, "not created")
}

func TestElevatorLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/elevator", ElevatorCreateRequest{Floors: 6, Capacity: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/elevator/request", PassengerRequest{Origin: 0, Destination: 3})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/elevator/request", PassengerRequest{Origin: 2, Destination: 2})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/elevator/call", HallCallRequest{Floor: 4, Direction: "down"})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/elevator/call", HallCallRequest{Floor: 4, Direction: "sideways"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)

	// Enough steps to serve floor 0, ride up, and drop the passenger.
	rec, resp = doJSON(t, srv, http.MethodPost, "/api/elevator/step", StepRequest{Count: 12})
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	req := httptest.NewRequest(http.MethodGet, "/api/elevator/state", nil)
	stateRec := httptest.NewRecorder()
	srv.Router().ServeHTTP(stateRec, req)
	require.Equal(t, http.StatusOK, stateRec.Code)

	var stateResp struct {
		Success bool          `json:"success"`
		Data    StateResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(stateRec.Body).Decode(&stateResp))
	require.True(t, stateResp.Success)
	require.LessOrEqual(t, stateResp.Data.Occupancy, stateResp.Data.Capacity)
}

func TestRunSimulationEndpoint(t *testing.T) {
	srv := newTestServer(t)

	body := map[string]any{
		"floors":      8,
		"capacity":    4,
		"probability": 0.4,
		"ticks":       100,
		"seed":        42,
	}

	rec, resp := doJSON(t, srv, http.MethodPost, "/api/simulation", body)
	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)

	rec, resp = doJSON(t, srv, http.MethodPost, "/api/simulation", map[string]any{
		"floors": 8, "capacity": 4, "probability": 2.0, "ticks": 100,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, resp.Success)
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}
