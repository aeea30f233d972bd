package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/trace"
)

type Meta struct {
	TraceID   string `json:"trace_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Meta    *Meta  `json:"meta,omitempty"`
}

type ElevatorCreateRequest struct {
	Floors   int `json:"floors"`
	Capacity int `json:"capacity"`
}

type PassengerRequest struct {
	Origin      int `json:"origin"`
	Destination int `json:"destination"`
}

type HallCallRequest struct {
	Floor     int    `json:"floor"`
	Direction string `json:"direction"`
}

type StepRequest struct {
	Count int `json:"count"`
}

type PassengerStatus struct {
	ID          string `json:"id"`
	Origin      int    `json:"origin"`
	Destination int    `json:"destination"`
	State       string `json:"state"`
}

type StateResponse struct {
	Floor      int               `json:"floor"`
	Direction  string            `json:"direction"`
	Doors      string            `json:"doors"`
	Phase      string            `json:"phase"`
	Capacity   int               `json:"capacity"`
	Occupancy  int               `json:"occupancy"`
	StopQueue  []int             `json:"stop_queue"`
	Waiting    int               `json:"waiting"`
	Passengers []PassengerStatus `json:"passengers"`
}

func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractMeta(ctx context.Context) *Meta {
	meta := &Meta{}

	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		meta.TraceID = span.SpanContext().TraceID().String()
	}

	if reqID, ok := ctx.Value(RequestIDKey).(string); ok {
		meta.RequestID = reqID
	}

	return meta
}

func WriteSuccess(ctx context.Context, w http.ResponseWriter, message string, data any) {
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Message: message,
		Data:    data,
		Meta:    extractMeta(ctx),
	})
}

func WriteError(ctx context.Context, w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, Response{
		Success: false,
		Error:   message,
		Meta:    extractMeta(ctx),
	})
}
