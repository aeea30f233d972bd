package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"elevator-sim/internal/elevator"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

func NewServer(port string, telemetry *elevator.TelemetryProvider) *Server {
	handler := NewHandler(telemetry)

	r := chi.NewRouter()

	r.Use(RecoveryMiddleware)
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware)
	r.Use(TracingMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api/elevator", func(r chi.Router) {
		r.Post("/", handler.CreateElevator)
		r.Post("/request", handler.RequestTrip)
		r.Post("/call", handler.HallCall)
		r.Post("/step", handler.Step)
		r.Get("/state", handler.GetState)
	})

	r.Post("/api/simulation", handler.RunSimulation)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}
}

func (s *Server) Start() error {
	log.Printf("Starting HTTP server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}

// Router exposes the configured handler tree for tests.
func (s *Server) Router() http.Handler {
	return s.httpServer.Handler
}
