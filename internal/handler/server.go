// Package handler implements the HTTP handlers for the cruise decision API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (decision.go, calendar.go, etc.) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
	"github.com/monicap360/ElariaHQ-sub001/internal/service"
	"github.com/monicap360/ElariaHQ-sub001/spec"
)

// DecisionRunner defines the engine operation the decision handler depends
// on. Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type DecisionRunner interface {
	Run(ctx context.Context, input domain.CruiseDecisionInput, opts service.RunOptions) (service.RunOutcome, error)
}

// CalendarBuilder defines the calendar operation the calendar handler
// depends on.
type CalendarBuilder interface {
	BuildEntries(ctx context.Context, input domain.CruiseDecisionInput) ([]domain.CalendarEntry, error)
}

// ShipLister is the ship lookup surface for UI collaborators. The repo's
// SailingProvider satisfies it directly.
type ShipLister interface {
	AllShips(ctx context.Context) ([]domain.Ship, error)
}

// WeightsStore reads and writes the persisted decision weights override.
type WeightsStore interface {
	Get(ctx context.Context) (domain.DecisionWeights, error)
	Save(ctx context.Context, w domain.DecisionWeights) (domain.DecisionWeights, error)
}

// Server implements all API endpoints. Methods are in domain-specific files
// but all operate on this struct.
type Server struct {
	decisions DecisionRunner
	calendar  CalendarBuilder
	ships     ShipLister
	weights   WeightsStore
}

// NewServer constructs the Server with all its dependencies.
func NewServer(decisions DecisionRunner, calendar CalendarBuilder, ships ShipLister, weights WeightsStore) *Server {
	return &Server{decisions: decisions, calendar: calendar, ships: ships, weights: weights}
}

// Routes returns the API router. Mount it at "/" in main.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(spec.OpenAPI)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/decision/run", s.RunDecision)
		r.Get("/decision/weights", s.GetWeights)
		r.Put("/decision/weights", s.PutWeights)
		r.Get("/calendar", s.GetCalendar)
		r.Get("/ships", s.ListShips)
	})

	return r
}
