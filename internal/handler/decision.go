package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
	"github.com/monicap360/ElariaHQ-sub001/internal/service"
)

// decisionRunRequest is the JSON body for POST /api/v1/decision/run.
// Dates are ISO calendar dates ("2006-01-02"). Budget, preferences, and
// constraints are optional.
type decisionRunRequest struct {
	DeparturePort string `json:"departure_port"`
	DateRange     struct {
		Start string `json:"start"`
		End   string `json:"end"`
	} `json:"date_range"`
	Passengers struct {
		Adults   int `json:"adults"`
		Children int `json:"children"`
	} `json:"passengers"`
	Budget *struct {
		MaxPerPerson float64 `json:"max_per_person"`
		Flexible     bool    `json:"flexible"`
	} `json:"budget"`
	Preferences *struct {
		CruiseLines []string `json:"cruise_lines"`
	} `json:"preferences"`
	Constraints *struct {
		FinancingEligible bool `json:"financing_eligible"`
	} `json:"constraints"`
	Limit int `json:"limit"`
}

// RunDecision handles POST /api/v1/decision/run.
// Responds 200 {"results":[...],"weights":{...}}, 422 on invalid input, 500
// on upstream failure. Persisted weight overrides are loaded per request and
// fall back to the baked-in defaults.
func (s *Server) RunDecision(w http.ResponseWriter, r *http.Request) {
	var req decisionRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if req.Limit < 0 {
		writeBadRequest(w, "limit must not be negative")
		return
	}

	input, err := req.toInput()
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	weights, err := s.loadWeights(r)
	if err != nil {
		writeError(w, err)
		return
	}

	outcome, err := s.decisions.Run(r.Context(), input, service.RunOptions{
		Weights: &weights,
		Limit:   req.Limit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, outcome)
}

// GetWeights handles GET /api/v1/decision/weights.
// Returns the persisted override, or the baked-in defaults when none is set.
func (s *Server) GetWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := s.loadWeights(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, weights)
}

// PutWeights handles PUT /api/v1/decision/weights.
// The body is a full five-factor weight set; partial updates are not
// supported. Invalid weights (negative, or all zero) are rejected with 422.
func (s *Server) PutWeights(w http.ResponseWriter, r *http.Request) {
	var weights domain.DecisionWeights
	if err := json.NewDecoder(r.Body).Decode(&weights); err != nil {
		writeBadRequest(w, "request body must be valid JSON")
		return
	}
	if err := weights.Validate(); err != nil {
		writeError(w, err)
		return
	}

	saved, err := s.weights.Save(r.Context(), weights)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// loadWeights returns the persisted weights override, falling back to the
// defaults when none has been saved yet.
func (s *Server) loadWeights(r *http.Request) (domain.DecisionWeights, error) {
	weights, err := s.weights.Get(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.DefaultWeights(), nil
		}
		return domain.DecisionWeights{}, err
	}
	return weights, nil
}

// toInput converts the wire request into a domain input, parsing dates.
// Empty date strings pass through as zero times so the engine reports the
// missing-range validation error with its canonical message.
func (req decisionRunRequest) toInput() (domain.CruiseDecisionInput, error) {
	input := domain.CruiseDecisionInput{
		DeparturePort: req.DeparturePort,
		Passengers: domain.Passengers{
			Adults:   req.Passengers.Adults,
			Children: req.Passengers.Children,
		},
	}

	var err error
	if input.DateRange.Start, err = parseDate(req.DateRange.Start); err != nil {
		return domain.CruiseDecisionInput{}, fmt.Errorf("date_range.start: %w", err)
	}
	if input.DateRange.End, err = parseDate(req.DateRange.End); err != nil {
		return domain.CruiseDecisionInput{}, fmt.Errorf("date_range.end: %w", err)
	}

	if req.Budget != nil {
		input.Budget = &domain.Budget{
			MaxPerPerson: req.Budget.MaxPerPerson,
			Flexible:     req.Budget.Flexible,
		}
	}
	if req.Preferences != nil {
		input.Preferences = &domain.Preferences{CruiseLines: req.Preferences.CruiseLines}
	}
	if req.Constraints != nil {
		input.Constraints = &domain.Constraints{FinancingEligible: req.Constraints.FinancingEligible}
	}

	return input, nil
}

// parseDate parses an ISO calendar date. Empty input yields a zero time.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("must be a YYYY-MM-DD date")
	}
	return t, nil
}
