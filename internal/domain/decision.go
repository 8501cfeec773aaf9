package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateRange is an inclusive calendar date window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Passengers is the traveling party. Adults must be >= 1.
type Passengers struct {
	Adults   int `json:"adults"`
	Children int `json:"children,omitempty"`
}

// Total returns the full party size.
func (p Passengers) Total() int {
	return p.Adults + p.Children
}

// Budget is the caller's per-person price constraint. When Flexible is set,
// sailings over budget take a soft penalty instead of a near-zero score.
type Budget struct {
	MaxPerPerson float64 `json:"max_per_person"`
	Flexible     bool    `json:"flexible,omitempty"`
}

// Preferences holds the caller's soft preferences.
type Preferences struct {
	CruiseLines []string `json:"cruise_lines,omitempty"`
}

// Constraints holds hard eligibility signals the caller supplies.
type Constraints struct {
	FinancingEligible bool `json:"financing_eligible,omitempty"`
}

// CruiseDecisionInput is a caller-supplied recommendation request.
// Budget, Preferences, and Constraints are optional; nil means "no
// constraint of that kind".
type CruiseDecisionInput struct {
	DeparturePort string       `json:"departure_port"`
	DateRange     DateRange    `json:"date_range"`
	Passengers    Passengers   `json:"passengers"`
	Budget        *Budget      `json:"budget,omitempty"`
	Preferences   *Preferences `json:"preferences,omitempty"`
	Constraints   *Constraints `json:"constraints,omitempty"`
}

// ComponentScores are the five per-factor scores, each in [0, 1].
type ComponentScores struct {
	Price      float64 `json:"price"`
	Cabin      float64 `json:"cabin"`
	Preference float64 `json:"preference"`
	Demand     float64 `json:"demand"`
	Risk       float64 `json:"risk"`
}

// DecisionResult is one ranked sailing with its composite score, the
// per-factor breakdown, a confidence estimate, and human-readable flags
// explaining the ranking.
type DecisionResult struct {
	SailingID  uuid.UUID       `json:"sailing_id"`
	Score      float64         `json:"score"`
	Components ComponentScores `json:"components"`
	Confidence float64         `json:"confidence"`
	Flags      []string        `json:"flags"`
}

// Flags attached to decision results. Each is emitted only when the
// underlying condition actually holds.
const (
	FlagOverBudget    = "over budget"
	FlagUnderBudget   = "under budget"
	FlagPreferredLine = "preferred line match"
	FlagHighDemand    = "high demand"
	FlagForceReview   = "flagged for review"
	FlagNoPricing     = "no pricing data"
)

// DecisionWeights are the five non-negative factor weights combined into the
// composite score. Weights need not sum to 1; the engine divides by the
// weight sum at combination time, so scaling all weights by the same positive
// constant leaves rankings unchanged.
type DecisionWeights struct {
	Price      float64 `json:"price"`
	Cabin      float64 `json:"cabin"`
	Preference float64 `json:"preference"`
	Demand     float64 `json:"demand"`
	Risk       float64 `json:"risk"`
}

// DefaultWeights returns the baked-in weighting policy. Deployments override
// it through the persisted weights store, not by editing code.
func DefaultWeights() DecisionWeights {
	return DecisionWeights{
		Price:      0.35,
		Cabin:      0.15,
		Preference: 0.20,
		Demand:     0.15,
		Risk:       0.15,
	}
}

// Sum returns the total of all five weights.
func (w DecisionWeights) Sum() float64 {
	return w.Price + w.Cabin + w.Preference + w.Demand + w.Risk
}

// Validate rejects negative weights and an all-zero weight set, which would
// make the composite score undefined.
func (w DecisionWeights) Validate() error {
	factors := []struct {
		name  string
		value float64
	}{
		{"price", w.Price},
		{"cabin", w.Cabin},
		{"preference", w.Preference},
		{"demand", w.Demand},
		{"risk", w.Risk},
	}
	for _, f := range factors {
		if f.value < 0 {
			return fmt.Errorf("%w: weight %q must not be negative", ErrValidation, f.name)
		}
	}
	if w.Sum() <= 0 {
		return fmt.Errorf("%w: weights must not all be zero", ErrValidation)
	}
	return nil
}
