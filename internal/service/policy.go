// Package service contains the business logic for the cruise decision API:
// the scoring engine and the calendar entry builder. Services validate
// inputs, enforce business rules, and orchestrate provider calls. No SQL
// lives here — services depend on repo interfaces, not implementations.
package service

import (
	"math"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// ScorePolicy collects every numeric constant the scoring engine uses.
// The business rules behind these numbers are expected to evolve
// independently of the engine's structure, so they live here as one
// inspectable, overridable value instead of magic numbers in the math.
type ScorePolicy struct {
	// NeutralPrice is the price component when the caller gave no budget.
	NeutralPrice float64
	// MissingPrice is the price component when a budget was given but the
	// sailing has no pricing snapshot. Below neutral: unknown price under a
	// budget constraint is genuine uncertainty, not a pass.
	MissingPrice float64
	// UnderBudgetSpread shapes the in-budget score: a sailing priced exactly
	// at the budget scores 1-spread, and the score rises linearly to 1.0 as
	// the price falls toward zero.
	UnderBudgetSpread float64
	// FlexibleBase/FlexibleDecay shape the soft over-budget penalty when the
	// budget is flexible: base * exp(-decay * overage/budget).
	FlexibleBase  float64
	FlexibleDecay float64
	// StrictBase/StrictDecay shape the over-budget penalty for a strict
	// budget. Low but nonzero, and strictly decreasing in the overage.
	StrictBase  float64
	StrictDecay float64

	// NeutralCabin is the cabin component when no inventory signal exists.
	// CabinSaturation controls how quickly the component approaches 1.0 as
	// available cabins outgrow the party's cabin need (double occupancy).
	NeutralCabin    float64
	CabinSaturation float64

	// NeutralPreference is the preference component when the caller gave no
	// preferred lines. PreferenceMiss applies when a preference list was
	// given and the sailing's line is not on it.
	NeutralPreference float64
	PreferenceMiss    float64

	// Demand breakpoints, in days until departure, and the tier scores they
	// map to. Sailings departing within HighWithinDays score DemandHigh,
	// within MediumWithinDays score DemandMedium, everything further out
	// scores DemandLow.
	DemandHighWithinDays   int
	DemandMediumWithinDays int
	DemandHigh             float64
	DemandMedium           float64
	DemandLow              float64

	// TierHigh/TierMedium are the demand-component thresholds the calendar
	// uses to bucket sailings into high/medium/low tiers. They sit between
	// the tier scores above so engine and calendar can never disagree.
	TierHigh   float64
	TierMedium float64

	// ForceReviewRisk is the risk component for sailings flagged for manual
	// review. Unflagged sailings score 1.0.
	ForceReviewRisk float64

	// UnderBudgetRatio is the price/budget ratio at or below which a sailing
	// earns the "under budget" flag.
	UnderBudgetRatio float64

	// Confidence shaping: start from BaseConfidence and subtract penalties
	// for missing pricing, a small candidate pool, and near-tied neighbors
	// in the final ranking.
	BaseConfidence      float64
	MissingPricePenalty float64
	SmallPoolSize       int
	SmallPoolPenalty    float64
	TieMargin           float64
	TiePenalty          float64
}

// DefaultScorePolicy returns the reference scoring policy. The demand
// breakpoints are a documented default, not a discovered ground truth — real
// demand signals are expected to replace them eventually.
func DefaultScorePolicy() ScorePolicy {
	return ScorePolicy{
		NeutralPrice:      0.5,
		MissingPrice:      0.4,
		UnderBudgetSpread: 0.4,
		FlexibleBase:      0.45,
		FlexibleDecay:     1.5,
		StrictBase:        0.15,
		StrictDecay:       3.0,

		NeutralCabin:    0.5,
		CabinSaturation: 4.0,

		NeutralPreference: 0.5,
		PreferenceMiss:    0.1,

		DemandHighWithinDays:   30,
		DemandMediumWithinDays: 120,
		DemandHigh:             0.85,
		DemandMedium:           0.55,
		DemandLow:              0.25,

		TierHigh:   0.70,
		TierMedium: 0.45,

		ForceReviewRisk: 0.3,

		UnderBudgetRatio: 0.8,

		BaseConfidence:      0.9,
		MissingPricePenalty: 0.25,
		SmallPoolSize:       3,
		SmallPoolPenalty:    0.15,
		TieMargin:           0.02,
		TiePenalty:          0.1,
	}
}

// DemandTier buckets a demand component score into the display tier.
func (p ScorePolicy) DemandTier(demand float64) domain.DemandTier {
	switch {
	case demand >= p.TierHigh:
		return domain.TierHigh
	case demand >= p.TierMedium:
		return domain.TierMedium
	default:
		return domain.TierLow
	}
}

// clamp01 bounds v to [0, 1].
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
