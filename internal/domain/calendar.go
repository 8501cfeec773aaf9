package domain

import (
	"time"

	"github.com/google/uuid"
)

// DemandTier is the coarse demand bucket shown on the calendar.
type DemandTier string

const (
	TierLow    DemandTier = "low"
	TierMedium DemandTier = "medium"
	TierHigh   DemandTier = "high"
)

// CalendarEntry is a display-ready sailing for the calendar view: raw
// sailing/ship/pricing data merged with the decision engine's scores.
// PriceFrom is nil when the sailing has no pricing snapshot.
type CalendarEntry struct {
	SailingID     uuid.UUID  `json:"sailing_id"`
	CruiseLine    string     `json:"cruise_line"`
	ShipName      string     `json:"ship_name"`
	DepartDate    time.Time  `json:"depart_date"`
	ReturnDate    time.Time  `json:"return_date"`
	Nights        int        `json:"nights"`
	Days          int        `json:"days"` // nights+1, the Carnival counting convention
	DurationLabel string     `json:"duration_label"`
	DemandTier    DemandTier `json:"demand_tier"`
	PriceFrom     *float64   `json:"price_from,omitempty"`
	Score         float64    `json:"score"`
	Confidence    float64    `json:"confidence"`
	Flags         []string   `json:"flags,omitempty"`
}
