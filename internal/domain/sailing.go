// Package domain contains the core data types for the cruise decision API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Sailing represents one scheduled cruise departure/return pair for a ship.
// Sailings are created and updated by an external ingestion process; this
// service only reads them.
//
// Invariant: ReturnDate >= DepartDate and Nights is the day difference
// between the two. Both are stored; the ingestion side keeps them consistent.
type Sailing struct {
	ID              uuid.UUID `json:"id"`
	CruiseLine      string    `json:"cruise_line"`
	ShipID          uuid.UUID `json:"ship_id"`
	DeparturePort   string    `json:"departure_port"`
	DepartDate      time.Time `json:"depart_date"`
	ReturnDate      time.Time `json:"return_date"`
	Nights          int       `json:"nights"`
	CabinsAvailable *int      `json:"cabins_available,omitempty"` // nil when no live inventory feed
	Active          bool      `json:"active"`
}

// DaysUntilDeparture returns the whole number of days between now and the
// sailing's departure. Negative when the sailing has already departed.
func (s Sailing) DaysUntilDeparture(now time.Time) int {
	return int(s.DepartDate.Sub(now).Hours() / 24)
}

// Ship is the vessel a sailing runs on. Many sailings share one ship.
type Ship struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	CruiseLine string    `json:"cruise_line"`
}

// PricingSnapshot is a point-in-time price observation for a sailing.
// Multiple snapshots accumulate per sailing; only the most recent by AsOf
// matters for scoring.
type PricingSnapshot struct {
	SailingID    uuid.UUID `json:"sailing_id"`
	MinPerPerson float64   `json:"min_per_person"`
	AsOf         time.Time `json:"as_of"`
}

// LatestPrice is a sailing's pricing already resolved to the most recent
// snapshot. This is what the data provider hands the scoring engine.
type LatestPrice struct {
	MinPerPerson float64   `json:"min_per_person"`
	AsOf         time.Time `json:"as_of"`
}

// Override is an administrative flag on a sailing that bypasses normal
// scoring. Disabled sailings are excluded from results entirely; force-review
// sailings are included with a risk penalty and an advisory flag.
type Override struct {
	SailingID   uuid.UUID `json:"sailing_id"`
	Disabled    bool      `json:"disabled"`
	ForceReview bool      `json:"force_review"`
	Note        string    `json:"note,omitempty"`
}
