package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// CalendarService assembles display-ready calendar entries: raw
// sailing/ship/pricing records merged with the decision engine's scores.
type CalendarService struct {
	engine *DecisionEngine
}

// NewCalendarService constructs a CalendarService on top of the engine.
func NewCalendarService(engine *DecisionEngine) *CalendarService {
	return &CalendarService{engine: engine}
}

// BuildEntries runs the full decision engine for the input (uncapped, so
// every candidate gets a score) and merges the results onto sailing records.
//
// Sailings without a resolvable depart date are dropped as a data integrity
// guard, and disabled sailings never appear because the engine filtered them.
// Entries come back sorted ascending by depart date — calendar order, not
// ranking order.
func (s *CalendarService) BuildEntries(ctx context.Context, input domain.CruiseDecisionInput) ([]domain.CalendarEntry, error) {
	// The calendar is a browse surface for the one supported port; an empty
	// port means "the home port" rather than a validation failure.
	if strings.TrimSpace(input.DeparturePort) == "" {
		input.DeparturePort = s.engine.homePort
	}

	ev, err := s.engine.Evaluate(ctx, input, RunOptions{})
	if err != nil {
		return nil, fmt.Errorf("service.CalendarService.BuildEntries: %w", err)
	}

	resultByID := make(map[uuid.UUID]domain.DecisionResult, len(ev.Results))
	for _, r := range ev.Results {
		resultByID[r.SailingID] = r
	}

	entries := make([]domain.CalendarEntry, 0, len(ev.Sailings))
	for _, sl := range ev.Sailings {
		if sl.DepartDate.IsZero() {
			continue
		}
		res, ok := resultByID[sl.ID]
		if !ok {
			continue // filtered out by the engine (disabled override)
		}

		// Missing ship metadata is not an error; fall back to the line name.
		shipName := sl.CruiseLine
		if ship, found := ev.Ships[sl.ShipID]; found && ship.Name != "" {
			shipName = ship.Name
		}

		nights := sl.Nights
		entry := domain.CalendarEntry{
			SailingID:     sl.ID,
			CruiseLine:    sl.CruiseLine,
			ShipName:      shipName,
			DepartDate:    sl.DepartDate,
			ReturnDate:    sl.ReturnDate,
			Nights:        nights,
			Days:          nights + 1,
			DurationLabel: domain.FormatDurationLabel(sl.CruiseLine, &nights),
			DemandTier:    s.engine.policy.DemandTier(res.Components.Demand),
			Score:         res.Score,
			Confidence:    res.Confidence,
			Flags:         res.Flags,
		}
		if lp, found := ev.Pricing[sl.ID]; found {
			price := lp.MinPerPerson
			entry.PriceFrom = &price
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].DepartDate.Equal(entries[j].DepartDate) {
			return entries[i].DepartDate.Before(entries[j].DepartDate)
		}
		return entries[i].SailingID.String() < entries[j].SailingID.String()
	})

	return entries, nil
}
