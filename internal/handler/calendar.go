package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/monicap360/ElariaHQ-sub001/internal/domain"
)

// GetCalendar handles GET /api/v1/calendar.
//
// Query parameters: start, end (YYYY-MM-DD, required), adults (default 2),
// children, max_per_person, flexible, preferred_lines (comma-separated),
// financing_eligible, port (defaults to the engine's home port via an empty
// value the service resolves).
// Responds 200 {"entries":[...]} sorted ascending by depart date.
func (s *Server) GetCalendar(w http.ResponseWriter, r *http.Request) {
	input, err := calendarInput(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	entries, err := s.calendar.BuildEntries(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]domain.CalendarEntry{"entries": entries})
}

// calendarInput builds a CruiseDecisionInput from calendar query parameters.
// The calendar is a browse surface, so party size defaults to two adults
// when absent; explicitly supplied values are still validated by the engine.
func calendarInput(r *http.Request) (domain.CruiseDecisionInput, error) {
	q := r.URL.Query()

	input := domain.CruiseDecisionInput{
		DeparturePort: q.Get("port"),
		Passengers:    domain.Passengers{Adults: 2},
	}

	var err error
	if input.DateRange.Start, err = parseDate(q.Get("start")); err != nil {
		return domain.CruiseDecisionInput{}, fmt.Errorf("start: %w", err)
	}
	if input.DateRange.End, err = parseDate(q.Get("end")); err != nil {
		return domain.CruiseDecisionInput{}, fmt.Errorf("end: %w", err)
	}

	if v := q.Get("adults"); v != "" {
		if input.Passengers.Adults, err = strconv.Atoi(v); err != nil {
			return domain.CruiseDecisionInput{}, fmt.Errorf("adults: must be an integer")
		}
	}
	if v := q.Get("children"); v != "" {
		if input.Passengers.Children, err = strconv.Atoi(v); err != nil {
			return domain.CruiseDecisionInput{}, fmt.Errorf("children: must be an integer")
		}
	}

	if v := q.Get("max_per_person"); v != "" {
		maxPP, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return domain.CruiseDecisionInput{}, fmt.Errorf("max_per_person: must be a number")
		}
		input.Budget = &domain.Budget{
			MaxPerPerson: maxPP,
			Flexible:     parseBool(q.Get("flexible")),
		}
	}

	if v := q.Get("preferred_lines"); v != "" {
		var lines []string
		for _, line := range strings.Split(v, ",") {
			if t := strings.TrimSpace(line); t != "" {
				lines = append(lines, t)
			}
		}
		if len(lines) > 0 {
			input.Preferences = &domain.Preferences{CruiseLines: lines}
		}
	}

	if parseBool(q.Get("financing_eligible")) {
		input.Constraints = &domain.Constraints{FinancingEligible: true}
	}

	return input, nil
}

// parseBool accepts the usual truthy query spellings.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
