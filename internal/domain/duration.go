package domain

import (
	"fmt"
	"strings"
)

// FormatDurationLabel maps a cruise line and night count to the marketing
// duration label. Carnival brands itineraries by day count ("7-Day"), every
// other line by night count ("7-Night"). Unknown or zero durations yield
// "TBD".
func FormatDurationLabel(cruiseLine string, nights *int) string {
	if nights == nil || *nights <= 0 {
		return "TBD"
	}
	if strings.Contains(strings.ToLower(cruiseLine), "carnival") {
		return fmt.Sprintf("%d-Day", *nights+1)
	}
	return fmt.Sprintf("%d-Night", *nights)
}
