package shared

import (
	"fmt"
	"time"
)

// dateLayouts are tried in order. The Brazilian DD/MM/YYYY form is
// accepted because municipal clerks paste dates straight from paper
// records.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"02/01/2006",
}

// ParseDate parses an incoming date value. Empty input yields the zero
// time and no error so optional fields pass through unchanged.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
