package tracking

import (
	"fmt"
	"time"
)

// dateLayouts are the accepted incoming date formats, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// DateNormalizer re-expresses incoming dates as calendar-day strings in one
// fixed time zone. Closure ranges use the same representation, so after
// normalization every range check is a plain string comparison and the
// client's local zone or time-of-day component cannot shift the day.
type DateNormalizer struct {
	loc *time.Location
}

// NewDateNormalizer loads the configured zone.
func NewDateNormalizer(timezone string) (*DateNormalizer, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", timezone, err)
	}
	return &DateNormalizer{loc: loc}, nil
}

// Normalize parses a raw date and returns it as YYYY-MM-DD in the fixed
// zone. Returns ErrInvalidDate for anything unparsable.
func (n *DateNormalizer) Normalize(raw string) (string, error) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}
		// Date-only input carries no zone; interpret it as already being
		// a day in the fixed zone instead of shifting it through UTC.
		if layout == "2006-01-02" {
			return t.Format("2006-01-02"), nil
		}
		return t.In(n.loc).Format("2006-01-02"), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDate, raw)
}
