package booking

import (
	"time"

	"shareit/internal/apperr"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) Valid() bool {
	return i.Start.Before(i.End)
}

// Overlaps reports whether two half-open intervals share any instant.
// Touching intervals (one ends where the other starts) do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Covers reports start <= t <= end. Both ends are inclusive to match
// the CURRENT list filter.
func (i Interval) Covers(t time.Time) bool {
	return !t.Before(i.Start) && !t.After(i.End)
}

// ValidateInterval requires a non-empty interval that starts after now.
func ValidateInterval(iv Interval, now time.Time) error {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return apperr.Validation("start and end are required")
	}
	if !iv.Valid() {
		return apperr.Validation("end must be after start")
	}
	if !iv.Start.After(now) {
		return apperr.Validation("start must be in the future")
	}
	return nil
}
