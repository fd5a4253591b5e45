package scheduling

import "time"

// TimeInterval is a half-open time range [Start, End). Times are compared
// as-is; callers are expected to supply them in one canonical location.
type TimeInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTimeInterval(start, end time.Time) (TimeInterval, error) {
	if !end.After(start) {
		return TimeInterval{}, ErrInvalidInterval
	}
	return TimeInterval{Start: start, End: end}, nil
}

func (iv TimeInterval) Valid() bool {
	return iv.End.After(iv.Start)
}

// Overlaps reports whether the two ranges share at least one instant.
// Back-to-back intervals (iv.End == other.Start) do not overlap.
func (iv TimeInterval) Overlaps(other TimeInterval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func (iv TimeInterval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Covers reports whether other lies entirely inside iv.
func (iv TimeInterval) Covers(other TimeInterval) bool {
	return !other.Start.Before(iv.Start) && !iv.End.Before(other.End)
}

func (iv TimeInterval) Equal(other TimeInterval) bool {
	return iv.Start.Equal(other.Start) && iv.End.Equal(other.End)
}

// Touches reports whether the two ranges are back-to-back without overlapping.
func (iv TimeInterval) Touches(other TimeInterval) bool {
	return iv.End.Equal(other.Start) || other.End.Equal(iv.Start)
}
