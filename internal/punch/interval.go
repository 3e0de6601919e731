package punch

import "time"

// Interval is a candidate or stored punch window. A nil TimeOut means the
// worker is still clocked in: the interval is open-ended and occupies all
// time from TimeIn onward for overlap purposes.
type Interval struct {
	TimeIn  time.Time
	TimeOut *time.Time
}

// Valid reports whether a closed interval ends strictly after it starts.
// Open intervals are always valid.
func (iv Interval) Valid() bool {
	return iv.TimeOut == nil || iv.TimeOut.After(iv.TimeIn)
}

// Overlaps reports whether two intervals of the same applicant collide.
// Covers all four arrangements: either start inside the other, either
// strictly containing the other. Boundaries are half-open, so an interval
// ending exactly when the other starts does not overlap. Symmetric.
func Overlaps(a, b Interval) bool {
	if a.TimeOut != nil && !a.TimeOut.After(b.TimeIn) {
		return false
	}
	if b.TimeOut != nil && !b.TimeOut.After(a.TimeIn) {
		return false
	}
	return true
}
