// Package interval provides half-open time interval arithmetic for the
// calendar domain. An interval [start, end) includes its start instant and
// excludes its end instant; every overlap decision in the service goes
// through this package so the semantics stay in one place.
package interval

import "time"

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch at a boundary do not
// overlap, and zero-length intervals never overlap anything.
//
// Callers are responsible for supplying ordered intervals (start before end);
// the predicate does not reorder its arguments.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// Range is a half-open time range [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the receiver intersects other.
func (r Range) Overlaps(other Range) bool {
	return Overlaps(r.Start, r.End, other.Start, other.End)
}

// Contains reports whether the instant t falls within the range.
func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.Start) && t.Before(r.End)
}

// IsZeroLength reports whether the range spans no time at all.
func (r Range) IsZeroLength() bool {
	return !r.Start.Before(r.End)
}
