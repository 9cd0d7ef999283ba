package scheduling

import (
	"sort"
	"time"
)

// Interval is a half-open time range [Start, End) on absolute instants.
type Interval struct {
	Start time.Time
	End   time.Time
}

func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Overlaps uses half-open semantics: [a,b) and [b,c) do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && other.Start.Before(iv.End)
}

func (iv Interval) Contains(other Interval) bool {
	return !other.Start.Before(iv.Start) && !other.End.After(iv.End)
}

// Expand widens the interval by the event type's buffers. The overlap
// invariant between bookings is always checked on expanded intervals.
func (iv Interval) Expand(before, after time.Duration) Interval {
	return Interval{
		Start: iv.Start.Add(-before),
		End:   iv.End.Add(after),
	}
}

// Clip bounds the interval to [floor, ceiling). The second return is false
// when nothing of the interval survives.
func (iv Interval) Clip(floor, ceiling time.Time) (Interval, bool) {
	out := iv
	if out.Start.Before(floor) {
		out.Start = floor
	}
	if out.End.After(ceiling) {
		out.End = ceiling
	}
	if !out.IsValid() {
		return Interval{}, false
	}
	return out, true
}

// MergeIntervals sorts by start and coalesces overlapping or adjacent ranges
// into a disjoint ordered set.
func MergeIntervals(intervals []Interval) []Interval {
	if len(intervals) == 0 {
		return nil
	}

	sorted := make([]Interval, len(intervals))
	copy(sorted, intervals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	merged := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &merged[len(merged)-1]
		if !iv.Start.After(last.End) {
			if iv.End.After(last.End) {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func OverlapsAny(iv Interval, busy []Interval) bool {
	for _, b := range busy {
		if iv.Overlaps(b) {
			return true
		}
	}
	return false
}
