package scheduling

import "time"

// TimeSlot is a derived bookable candidate. Never stored, recomputed per
// request from the same inputs.
type TimeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SlotOptions carries the event type knobs that shape candidate generation.
type SlotOptions struct {
	Duration time.Duration
	// Step between candidate starts. Zero falls back to Duration. Candidates
	// are aligned to the start of each open interval, not to a clock grid.
	Interval time.Duration

	MinNotice     time.Duration
	MaxFutureDays int

	BufferBefore time.Duration
	BufferAfter  time.Duration
}

func (o SlotOptions) step() time.Duration {
	if o.Interval > 0 {
		return o.Interval
	}
	return o.Duration
}

// GenerateSlots produces the ordered valid candidates for one day.
//
// open holds the resolved availability intervals for the day, as instants.
// busy holds existing bookings already expanded by their own event type
// buffers. day is the [midnight, next midnight) window of the requested date.
// Every comparison happens on instants; wall-clock math ended at resolution.
func GenerateSlots(open []Interval, opts SlotOptions, busy []Interval, now time.Time, day Interval) []TimeSlot {
	if opts.Duration <= 0 {
		return nil
	}

	floor := now.Add(opts.MinNotice)
	if floor.Before(day.Start) {
		floor = day.Start
	}

	ceiling := day.End
	if opts.MaxFutureDays >= 0 {
		// The horizon counts days on the schedule's calendar, so it is
		// anchored to now as seen in the day's location, not the server's.
		horizon := endOfDay(now.In(day.Start.Location()).AddDate(0, 0, opts.MaxFutureDays))
		if horizon.Before(ceiling) {
			ceiling = horizon
		}
	}

	var slots []TimeSlot
	for _, iv := range open {
		clipped, ok := iv.Clip(floor, ceiling)
		if !ok {
			continue
		}

		// Candidates stay aligned to the open interval's start even when the
		// notice floor cuts into it.
		start := clipped.Start
		if rem := start.Sub(iv.Start) % opts.step(); rem != 0 {
			start = start.Add(opts.step() - rem)
		}

		for ; !start.Add(opts.Duration).After(clipped.End); start = start.Add(opts.step()) {
			candidate := Interval{Start: start, End: start.Add(opts.Duration)}
			if OverlapsAny(candidate.Expand(opts.BufferBefore, opts.BufferAfter), busy) {
				continue
			}
			slots = append(slots, TimeSlot{Start: candidate.Start, End: candidate.End})
		}
	}

	return slots
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}
