package scheduling

import (
	"time"

	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
)

// RuleKind is the explicit discriminant of the availability rule variant.
type RuleKind int

const (
	RuleWeekly RuleKind = iota
	RuleDateOverride
)

const (
	RuleTypeWeekly       = "weekly"
	RuleTypeDateOverride = "date_override"
)

// Rule is the validated, typed form of a stored availability rule.
type Rule struct {
	Kind      RuleKind
	DayOfWeek time.Weekday // weekly variant
	Date      time.Time    // override variant, date at midnight

	// Minutes since local midnight, schedule timezone.
	StartMin int
	EndMin   int

	Available bool
}

// RuleFromModel validates a stored rule into its typed variant. Rules with no
// time range are only legal for unavailable overrides (host closed the date).
func RuleFromModel(m models.AvailabilityRule) (Rule, error) {
	r := Rule{Available: m.IsAvailable}

	switch m.RuleType {
	case RuleTypeWeekly:
		r.Kind = RuleWeekly
		if m.DayOfWeek == nil || *m.DayOfWeek < 0 || *m.DayOfWeek > 6 {
			return Rule{}, httperr.ErrBusiness("invalid_rule_day")
		}
		r.DayOfWeek = time.Weekday(*m.DayOfWeek)
	case RuleTypeDateOverride:
		r.Kind = RuleDateOverride
		if m.SpecificDate == nil {
			return Rule{}, httperr.ErrBusiness("invalid_rule_date")
		}
		r.Date = *m.SpecificDate
	default:
		return Rule{}, httperr.ErrBusiness("invalid_rule_type")
	}

	if m.StartTime == "" && m.EndTime == "" {
		if r.Kind == RuleDateOverride && !r.Available {
			return r, nil
		}
		return Rule{}, httperr.ErrBusiness("invalid_rule_range")
	}

	var err error
	if r.StartMin, err = parseClock(m.StartTime); err != nil {
		return Rule{}, err
	}
	if r.EndMin, err = parseClock(m.EndTime); err != nil {
		return Rule{}, err
	}
	if r.StartMin >= r.EndMin {
		return Rule{}, httperr.ErrBusiness("invalid_rule_range")
	}

	return r, nil
}

// parseClock reads an HH:MM wall-clock value. time.Parse consumes the whole
// input, so trailing text and out-of-range fields are rejected.
func parseClock(hm string) (int, error) {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_rule_time")
	}
	return t.Hour()*60 + t.Minute(), nil
}

// Resolve turns a schedule's rules into the disjoint ordered open intervals
// for one calendar day. day must be midnight of the requested date in the
// schedule's location. Override rules for that exact date replace the weekly
// base set entirely; they never add to it. Zero matching rules means a closed
// day, not an error.
func Resolve(rules []models.AvailabilityRule, day time.Time) ([]Interval, error) {
	loc := day.Location()

	var weekly, overrides []Rule
	for _, m := range rules {
		r, err := RuleFromModel(m)
		if err != nil {
			return nil, err
		}
		switch r.Kind {
		case RuleWeekly:
			if r.DayOfWeek == day.Weekday() && r.Available {
				weekly = append(weekly, r)
			}
		case RuleDateOverride:
			if sameDate(r.Date, day) {
				overrides = append(overrides, r)
			}
		}
	}

	active := weekly
	if len(overrides) > 0 {
		active = nil
		for _, r := range overrides {
			if r.Available {
				active = append(active, r)
			}
		}
	}

	var open []Interval
	for _, r := range active {
		// Local wall-clock anchored on the day; the location's DST rules
		// decide the instant.
		open = append(open, Interval{
			Start: time.Date(day.Year(), day.Month(), day.Day(), r.StartMin/60, r.StartMin%60, 0, 0, loc),
			End:   time.Date(day.Year(), day.Month(), day.Day(), r.EndMin/60, r.EndMin%60, 0, 0, loc),
		})
	}

	return MergeIntervals(open), nil
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
