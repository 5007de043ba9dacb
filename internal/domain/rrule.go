package domain

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// rruleWeekdays maps Monday-first weekdays onto RFC 5545 weekday codes.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA, rrule.SU,
}

// RRule renders the repetition as an RFC 5545 recurrence rule anchored
// at the given start date, for embedding in exported calendar events.
func (r Repetition) RRule(start SimpleDate) (string, error) {
	opt := rrule.ROption{
		Dtstart:  start.Time(time.UTC),
		Interval: 1,
	}

	switch d := r.Delta.(type) {
	case DayDelta:
		opt.Freq = rrule.DAILY
		opt.Interval = d.Nth
	case WeekDelta:
		opt.Freq = rrule.WEEKLY
		opt.Interval = d.Nth
		for _, day := range d.On {
			opt.Byweekday = append(opt.Byweekday, rruleWeekdays[day])
		}
	case MonthDeltaDate:
		opt.Freq = rrule.MONTHLY
		opt.Interval = d.Nth
		opt.Bymonthday = d.Days
	case MonthDeltaWeek:
		opt.Freq = rrule.MONTHLY
		opt.Interval = d.Nth
		opt.Byweekday = []rrule.Weekday{rruleWeekdays[d.Day].Nth(d.WeekID + 1)}
	case YearDelta:
		opt.Freq = rrule.YEARLY
		opt.Interval = d.Nth
	default:
		return "", fmt.Errorf("unknown rep delta %T", r.Delta)
	}

	switch e := r.End.(type) {
	case EndNever:
		// unbounded
	case EndAfter:
		opt.Count = e.N
	case EndOnDate:
		opt.Until = e.Date.Time(time.UTC)
	default:
		return "", fmt.Errorf("unknown rep end %T", r.End)
	}

	if _, err := rrule.NewRRule(opt); err != nil {
		return "", fmt.Errorf("build rrule: %w", err)
	}

	return opt.RRuleString(), nil
}
