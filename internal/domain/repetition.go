package domain

import (
	"fmt"
	"strings"
)

// maxDate is the sentinel returned when a repetition never ends.
var maxDate = SimpleDate{Year: 9999, Month: 12, Day: 31}

// RepDelta is one step of a recurring schedule. The concrete types are
// DayDelta, WeekDelta, MonthDeltaDate, MonthDeltaWeek and YearDelta.
type RepDelta interface {
	advance(from SimpleDate) SimpleDate
	String() string
}

// RepEnd terminates a repeating schedule. The concrete types are
// EndNever, EndOnDate and EndAfter.
type RepEnd interface {
	repEnd()
	String() string
}

// Repetition is a full recurrence rule: a step delta plus an end
// condition. Treated as immutable once built.
type Repetition struct {
	Delta RepDelta
	End   RepEnd
}

// DayDelta repeats every Nth day.
type DayDelta struct {
	Nth int
}

// WeekDelta repeats every Nth week on the given weekdays. On is never
// empty; its last entry anchors where a step lands within the week.
type WeekDelta struct {
	Nth int
	On  []Weekday
}

// MonthDeltaDate repeats every Nth month on fixed days of the month,
// e.g. "every 3 months on the 15th".
type MonthDeltaDate struct {
	Nth  int
	Days []int
}

// MonthDeltaWeek repeats every Nth month on an ordinal weekday,
// e.g. "every 2 months on the 2nd Monday". WeekID is zero-based
// (0 = first ... 4 = fifth).
type MonthDeltaWeek struct {
	Nth    int
	WeekID int
	Day    Weekday
}

// YearDelta repeats every Nth year.
type YearDelta struct {
	Nth int
}

// EndNever keeps the schedule open-ended.
type EndNever struct{}

// EndOnDate stops the schedule at the last occurrence on or before Date.
type EndOnDate struct {
	Date SimpleDate
}

// EndAfter stops the schedule after N occurrences.
type EndAfter struct {
	N int
}

func (EndNever) repEnd()  {}
func (EndOnDate) repEnd() {}
func (EndAfter) repEnd()  {}

// Next produces the next occurrence from d for a single step of the rule.
func (d SimpleDate) Next(delta RepDelta) SimpleDate {
	return delta.advance(d)
}

// LastOccurrence expands a repetition from d to its final occurrence.
// Never-ending schedules resolve to the 9999-12-31 sentinel; a zero
// count or an end date at or before d returns d unchanged.
func (d SimpleDate) LastOccurrence(rep Repetition) SimpleDate {
	end := d

	switch e := rep.End.(type) {
	case EndNever:
		return maxDate

	case EndAfter:
		for i := 0; i < e.N; i++ {
			end = end.Next(rep.Delta)
		}

	case EndOnDate:
		for end.Before(e.Date) {
			next := end.Next(rep.Delta)
			if next.After(e.Date) {
				return end
			}
			end = next
		}
	}

	return end
}

func (dd DayDelta) advance(from SimpleDate) SimpleDate {
	return from.Add(Duration{Unit: UnitDay, N: dd.Nth})
}

func (wd WeekDelta) advance(from SimpleDate) SimpleDate {
	// Anchor on the last weekday of the pattern before skipping weeks.
	end := from
	for WeekdayOf(end) != wd.On[len(wd.On)-1] {
		end = end.Add(Duration{Unit: UnitDay, N: 1})
	}
	return end.Add(Duration{Unit: UnitWeek, N: wd.Nth})
}

func (md MonthDeltaDate) advance(from SimpleDate) SimpleDate {
	minDay := md.Days[0]
	maxDay := md.Days[0]
	for _, day := range md.Days[1:] {
		if day < minDay {
			minDay = day
		}
		if day > maxDay {
			maxDay = day
		}
	}

	// Before the earliest target day the current month still counts as
	// part of this cycle, so the jump is one month short.
	end := from
	if from.Day >= minDay {
		end = end.Add(Duration{Unit: UnitMonth, N: md.Nth})
	} else {
		end = end.Add(Duration{Unit: UnitMonth, N: md.Nth - 1})
	}

	end.Day = maxDay
	if max := DaysInMonth(end.Year, end.Month); end.Day > max {
		end.Day = max
	}
	return end
}

func (mw MonthDeltaWeek) advance(from SimpleDate) SimpleDate {
	// Locate this month's occurrence of the rule to decide whether the
	// current cycle's slot has already passed.
	current := nthWeekdayOfMonth(from.Year, from.Month, mw.Day, mw.WeekID)

	end := from
	if from.Day >= current.Day {
		end = end.Add(Duration{Unit: UnitMonth, N: mw.Nth})
	} else {
		end = end.Add(Duration{Unit: UnitMonth, N: mw.Nth - 1})
	}

	return nthWeekdayOfMonth(end.Year, end.Month, mw.Day, mw.WeekID)
}

// nthWeekdayOfMonth finds the weekID'th (zero-based) occurrence of a
// weekday within a month by scanning forward from day 1.
func nthWeekdayOfMonth(year, month int, day Weekday, weekID int) SimpleDate {
	d := SimpleDate{Year: year, Month: month, Day: 1}
	for WeekdayOf(d) != day {
		d = d.Add(Duration{Unit: UnitDay, N: 1})
	}
	return d.Add(Duration{Unit: UnitWeek, N: weekID})
}

func (yd YearDelta) advance(from SimpleDate) SimpleDate {
	return from.Add(Duration{Unit: UnitYear, N: yd.Nth})
}

func (dd DayDelta) String() string {
	if dd.Nth == 1 {
		return "day"
	}
	return fmt.Sprintf("%d days", dd.Nth)
}

func (wd WeekDelta) String() string {
	var sb strings.Builder
	if wd.Nth == 1 {
		sb.WriteString("week on ")
	} else {
		fmt.Fprintf(&sb, "%d weeks on ", wd.Nth)
	}
	for i, day := range wd.On {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(day.String())
	}
	return sb.String()
}

func (md MonthDeltaDate) String() string {
	var sb strings.Builder
	if md.Nth == 1 {
		sb.WriteString("month on the ")
	} else {
		fmt.Fprintf(&sb, "%d months on the ", md.Nth)
	}
	for i, day := range md.Days {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%d%s", day, suffixForDay(day))
	}
	return sb.String()
}

func (mw MonthDeltaWeek) String() string {
	unit := "months"
	if mw.Nth == 1 {
		unit = "month"
	}
	return fmt.Sprintf("%d %s on the %s %s", mw.Nth, unit, weekIDName(mw.WeekID), mw.Day)
}

func (yd YearDelta) String() string {
	if yd.Nth == 1 {
		return "year"
	}
	return fmt.Sprintf("%d years", yd.Nth)
}

func (EndNever) String() string {
	return "never ending"
}

func (e EndOnDate) String() string {
	return fmt.Sprintf("ending on %s", e.Date)
}

func (e EndAfter) String() string {
	unit := "occurrences"
	if e.N == 1 {
		unit = "occurrence"
	}
	return fmt.Sprintf("ending after %d %s", e.N, unit)
}

func (r Repetition) String() string {
	if _, ok := r.End.(EndNever); ok {
		return r.Delta.String()
	}
	return fmt.Sprintf("%s %s", r.Delta, r.End)
}

func suffixForDay(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	}
	return "th"
}

func weekIDName(id int) string {
	names := []string{"first", "second", "third", "fourth", "fifth"}
	if id >= 0 && id < len(names) {
		return names[id]
	}
	return ""
}
