package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Free-text schedule parsing. Phrases are matched by an ordered cascade
// of fixed patterns followed by named shortcuts; the first hit wins.
// This is best-effort pattern matching, not natural-language parsing.

var (
	dayCountRe   = regexp.MustCompile(`^(?:every )?([1-9]\d*) days?$`)
	weekCountRe  = regexp.MustCompile(`^(?:every )?([1-9]\d*) weeks?$`)
	monthCountRe = regexp.MustCompile(`^(?:every )?([1-9]\d*) months?$`)
	yearCountRe  = regexp.MustCompile(`^(?:every )?([1-9]\d*) years?$`)
	numberRe     = regexp.MustCompile(`\d+`)
)

// ParseRepDelta parses a schedule phrase like "every 2 weeks on mon, wed",
// "monthly on the 15th" or "3 days" into a recurrence step. The start
// date supplies defaults when the phrase names no explicit weekday or
// day-of-month.
func ParseRepDelta(s string, start SimpleDate) (RepDelta, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case strings.Contains(s, "year") || strings.Contains(s, "annual"):
		return parseYearDelta(s)
	case strings.Contains(s, "month") || strings.Contains(s, "quarter"):
		return parseMonthDelta(s, start)
	case strings.Contains(s, "week") || strings.Contains(s, "fortnight"):
		return parseWeekDelta(s, start)
	default:
		return parseDayDelta(s)
	}
}

func parseDayDelta(s string) (RepDelta, error) {
	if m := dayCountRe.FindStringSubmatch(s); m != nil {
		nth, _ := strconv.Atoi(m[1])
		return DayDelta{Nth: nth}, nil
	}
	if s == "daily" || s == "every day" {
		return DayDelta{Nth: 1}, nil
	}
	return nil, fmt.Errorf("couldn't parse schedule")
}

func parseWeekDelta(s string, start SimpleDate) (RepDelta, error) {
	beginning, onClause := splitOnClause(s)

	days := []Weekday{WeekdayOf(start)}
	if onClause != "" {
		var err error
		days, err = parseWeekdayList(onClause)
		if err != nil {
			return nil, err
		}
	}

	if m := weekCountRe.FindStringSubmatch(beginning); m != nil {
		nth, _ := strconv.Atoi(m[1])
		return WeekDelta{Nth: nth, On: days}, nil
	}
	switch beginning {
	case "weekly":
		return WeekDelta{Nth: 1, On: days}, nil
	case "fortnightly":
		return WeekDelta{Nth: 2, On: days}, nil
	}
	return nil, fmt.Errorf("couldn't parse schedule")
}

func parseMonthDelta(s string, start SimpleDate) (RepDelta, error) {
	beginning, onClause := splitOnClause(s)

	var nth int
	if m := monthCountRe.FindStringSubmatch(beginning); m != nil {
		nth, _ = strconv.Atoi(m[1])
	} else if beginning == "monthly" {
		nth = 1
	} else if beginning == "quarterly" {
		nth = 3
	} else {
		return nil, fmt.Errorf("couldn't parse schedule")
	}

	if onClause == "" {
		return MonthDeltaDate{Nth: nth, Days: []int{start.Day}}, nil
	}

	// Ordinal-weekday phrases ("2nd monday") win over bare day numbers.
	if day, ok := parseWeekdayName(onClause); ok {
		weekID, ok := parseOrdinal(onClause)
		if !ok {
			return nil, fmt.Errorf("couldn't parse schedule")
		}
		return MonthDeltaWeek{Nth: nth, WeekID: weekID, Day: day}, nil
	}

	var days []int
	for _, m := range numberRe.FindAllString(onClause, -1) {
		day, err := strconv.Atoi(m)
		if err != nil || day < 1 || day > 31 {
			return nil, fmt.Errorf("couldn't parse schedule")
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("couldn't parse schedule")
	}

	return MonthDeltaDate{Nth: nth, Days: days}, nil
}

func parseYearDelta(s string) (RepDelta, error) {
	if m := yearCountRe.FindStringSubmatch(s); m != nil {
		nth, _ := strconv.Atoi(m[1])
		return YearDelta{Nth: nth}, nil
	}
	if s == "annually" || s == "yearly" || s == "every year" {
		return YearDelta{Nth: 1}, nil
	}
	return nil, fmt.Errorf("couldn't parse schedule")
}

// splitOnClause cuts an optional " on <...>" suffix off a schedule phrase.
func splitOnClause(s string) (beginning, onClause string) {
	if idx := strings.Index(s, " on "); idx >= 0 {
		return s[:idx], s[idx:]
	}
	return s, ""
}

// parseWeekdayList scans for weekday names in Monday-first order, so the
// resulting list is ordered by weekday regardless of input order.
func parseWeekdayList(s string) ([]Weekday, error) {
	var days []Weekday
	for day := Monday; day <= Sunday; day++ {
		if strings.Contains(s, strings.ToLower(day.String()[:3])) {
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("couldn't parse schedule")
	}
	return days, nil
}

func parseWeekdayName(s string) (Weekday, bool) {
	for day := Monday; day <= Sunday; day++ {
		if strings.Contains(s, strings.ToLower(day.String()[:3])) {
			return day, true
		}
	}
	return 0, false
}

// parseOrdinal maps "first"/"1st" ... "fifth"/"5th" to a zero-based
// week index.
func parseOrdinal(s string) (int, bool) {
	ordinals := []struct {
		word, short string
	}{
		{"first", "1st"},
		{"second", "2nd"},
		{"third", "3rd"},
		{"fourth", "4th"},
		{"fifth", "5th"},
	}
	for i, o := range ordinals {
		if strings.Contains(s, o.word) || strings.Contains(s, o.short) {
			return i, true
		}
	}
	return 0, false
}

// ParseRepEnd parses a schedule end phrase: blank or "never" keeps the
// schedule open, "after N times" style phrases bound the count, anything
// else must contain a yyyy-mm-dd end date.
func ParseRepEnd(s string) (RepEnd, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if s == "" || strings.Contains(s, "never") {
		return EndNever{}, nil
	}

	if strings.Contains(s, "after") || strings.Contains(s, "times") ||
		strings.Contains(s, "occurrences") || strings.Contains(s, "reps") {
		m := numberRe.FindString(s)
		if m == "" {
			return nil, fmt.Errorf("couldn't parse ending schedule")
		}
		count, err := strconv.Atoi(m)
		if err != nil {
			return nil, fmt.Errorf("couldn't parse ending schedule")
		}
		return EndAfter{N: count}, nil
	}

	date, err := ParseDate(s)
	if err != nil {
		return nil, err
	}
	return EndOnDate{Date: date}, nil
}

// ParseRepetition parses a schedule phrase and an end phrase together.
func ParseRepetition(schedule, end string, start SimpleDate) (Repetition, error) {
	delta, err := ParseRepDelta(schedule, start)
	if err != nil {
		return Repetition{}, err
	}
	repEnd, err := ParseRepEnd(end)
	if err != nil {
		return Repetition{}, err
	}
	return Repetition{Delta: delta, End: repEnd}, nil
}
