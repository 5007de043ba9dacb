package domain

import (
	"fmt"
	"strings"
)

// DurationUnit selects the calendar unit of a Duration jump.
type DurationUnit string

const (
	UnitDay   DurationUnit = "day"
	UnitWeek  DurationUnit = "week"
	UnitMonth DurationUnit = "month"
	UnitYear  DurationUnit = "year"
)

// Duration is a single calendar jump: a non-negative count of days,
// weeks, months or years. Distinct from time.Duration, which has no
// calendar awareness.
type Duration struct {
	Unit DurationUnit `json:"unit"`
	N    int          `json:"n"`
}

func (d Duration) String() string {
	unit := string(d.Unit)
	if d.N != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", d.N, unit)
}

// ParseDuration reads a "<count> <unit>" phrase such as "2 weeks" or
// "1 month". A zero count is rejected; callers treat blank input as the
// absence of a duration before calling this.
func ParseDuration(s string) (Duration, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	if len(fields) != 2 {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}

	var n int
	if _, err := fmt.Sscanf(fields[0], "%d", &n); err != nil || n <= 0 {
		return Duration{}, fmt.Errorf("invalid duration %q", s)
	}

	switch fields[1] {
	case "day", "days":
		return Duration{Unit: UnitDay, N: n}, nil
	case "week", "weeks":
		return Duration{Unit: UnitWeek, N: n}, nil
	case "month", "months":
		return Duration{Unit: UnitMonth, N: n}, nil
	case "year", "years":
		return Duration{Unit: UnitYear, N: n}, nil
	}
	return Duration{}, fmt.Errorf("invalid duration: only day/week/month/year(s) accepted")
}
