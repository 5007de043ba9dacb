package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// Weekday is a day of the week, Monday-first (0 = Monday ... 6 = Sunday).
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

func (w Weekday) String() string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
	if w >= 0 && int(w) < len(names) {
		return names[w]
	}
	return ""
}

// SimpleDate is a plain calendar date with no time-of-day or timezone.
// Arithmetic never mutates in place; every operation returns a new value.
type SimpleDate struct {
	Year  int
	Month int // 1-12
	Day   int // 1-days in month
}

// FromYMD builds a date without validation, mirroring direct construction.
// Use ParseDate for untrusted input.
func FromYMD(year, month, day int) SimpleDate {
	return SimpleDate{Year: year, Month: month, Day: day}
}

// Today returns the current date in the given location (time.Local if nil).
func Today(loc *time.Location) SimpleDate {
	if loc == nil {
		loc = time.Local
	}
	now := time.Now().In(loc)
	return SimpleDate{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
}

var dateRe = regexp.MustCompile(`(\d+)-(\d+)-(\d+)`)

// ParseDate scans a yyyy-mm-dd date out of s and validates it.
// The pattern does not need to span the whole string.
func ParseDate(s string) (SimpleDate, error) {
	m := dateRe.FindStringSubmatch(s)
	if m == nil {
		return SimpleDate{}, fmt.Errorf("invalid date")
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return SimpleDate{}, fmt.Errorf("invalid date")
	}
	month, err := strconv.Atoi(m[2])
	if err != nil {
		return SimpleDate{}, fmt.Errorf("invalid date")
	}
	day, err := strconv.Atoi(m[3])
	if err != nil {
		return SimpleDate{}, fmt.Errorf("invalid date")
	}

	if month < 1 || month > 12 {
		return SimpleDate{}, fmt.Errorf("invalid month")
	}
	if day < 1 || day > DaysInMonth(year, month) {
		return SimpleDate{}, fmt.Errorf("invalid date")
	}

	return SimpleDate{Year: year, Month: month, Day: day}, nil
}

func (d SimpleDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Compare orders dates lexicographically on (year, month, day).
func (d SimpleDate) Compare(o SimpleDate) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(d.Month, o.Month)
	case d.Day != o.Day:
		return cmpInt(d.Day, o.Day)
	}
	return 0
}

func (d SimpleDate) Before(o SimpleDate) bool { return d.Compare(o) < 0 }
func (d SimpleDate) After(o SimpleDate) bool  { return d.Compare(o) > 0 }
func (d SimpleDate) Equal(o SimpleDate) bool  { return d.Compare(o) == 0 }

func cmpInt(a, b int) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}

// Time converts the date to a midnight time.Time in the given location
// (UTC if nil).
func (d SimpleDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, loc)
}

// MarshalJSON encodes the date as its yyyy-mm-dd string form.
func (d SimpleDate) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(d.String())), nil
}

func (d *SimpleDate) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return fmt.Errorf("invalid date: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// DaysInMonth returns the day count of a month, applying the Gregorian
// leap-year rule for February. The month must already be in 1-12.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if year%400 == 0 {
			return 29
		}
		if year%100 == 0 {
			return 28
		}
		if year%4 == 0 {
			return 29
		}
		return 28
	}
	panic(fmt.Sprintf("invalid month %d", month))
}

// cumulative non-leap day counts before each month
var monthOffsets = [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}

// WeekdayOf computes the day of week with a calendar congruence anchored
// at 1700-01-01 (a Friday). Exact for all proleptic-Gregorian dates from
// 1700 onward.
func WeekdayOf(d SimpleDate) Weekday {
	afterFeb := 0
	if d.Month <= 2 {
		afterFeb = 1
	}
	aux := d.Year - 1700 - afterFeb

	day := (4 + // 1700-01-01 was a Friday
		(aux+afterFeb)*365 + // whole years since the anchor
		(aux/4 - aux/100 + (aux+100)/400) + // leap day correction
		monthOffsets[d.Month-1] + (d.Day - 1)) % 7

	return Weekday(day)
}

// Add applies a single calendar jump and normalizes the result.
// Day and week jumps roll excess days over into following months; month
// and year jumps clamp the day down to the target month's last valid day.
func (d SimpleDate) Add(dur Duration) SimpleDate {
	year, month, day := d.Year, d.Month, d.Day

	switch dur.Unit {
	case UnitDay:
		day += dur.N
	case UnitWeek:
		day += dur.N * 7
	case UnitMonth:
		month += dur.N
	case UnitYear:
		year += dur.N
	}

	for {
		extraYears := month / 12
		relMonth := month % 12
		if relMonth == 0 {
			extraYears--
			relMonth += 12
		}
		year += extraYears
		month = relMonth

		// The day==d.Day check keeps month/year jumps from entering the
		// rollover path: an unchanged day field is clamped, never carried.
		if day == d.Day || day <= DaysInMonth(year, month) {
			break
		}
		day -= DaysInMonth(year, month)
		month++
	}

	if max := DaysInMonth(year, month); day > max {
		day = max
	}

	return SimpleDate{Year: year, Month: month, Day: day}
}

// Sub applies a single calendar jump backwards. Day and week counts
// borrow from preceding months one day at a time; month and year counts
// step the field down and clamp the day afterwards.
func (d SimpleDate) Sub(dur Duration) SimpleDate {
	year, month, day := d.Year, d.Month, d.Day

	daysToSub := 0
	monthsToSub := 0
	switch dur.Unit {
	case UnitDay:
		daysToSub = dur.N
	case UnitWeek:
		daysToSub = dur.N * 7
	case UnitMonth:
		monthsToSub = dur.N
	case UnitYear:
		year -= dur.N
	}

	for i := 0; i < daysToSub; i++ {
		day--
		if day == 0 {
			month--
			if month == 0 {
				year--
				month = 12
			}
			day = DaysInMonth(year, month)
		}
	}

	for i := 0; i < monthsToSub; i++ {
		month--
		if month == 0 {
			year--
			month = 12
		}
	}

	if max := DaysInMonth(year, month); day > max {
		day = max
	}

	return SimpleDate{Year: year, Month: month, Day: day}
}
