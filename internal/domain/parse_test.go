package domain

import "testing"

func TestParseRepDelta(t *testing.T) {
	start := FromYMD(2020, 9, 20) // a Sunday

	tests := []struct {
		in   string
		want string // rendered form of the parsed delta
	}{
		{"daily", "day"},
		{"every day", "day"},
		{"3 days", "3 days"},
		{"1 day", "day"},
		{"every 2 days", "2 days"},
		{"every 1 day", "day"},
		{"weekly", "week on Sunday"},
		{"fortnightly", "2 weeks on Sunday"},
		{"every 2 weeks", "2 weeks on Sunday"},
		{"2 weeks", "2 weeks on Sunday"},
		{"every 2 weeks on mon, wed", "2 weeks on Monday, Wednesday"},
		{"weekly on wed, mon", "week on Monday, Wednesday"}, // scan order fixes the list order
		{"every 1 week on friday", "week on Friday"},
		{"monthly", "month on the 20th"},
		{"quarterly", "3 months on the 20th"},
		{"every 3 months", "3 months on the 20th"},
		{"2 months", "2 months on the 20th"},
		{"monthly on the 15th", "month on the 15th"},
		{"every 3 months on 15, 31", "3 months on the 15th, 31st"},
		{"every 2 months on the 2nd monday", "2 months on the second Monday"},
		{"monthly on the first fri", "1 month on the first Friday"},
		{"monthly on the fifth tuesday", "1 month on the fifth Tuesday"},
		{"annually", "year"},
		{"yearly", "year"},
		{"every year", "year"},
		{"every 2 years", "2 years"},
		{"5 years", "5 years"},
	}
	for _, tt := range tests {
		got, err := ParseRepDelta(tt.in, start)
		if err != nil {
			t.Errorf("ParseRepDelta(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseRepDelta(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRepDeltaErrors(t *testing.T) {
	start := FromYMD(2020, 9, 20)

	bad := []string{
		"whenever",
		"every blue moon",
		"weeks",
		"every week on noday",
		"monthly on the 32nd",
		"monthly on the 0th",
		"monthly on the monday", // ordinal missing
		"monthly on",
		"yearly-ish",
		"every 0 days", // a zero step would never advance
		"0 weeks",
		"every 0 months",
		"0 years",
	}
	for _, in := range bad {
		if got, err := ParseRepDelta(in, start); err == nil {
			t.Errorf("ParseRepDelta(%q) expected error, got %q", in, got)
		}
	}
}

func TestParseRepDeltaDefaultsToStartDay(t *testing.T) {
	// A month rule with no "on" clause repeats on the start date's day.
	got, err := ParseRepDelta("every 2 months", FromYMD(2020, 1, 31))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md, ok := got.(MonthDeltaDate)
	if !ok {
		t.Fatalf("got %T, want MonthDeltaDate", got)
	}
	if len(md.Days) != 1 || md.Days[0] != 31 {
		t.Errorf("days = %v, want [31]", md.Days)
	}
}

func TestParseRepEnd(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "never ending"},
		{"   ", "never ending"},
		{"never", "never ending"},
		{"after 5 times", "ending after 5 occurrences"},
		{"5 times", "ending after 5 occurrences"},
		{"after 1 occurrence ... occurrences", "ending after 1 occurrence"},
		{"stop after 12 reps", "ending after 12 occurrences"},
		{"2021-12-31", "ending on 2021-12-31"},
		{"on 2021-1-5 at the latest", "ending on 2021-01-05"},
	}
	for _, tt := range tests {
		got, err := ParseRepEnd(tt.in)
		if err != nil {
			t.Errorf("ParseRepEnd(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseRepEnd(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseRepEndErrors(t *testing.T) {
	bad := []string{
		"after many times",
		"2021-13-01",
		"2021-02-30",
		"eventually",
	}
	for _, in := range bad {
		if got, err := ParseRepEnd(in); err == nil {
			t.Errorf("ParseRepEnd(%q) expected error, got %q", in, got)
		}
	}
}

func TestParseRepetition(t *testing.T) {
	start := FromYMD(2019, 11, 10)

	rep, err := ParseRepetition("every 3 months on the 15th", "after 2 times", start)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// First step uses the nth-1 branch (day 10 < 15), the second a full jump.
	got := start.LastOccurrence(rep)
	if want := FromYMD(2020, 4, 15); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}
