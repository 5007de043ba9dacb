package domain

import (
	"strings"
	"testing"
)

func TestRepetitionRRule(t *testing.T) {
	start := FromYMD(2020, 9, 1)

	tests := []struct {
		name     string
		rep      Repetition
		contains []string
	}{
		{
			"daily interval",
			Repetition{Delta: DayDelta{Nth: 3}, End: EndNever{}},
			[]string{"FREQ=DAILY", "INTERVAL=3"},
		},
		{
			"weekly on days",
			Repetition{Delta: WeekDelta{Nth: 2, On: []Weekday{Monday, Wednesday}}, End: EndNever{}},
			[]string{"FREQ=WEEKLY", "INTERVAL=2", "BYDAY=MO,WE"},
		},
		{
			"monthly on dates with count",
			Repetition{Delta: MonthDeltaDate{Nth: 3, Days: []int{15, 31}}, End: EndAfter{N: 4}},
			[]string{"FREQ=MONTHLY", "INTERVAL=3", "BYMONTHDAY=15,31", "COUNT=4"},
		},
		{
			"monthly on second monday",
			Repetition{Delta: MonthDeltaWeek{Nth: 1, WeekID: 1, Day: Monday}, End: EndNever{}},
			[]string{"FREQ=MONTHLY", "2MO"},
		},
		{
			"yearly until",
			Repetition{Delta: YearDelta{Nth: 1}, End: EndOnDate{Date: FromYMD(2025, 12, 31)}},
			[]string{"FREQ=YEARLY", "UNTIL=20251231"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.rep.RRule(start)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, sub := range tt.contains {
				if !strings.Contains(got, sub) {
					t.Errorf("rrule %q missing %q", got, sub)
				}
			}
		})
	}
}
