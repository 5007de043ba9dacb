package domain

import "testing"

func TestNextDayRule(t *testing.T) {
	got := FromYMD(2020, 9, 20).Next(DayDelta{Nth: 8})
	if want := FromYMD(2020, 9, 28); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNextWeekRule(t *testing.T) {
	// 2020-09-20 is a Sunday; the next Monday is the 21st, then 3 weeks on.
	got := FromYMD(2020, 9, 20).Next(WeekDelta{Nth: 3, On: []Weekday{Monday}})
	if want := FromYMD(2020, 10, 12); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNextWeekRuleAnchorsOnLastDay(t *testing.T) {
	// With several weekdays the step anchors on the last one (Friday).
	// 2020-09-20 Sunday -> next Friday is the 25th, plus one week.
	got := FromYMD(2020, 9, 20).Next(WeekDelta{Nth: 1, On: []Weekday{Monday, Friday}})
	if want := FromYMD(2020, 10, 2); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestNextMonthOnDate(t *testing.T) {
	tests := []struct {
		name  string
		start SimpleDate
		delta MonthDeltaDate
		want  SimpleDate
	}{
		{
			// Day 10 has not reached target day 15, so only nth-1 = 2
			// month jumps are needed this cycle.
			name:  "before earliest target day",
			start: FromYMD(2019, 11, 10),
			delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
			want:  FromYMD(2020, 1, 15),
		},
		{
			// Day 20 is past target day 15, so the full nth jump applies.
			name:  "past earliest target day",
			start: FromYMD(2019, 11, 20),
			delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
			want:  FromYMD(2020, 2, 15),
		},
		{
			name:  "before earliest of several days",
			start: FromYMD(2019, 11, 10),
			delta: MonthDeltaDate{Nth: 3, Days: []int{11, 15, 20}},
			want:  FromYMD(2020, 1, 20),
		},
		{
			name:  "past earliest of several days",
			start: FromYMD(2019, 11, 20),
			delta: MonthDeltaDate{Nth: 3, Days: []int{10, 15, 25}},
			want:  FromYMD(2020, 2, 25),
		},
		{
			name:  "day 31 clamps to leap february",
			start: FromYMD(2019, 11, 30),
			delta: MonthDeltaDate{Nth: 4, Days: []int{31}},
			want:  FromYMD(2020, 2, 29),
		},
		{
			name:  "largest fitting day wins",
			start: FromYMD(2019, 11, 30),
			delta: MonthDeltaDate{Nth: 4, Days: []int{15, 31}},
			want:  FromYMD(2020, 3, 31),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.Next(tt.delta); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextMonthOnWeek(t *testing.T) {
	tests := []struct {
		name  string
		start SimpleDate
		delta MonthDeltaWeek
		want  SimpleDate
	}{
		{
			// Second Monday of September 2020 is the 14th; starting on
			// the 1st we have not reached it, so one month jump instead
			// of two lands on October's second Monday.
			name:  "before this month's slot",
			start: FromYMD(2020, 9, 1),
			delta: MonthDeltaWeek{Nth: 2, WeekID: 1, Day: Monday},
			want:  FromYMD(2020, 10, 12),
		},
		{
			// Starting on the 21st the slot has passed; the full jump
			// lands on November's second Monday.
			name:  "past this month's slot",
			start: FromYMD(2020, 9, 21),
			delta: MonthDeltaWeek{Nth: 2, WeekID: 1, Day: Monday},
			want:  FromYMD(2020, 11, 9),
		},
		{
			// weekid 0 selects the first occurrence.
			name:  "first friday",
			start: FromYMD(2020, 9, 10),
			delta: MonthDeltaWeek{Nth: 1, WeekID: 0, Day: Friday},
			want:  FromYMD(2020, 10, 2),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.Next(tt.delta); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextYearRule(t *testing.T) {
	got := FromYMD(2020, 2, 29).Next(YearDelta{Nth: 1})
	if want := FromYMD(2021, 2, 28); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLastOccurrenceNever(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: EndNever{}}
	got := FromYMD(2020, 9, 20).LastOccurrence(rep)
	if want := FromYMD(9999, 12, 31); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLastOccurrenceCount(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: EndAfter{N: 5}}
	got := FromYMD(2020, 9, 20).LastOccurrence(rep)
	if want := FromYMD(2020, 9, 25); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLastOccurrenceCountZero(t *testing.T) {
	rep := Repetition{Delta: MonthDeltaDate{Nth: 1, Days: []int{5}}, End: EndAfter{N: 0}}
	start := FromYMD(2020, 9, 20)
	if got := start.LastOccurrence(rep); got != start {
		t.Errorf("got %s, want start unchanged", got)
	}
}

func TestLastOccurrenceDate(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: EndOnDate{Date: FromYMD(2020, 12, 31)}}
	got := FromYMD(2020, 9, 20).LastOccurrence(rep)
	if want := FromYMD(2020, 12, 31); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestLastOccurrenceDateNeverOvershoots(t *testing.T) {
	rep := Repetition{
		Delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
		End:   EndOnDate{Date: FromYMD(2021, 12, 31)},
	}
	got := FromYMD(2020, 9, 20).LastOccurrence(rep)
	if want := FromYMD(2021, 12, 15); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
	if got.After(FromYMD(2021, 12, 31)) {
		t.Errorf("occurrence %s exceeds the end date", got)
	}
}

func TestLastOccurrenceDateAlreadyPassed(t *testing.T) {
	rep := Repetition{Delta: DayDelta{Nth: 1}, End: EndOnDate{Date: FromYMD(2020, 9, 20)}}
	start := FromYMD(2020, 9, 20)
	if got := start.LastOccurrence(rep); got != start {
		t.Errorf("got %s, want start unchanged", got)
	}
}

func TestLastOccurrenceCountWithMonthRule(t *testing.T) {
	rep := Repetition{
		Delta: MonthDeltaDate{Nth: 3, Days: []int{15}},
		End:   EndAfter{N: 5},
	}
	got := FromYMD(2020, 9, 20).LastOccurrence(rep)
	if want := FromYMD(2021, 12, 15); got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

func TestRepetitionStrings(t *testing.T) {
	tests := []struct {
		rep  Repetition
		want string
	}{
		{Repetition{Delta: DayDelta{Nth: 1}, End: EndNever{}}, "day"},
		{Repetition{Delta: DayDelta{Nth: 3}, End: EndAfter{N: 1}}, "3 days ending after 1 occurrence"},
		{
			Repetition{Delta: WeekDelta{Nth: 2, On: []Weekday{Monday, Wednesday}}, End: EndNever{}},
			"2 weeks on Monday, Wednesday",
		},
		{
			Repetition{Delta: MonthDeltaDate{Nth: 3, Days: []int{1, 22, 23, 15}}, End: EndOnDate{Date: FromYMD(2021, 1, 31)}},
			"3 months on the 1st, 22nd, 23rd, 15th ending on 2021-01-31",
		},
		{
			Repetition{Delta: MonthDeltaWeek{Nth: 1, WeekID: 1, Day: Monday}, End: EndNever{}},
			"1 month on the second Monday",
		},
		{Repetition{Delta: YearDelta{Nth: 2}, End: EndAfter{N: 4}}, "2 years ending after 4 occurrences"},
	}
	for _, tt := range tests {
		if got := tt.rep.String(); got != tt.want {
			t.Errorf("got %q, want %q", got, tt.want)
		}
	}
}

func TestRepetitionJSONRoundTrip(t *testing.T) {
	reps := []Repetition{
		{Delta: DayDelta{Nth: 3}, End: EndNever{}},
		{Delta: WeekDelta{Nth: 2, On: []Weekday{Monday, Friday}}, End: EndAfter{N: 10}},
		{Delta: MonthDeltaDate{Nth: 3, Days: []int{15, 31}}, End: EndOnDate{Date: FromYMD(2022, 6, 30)}},
		{Delta: MonthDeltaWeek{Nth: 2, WeekID: 1, Day: Wednesday}, End: EndNever{}},
		{Delta: YearDelta{Nth: 1}, End: EndAfter{N: 2}},
	}
	for _, rep := range reps {
		data, err := rep.MarshalJSON()
		if err != nil {
			t.Errorf("marshal %s: %v", rep, err)
			continue
		}
		var back Repetition
		if err := back.UnmarshalJSON(data); err != nil {
			t.Errorf("unmarshal %s: %v", data, err)
			continue
		}
		if back.String() != rep.String() {
			t.Errorf("round trip %q -> %q", rep, back)
		}
	}
}
