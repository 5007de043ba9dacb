package domain

import (
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"12.50", 1250, false},
		{"$12.50", 1250, false},
		{"  $3 ", 300, false},
		{"0.99", 99, false},
		{"19.999", 1999, false}, // sub-cent digits truncate
		{"", 0, true},
		{"$", 0, true},
		{"twelve", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    Duration
		wantErr bool
	}{
		{"2 weeks", Duration{UnitWeek, 2}, false},
		{"1 day", Duration{UnitDay, 1}, false},
		{"6 months", Duration{UnitMonth, 6}, false},
		{"1 year", Duration{UnitYear, 1}, false},
		{"0 days", Duration{}, true},
		{"2 fortnights", Duration{}, true},
		{"weeks", Duration{}, true},
	}
	for _, tt := range tests {
		got, err := ParseDuration(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDuration(%q) expected error, got %s", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseDuration(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDuration(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestExpenseEndDate(t *testing.T) {
	start := FromYMD(2020, 9, 20)

	noRep := NewExpense(1, 1, "one-off", -1000, start, nil, nil, nil)
	if noRep.End == nil || !noRep.End.Equal(start) {
		t.Errorf("one-off end = %v, want %s", noRep.End, start)
	}

	never := NewExpense(2, 1, "rent", -120000, start,
		nil, &Repetition{Delta: MonthDeltaDate{Nth: 1, Days: []int{1}}, End: EndNever{}}, nil)
	if never.End != nil {
		t.Errorf("never-ending end = %s, want nil", never.End)
	}

	counted := NewExpense(3, 1, "installments", -5000, start,
		nil, &Repetition{Delta: DayDelta{Nth: 1}, End: EndAfter{N: 5}}, nil)
	if counted.End == nil || !counted.End.Equal(FromYMD(2020, 9, 25)) {
		t.Errorf("counted end = %v, want 2020-09-25", counted.End)
	}

	withSpread := NewExpense(4, 1, "insurance", -30000, start,
		&Duration{Unit: UnitWeek, N: 2},
		&Repetition{Delta: DayDelta{Nth: 1}, End: EndAfter{N: 5}}, nil)
	if withSpread.End == nil || !withSpread.End.Equal(FromYMD(2020, 10, 9)) {
		t.Errorf("spread end = %v, want 2020-10-09", withSpread.End)
	}
}

func TestExpenseCompareDates(t *testing.T) {
	start := FromYMD(2020, 1, 1)
	open := NewExpense(1, 1, "open", -100, start,
		nil, &Repetition{Delta: DayDelta{Nth: 1}, End: EndNever{}}, nil)
	short := NewExpense(2, 1, "short", -100, start,
		nil, &Repetition{Delta: DayDelta{Nth: 1}, End: EndAfter{N: 2}}, nil)
	long := NewExpense(3, 1, "long", -100, start,
		nil, &Repetition{Delta: DayDelta{Nth: 1}, End: EndAfter{N: 10}}, nil)

	if open.CompareDates(short) <= 0 {
		t.Error("open-ended should sort after bounded")
	}
	if short.CompareDates(open) >= 0 {
		t.Error("bounded should sort before open-ended")
	}
	if short.CompareDates(long) >= 0 {
		t.Error("earlier end should sort first")
	}
	if open.CompareDates(open) != 0 {
		t.Error("identical open-ended expenses should compare equal")
	}
}

func TestExpenseString(t *testing.T) {
	e := NewExpense(1, 1, "netflix", -1099, FromYMD(2020, 9, 1),
		nil, &Repetition{Delta: MonthDeltaDate{Nth: 1, Days: []int{1}}, End: EndNever{}}, nil)
	want := "netflix: $10.99 on 2020-09-01 (repeats every month on the 1st)"
	if got := e.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	plain := NewExpense(2, 1, "coffee", -450, FromYMD(2020, 9, 1), nil, nil, nil)
	if got := plain.String(); got != "coffee: $4.50 on 2020-09-01" {
		t.Errorf("got %q", got)
	}

	tagged := NewExpense(3, 1, "groceries", -8000, FromYMD(2020, 9, 1), nil, nil,
		[]string{"food", "household"})
	if got := tagged.String(); got != "groceries: $80.00 on 2020-09-01 tags: food, household" {
		t.Errorf("got %q", got)
	}
}

func TestExpenseTags(t *testing.T) {
	e := NewExpense(1, 1, "groceries", -8000, FromYMD(2020, 9, 1), nil, nil,
		[]string{"food", "household"})

	if !e.HasTag("food") || e.HasTag("fun") {
		t.Error("HasTag mismatch")
	}

	e.RemoveTag("food")
	if e.HasTag("food") || !e.HasTag("household") {
		t.Errorf("after RemoveTag tags = %v", e.Tags)
	}
}

func TestCountOverlapDays(t *testing.T) {
	tests := []struct {
		name                   string
		pStart, pEnd, eS, eE   SimpleDate
		want                   int
	}{
		{
			"disjoint before", FromYMD(2020, 6, 1), FromYMD(2020, 6, 30),
			FromYMD(2020, 5, 1), FromYMD(2020, 5, 20), 0,
		},
		{
			"disjoint after", FromYMD(2020, 6, 1), FromYMD(2020, 6, 30),
			FromYMD(2020, 7, 1), FromYMD(2020, 7, 5), 0,
		},
		{
			"period contains window", FromYMD(2020, 6, 1), FromYMD(2020, 6, 30),
			FromYMD(2020, 6, 10), FromYMD(2020, 6, 17), 7,
		},
		{
			"window contains period", FromYMD(2020, 6, 1), FromYMD(2020, 6, 8),
			FromYMD(2020, 5, 1), FromYMD(2020, 7, 1), 7,
		},
		{
			"overlap at period start", FromYMD(2020, 6, 1), FromYMD(2020, 6, 30),
			FromYMD(2020, 5, 25), FromYMD(2020, 6, 5), 4,
		},
		{
			"overlap at period end", FromYMD(2020, 6, 1), FromYMD(2020, 6, 30),
			FromYMD(2020, 6, 25), FromYMD(2020, 7, 10), 5,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := countOverlapDays(tt.pStart, tt.pEnd, tt.eS, tt.eE); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalculateSpread(t *testing.T) {
	// A single $30 expense spread over 30 days starting at the window
	// start: exactly one dollar per day for the whole window.
	e := NewExpense(1, 1, "spread", -3000, FromYMD(2020, 6, 1),
		&Duration{Unit: UnitDay, N: 30}, nil, nil)

	got := CalculateSpread([]*Expense{e}, FromYMD(2020, 6, 1), Duration{Unit: UnitMonth, N: 1})
	if math.Abs(got-(-30.0)) > 0.01 {
		t.Errorf("got %f, want -30.0", got)
	}
}

func TestCalculateSpreadRepeating(t *testing.T) {
	// $10 on the 1st of each month, no spread: a 3-month window from
	// June 1 catches the June, July and August occurrences.
	e := NewExpense(1, 1, "subscription", -1000, FromYMD(2020, 6, 1),
		nil, &Repetition{Delta: MonthDeltaDate{Nth: 1, Days: []int{1}}, End: EndNever{}}, nil)

	got := CalculateSpread([]*Expense{e}, FromYMD(2020, 6, 1), Duration{Unit: UnitMonth, N: 3})
	if math.Abs(got-(-30.0)) > 0.01 {
		t.Errorf("got %f, want -30.0", got)
	}
}

func TestCalculateSpreadOutsideWindow(t *testing.T) {
	e := NewExpense(1, 1, "past", -5000, FromYMD(2019, 1, 1), nil, nil, nil)

	got := CalculateSpread([]*Expense{e}, FromYMD(2020, 6, 1), Duration{Unit: UnitMonth, N: 1})
	if got != 0 {
		t.Errorf("got %f, want 0", got)
	}
}
