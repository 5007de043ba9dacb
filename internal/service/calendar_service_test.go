package service

import (
	"strings"
	"testing"

	"github.com/ledgerline/budgetbot/internal/domain"
)

func TestExpenseToEvent(t *testing.T) {
	rep, err := domain.ParseRepetition("1 month on the 15th", "never",
		domain.SimpleDate{Year: 2021, Month: 1, Day: 15})
	if err != nil {
		t.Fatalf("ParseRepetition: %v", err)
	}
	e := domain.NewExpense(3, 1, "insurance", -8000,
		domain.SimpleDate{Year: 2021, Month: 1, Day: 15}, nil, &rep, nil)

	event, err := ExpenseToEvent(e)
	if err != nil {
		t.Fatalf("ExpenseToEvent: %v", err)
	}
	if event.UID != "expense-3@budgetbot" {
		t.Errorf("uid = %q", event.UID)
	}
	if event.Summary != "pay $80.00: insurance" {
		t.Errorf("summary = %q", event.Summary)
	}
	if !event.AllDay {
		t.Error("expected all-day event")
	}
	for _, want := range []string{"FREQ=MONTHLY", "BYMONTHDAY=15"} {
		if !strings.Contains(event.RRule, want) {
			t.Errorf("rrule %q missing %q", event.RRule, want)
		}
	}
}

func TestExpenseToEventOneOff(t *testing.T) {
	e := domain.NewExpense(5, 1, "paycheck", 250000,
		domain.SimpleDate{Year: 2021, Month: 3, Day: 31}, nil, nil, nil)

	event, err := ExpenseToEvent(e)
	if err != nil {
		t.Fatalf("ExpenseToEvent: %v", err)
	}
	if event.RRule != "" {
		t.Errorf("rrule = %q, want empty", event.RRule)
	}
	if event.Summary != "receive $2500.00: paycheck" {
		t.Errorf("summary = %q", event.Summary)
	}
	if got := event.StartTime.Format("2006-01-02"); got != "2021-03-31" {
		t.Errorf("start = %s", got)
	}
}
