package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Expense is a single money movement: negative amounts are spending,
// positive amounts income. A repetition makes it recur; a spread
// distributes each occurrence's amount over a window for reporting.
type Expense struct {
	ID          int64
	UserID      int64
	Description string
	AmountCents int64
	Start       SimpleDate
	End         *SimpleDate // nil when the schedule never ends
	Spread      *Duration
	Repetition  *Repetition
	Tags        []string
	CreatedAt   time.Time
}

// NewExpense builds an expense and derives its end date from the
// repetition and spread.
func NewExpense(id, userID int64, description string, amountCents int64, start SimpleDate,
	spread *Duration, repetition *Repetition, tags []string) *Expense {
	return &Expense{
		ID:          id,
		UserID:      userID,
		Description: description,
		AmountCents: amountCents,
		Start:       start,
		End:         expenseEndDate(start, repetition, spread),
		Spread:      spread,
		Repetition:  repetition,
		Tags:        tags,
	}
}

func expenseEndDate(start SimpleDate, repetition *Repetition, spread *Duration) *SimpleDate {
	end := start

	if repetition != nil {
		if _, ok := repetition.End.(EndNever); ok {
			return nil
		}
		end = end.LastOccurrence(*repetition)
	}

	if spread != nil {
		end = end.Add(*spread)
	}

	return &end
}

// DeriveEnd recomputes the end date, for use after mutating the schedule.
func (e *Expense) DeriveEnd() {
	e.End = expenseEndDate(e.Start, e.Repetition, e.Spread)
}

// CompareDates orders by end date with open-ended expenses last, using
// the start date as a tie-breaker.
func (e *Expense) CompareDates(other *Expense) int {
	switch {
	case e.End == nil && other.End == nil:
		return 0
	case e.End == nil:
		return 1
	case other.End == nil:
		return -1
	}

	if c := e.End.Compare(*other.End); c != 0 {
		return c
	}
	return e.Start.Compare(other.Start)
}

// HasTag reports whether the expense carries the given tag.
func (e *Expense) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// RemoveTag strips a tag from the expense, if present.
func (e *Expense) RemoveTag(tag string) {
	kept := e.Tags[:0]
	for _, t := range e.Tags {
		if t != tag {
			kept = append(kept, t)
		}
	}
	e.Tags = kept
}

func (e *Expense) String() string {
	abs := e.AmountCents
	if abs < 0 {
		abs = -abs
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: $%d.%02d on %s", e.Description, abs/100, abs%100, e.Start)

	if e.Spread != nil || e.Repetition != nil {
		sb.WriteString(" (")
		if e.Spread != nil {
			fmt.Fprintf(&sb, "spread over %s", e.Spread)
			if e.Repetition != nil {
				sb.WriteString(", ")
			}
		}
		if e.Repetition != nil {
			fmt.Fprintf(&sb, "repeats every %s", e.Repetition)
		}
		sb.WriteString(")")
	}

	if len(e.Tags) > 0 {
		fmt.Fprintf(&sb, " tags: %s", strings.Join(e.Tags, ", "))
	}

	return sb.String()
}

// ParseAmount reads a dollar amount such as "$12.50" or "12.50" and
// returns it in cents, truncating sub-cent digits.
func ParseAmount(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return int64(f * 100), nil
}

// daysBetween returns b minus a in whole days.
func daysBetween(a, b SimpleDate) int {
	return int(b.Time(time.UTC).Sub(a.Time(time.UTC)).Hours() / 24)
}

// countOverlapDays measures the day overlap of an expense's spread
// window with a reporting period. Both ranges are inclusive of their
// start.
func countOverlapDays(periodStart, periodEnd, expenseStart, expenseEnd SimpleDate) int {
	if expenseEnd.Before(periodStart) || expenseStart.After(periodEnd) {
		return 0
	}

	if expenseStart.Compare(periodStart) >= 0 && expenseEnd.Before(periodEnd) {
		// period contains expense window
		return daysBetween(expenseStart, expenseEnd)
	}
	if periodStart.Compare(expenseStart) >= 0 && periodEnd.Before(expenseEnd) {
		// expense window contains period
		return daysBetween(periodStart, periodEnd)
	}

	if expenseEnd.Before(periodEnd) {
		// overlap at the start of the period
		return daysBetween(periodStart, expenseEnd)
	}
	// overlap at the end of the period
	return daysBetween(expenseStart, periodEnd)
}

// CalculateSpread totals the pro-rata dollar amounts of all expense
// occurrences falling within (start, start+period). Each occurrence's
// amount is distributed evenly across its spread window (one day when
// no spread is set) and only the overlapping days count.
func CalculateSpread(expenses []*Expense, start SimpleDate, period Duration) float64 {
	end := start.Add(period)
	sum := 0.0

	for _, expense := range expenses {
		spread := Duration{Unit: UnitDay, N: 1}
		if expense.Spread != nil {
			spread = *expense.Spread
		}

		current := expense.Start
		if expense.Repetition != nil {
			for current.Before(end) {
				sum += prorataOverlap(expense.AmountCents, current, spread, start, end)
				current = current.Next(expense.Repetition.Delta)
			}
		} else {
			sum += prorataOverlap(expense.AmountCents, current, spread, start, end)
		}
	}

	return sum / 100.0
}

func prorataOverlap(amountCents int64, occurrence SimpleDate, spread Duration, periodStart, periodEnd SimpleDate) float64 {
	spreadEnd := occurrence.Add(spread)
	nDays := float64(daysBetween(occurrence, spreadEnd))
	amountPerDay := float64(amountCents) / nDays
	overlap := countOverlapDays(periodStart, periodEnd, occurrence, spreadEnd)
	return amountPerDay * float64(overlap)
}
