package service

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ledgerline/budgetbot/internal/domain"
	"github.com/ledgerline/budgetbot/internal/storage"
)

type ExpenseService struct {
	storage *storage.Storage
	loc     *time.Location
}

func NewExpenseService(s *storage.Storage, loc *time.Location) *ExpenseService {
	if loc == nil {
		loc = time.UTC
	}
	return &ExpenseService{storage: s, loc: loc}
}

// Add validates tags against the registered set and stores the expense.
func (s *ExpenseService) Add(e *domain.Expense) error {
	e.Description = strings.TrimSpace(e.Description)
	if e.Description == "" {
		return fmt.Errorf("expense description cannot be empty")
	}

	for _, tag := range e.Tags {
		exists, err := s.storage.TagExists(tag)
		if err != nil {
			return fmt.Errorf("check tag: %w", err)
		}
		if !exists {
			return fmt.Errorf("tag not found: %s", tag)
		}
	}

	if err := s.storage.CreateExpense(e); err != nil {
		return fmt.Errorf("create expense: %w", err)
	}
	return nil
}

// QuickAdd parses a single-line semicolon entry:
//
//	description; amount[; start][; schedule][; end][; tag tag ...]
//
// Only description and amount are required. A negative amount records
// spending; quick-add preserves the sign as written.
func (s *ExpenseService) QuickAdd(userID int64, line string) (*domain.Expense, error) {
	parts := strings.Split(line, ";")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 || parts[0] == "" {
		return nil, fmt.Errorf("expected at least: description; amount")
	}

	amount, err := domain.ParseAmount(parts[1])
	if err != nil {
		return nil, err
	}

	start := domain.Today(s.loc)
	if len(parts) > 2 && parts[2] != "" {
		start, err = domain.ParseDate(parts[2])
		if err != nil {
			return nil, err
		}
	}

	var rep *domain.Repetition
	if len(parts) > 3 && parts[3] != "" {
		end := ""
		if len(parts) > 4 {
			end = parts[4]
		}
		r, err := domain.ParseRepetition(parts[3], end, start)
		if err != nil {
			return nil, err
		}
		rep = &r
	}

	var tags []string
	if len(parts) > 5 && parts[5] != "" {
		tags = strings.Fields(parts[5])
	}

	e := domain.NewExpense(0, userID, parts[0], amount, start, nil, rep, tags)
	if err := s.Add(e); err != nil {
		return nil, err
	}
	return e, nil
}

// List returns a user's expenses ordered by end date, open-ended last.
func (s *ExpenseService) List(userID int64) ([]*domain.Expense, error) {
	expenses, err := s.storage.ListExpensesByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].CompareDates(expenses[j]) < 0
	})
	return expenses, nil
}

func (s *ExpenseService) Get(id int64) (*domain.Expense, error) {
	return s.storage.GetExpense(id)
}

func (s *ExpenseService) Delete(id, userID int64) error {
	e, err := s.storage.GetExpense(id)
	if err != nil {
		return fmt.Errorf("get expense: %w", err)
	}
	if e == nil {
		return fmt.Errorf("expense not found")
	}
	if e.UserID != userID {
		return fmt.Errorf("access denied")
	}
	return s.storage.DeleteExpense(id)
}

// DueOn returns the expenses with an occurrence landing exactly on day.
func (s *ExpenseService) DueOn(day domain.SimpleDate) ([]*domain.Expense, error) {
	active, err := s.storage.ListActiveExpenses(day)
	if err != nil {
		return nil, fmt.Errorf("list active expenses: %w", err)
	}

	var due []*domain.Expense
	for _, e := range active {
		if occursOn(e, day) {
			due = append(due, e)
		}
	}
	return due, nil
}

// occursOn walks the schedule from the start date until it reaches or
// passes day. Storage already filtered out expenses past their end.
func occursOn(e *domain.Expense, day domain.SimpleDate) bool {
	if e.Repetition == nil {
		return e.Start.Equal(day)
	}

	current := e.Start
	for current.Before(day) {
		current = current.Next(e.Repetition.Delta)
	}
	return current.Equal(day)
}

// SpreadTotal reports the pro-rata total over (start, start+period) for
// all expenses, optionally restricted to a tag.
func (s *ExpenseService) SpreadTotal(start domain.SimpleDate, period domain.Duration, tag string) (float64, error) {
	var expenses []*domain.Expense
	var err error
	if tag == "" {
		expenses, err = s.storage.ListExpenses()
	} else {
		expenses, err = s.storage.ListExpensesByTag(tag)
	}
	if err != nil {
		return 0, fmt.Errorf("list expenses: %w", err)
	}
	return domain.CalculateSpread(expenses, start, period), nil
}

// Tags returns the registered tag names.
func (s *ExpenseService) Tags() ([]string, error) {
	return s.storage.ListTags()
}

func (s *ExpenseService) AddTag(name string) error {
	name = strings.TrimSpace(strings.ToLower(name))
	if name == "" {
		return fmt.Errorf("tag name cannot be empty")
	}
	return s.storage.CreateTag(name)
}

// RemoveTag unregisters a tag and strips it from every expense.
func (s *ExpenseService) RemoveTag(name string) error {
	return s.storage.DeleteTag(name)
}

func (s *ExpenseService) FormatExpenseList(expenses []*domain.Expense) string {
	if len(expenses) == 0 {
		return "No expenses"
	}

	var sb strings.Builder
	for _, e := range expenses {
		fmt.Fprintf(&sb, "#%d %s\n", e.ID, e)
	}
	return sb.String()
}

// FormatReport renders the daily due list used by the scheduler and the
// /due command.
func (s *ExpenseService) FormatReport(day domain.SimpleDate, due []*domain.Expense) string {
	if len(due) == 0 {
		return fmt.Sprintf("Nothing due on %s", day)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Due on %s:\n", day)
	var totalCents int64
	for _, e := range due {
		fmt.Fprintf(&sb, "  #%d %s\n", e.ID, e)
		totalCents += e.AmountCents
	}
	abs := totalCents
	sign := ""
	if abs < 0 {
		abs = -abs
		sign = "-"
	}
	fmt.Fprintf(&sb, "Total: %s$%d.%02d", sign, abs/100, abs%100)
	return sb.String()
}
