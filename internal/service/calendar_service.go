package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ledgerline/budgetbot/internal/clients/caldav"
	"github.com/ledgerline/budgetbot/internal/domain"
	"github.com/ledgerline/budgetbot/internal/storage"
)

// CalendarService publishes expense schedules to a CalDAV calendar so
// upcoming payments show up alongside regular events.
type CalendarService struct {
	storage      *storage.Storage
	caldavClient *caldav.Client
	calendarPath string
	timezone     *time.Location
}

func NewCalendarService(s *storage.Storage, client *caldav.Client, tz *time.Location) *CalendarService {
	if tz == nil {
		tz = time.UTC
	}
	return &CalendarService{
		storage:      s,
		caldavClient: client,
		timezone:     tz,
	}
}

// IsConfigured returns true if CalDAV client is configured
func (s *CalendarService) IsConfigured() bool {
	return s.caldavClient != nil && s.caldavClient.IsConfigured()
}

// SetCalendarPath sets the calendar path to publish to
func (s *CalendarService) SetCalendarPath(path string) {
	s.calendarPath = path
	if s.caldavClient != nil {
		s.caldavClient.SetCalendarID(path)
	}
}

// DiscoverCalendars returns the calendars available on the server
func (s *CalendarService) DiscoverCalendars() ([]caldav.Calendar, error) {
	if !s.IsConfigured() {
		return nil, fmt.Errorf("CalDAV not configured")
	}
	return s.caldavClient.DiscoverCalendars()
}

// PublishExpense creates or replaces the all-day calendar event for an
// expense. Recurring expenses carry an RRULE so the calendar expands
// the occurrences itself.
func (s *CalendarService) PublishExpense(e *domain.Expense) error {
	if !s.IsConfigured() || s.calendarPath == "" {
		return nil
	}

	event, err := ExpenseToEvent(e)
	if err != nil {
		return err
	}

	if err := s.caldavClient.PutEvent(s.calendarPath, event); err != nil {
		return fmt.Errorf("publish expense %d: %w", e.ID, err)
	}
	return s.storage.UpdateExpenseCalDAVUID(e.ID, event.UID)
}

// UnpublishExpense removes the calendar event for a deleted expense.
// A missing event on the server is not an error.
func (s *CalendarService) UnpublishExpense(expenseID int64) error {
	if !s.IsConfigured() || s.calendarPath == "" {
		return nil
	}

	uid, err := s.storage.GetExpenseCalDAVUID(expenseID)
	if err != nil {
		return fmt.Errorf("get calendar uid: %w", err)
	}
	if uid == "" {
		uid = expenseUID(expenseID)
	}

	if err := s.caldavClient.DeleteEvent(s.calendarPath, uid); err != nil {
		if !strings.Contains(err.Error(), "404") && !strings.Contains(err.Error(), "not found") {
			return fmt.Errorf("unpublish expense %d: %w", expenseID, err)
		}
	}
	return nil
}

// PublishAll pushes every stored expense to the calendar, returning the
// number published and the errors encountered.
func (s *CalendarService) PublishAll() (int, []string) {
	expenses, err := s.storage.ListExpenses()
	if err != nil {
		return 0, []string{fmt.Sprintf("list expenses: %v", err)}
	}

	published := 0
	var errs []string
	for _, e := range expenses {
		if err := s.PublishExpense(e); err != nil {
			errs = append(errs, err.Error())
			continue
		}
		published++
	}
	return published, errs
}

// ExpenseToEvent builds the all-day VEVENT for an expense.
func ExpenseToEvent(e *domain.Expense) (*caldav.Event, error) {
	event := &caldav.Event{
		UID:         expenseUID(e.ID),
		Summary:     eventSummary(e),
		Description: e.String(),
		StartTime:   e.Start.Time(time.UTC),
		AllDay:      true,
	}

	if e.Repetition != nil {
		rule, err := e.Repetition.RRule(e.Start)
		if err != nil {
			return nil, fmt.Errorf("expense %d: %w", e.ID, err)
		}
		event.RRule = rule
	}

	return event, nil
}

func eventSummary(e *domain.Expense) string {
	abs := e.AmountCents
	label := "pay"
	if abs < 0 {
		abs = -abs
	} else {
		label = "receive"
	}
	return fmt.Sprintf("%s $%d.%02d: %s", label, abs/100, abs%100, e.Description)
}

func expenseUID(id int64) string {
	return fmt.Sprintf("expense-%d@budgetbot", id)
}
