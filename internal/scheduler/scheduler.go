package scheduler

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/robfig/cron/v3"

	"github.com/ledgerline/budgetbot/config"
	"github.com/ledgerline/budgetbot/internal/domain"
	"github.com/ledgerline/budgetbot/internal/service"
	"github.com/ledgerline/budgetbot/internal/storage"
)

type MessageSender interface {
	SendMessage(chatID int64, text string) error
}

// Scheduler sends the daily payment report at the configured time.
type Scheduler struct {
	cron           *cron.Cron
	cfg            *config.Config
	storage        *storage.Storage
	expenseService *service.ExpenseService
	sender         MessageSender
}

func New(cfg *config.Config, storage *storage.Storage, expenseSvc *service.ExpenseService) *Scheduler {
	c := cron.New(cron.WithLocation(cfg.Timezone))

	return &Scheduler{
		cron:           c,
		cfg:            cfg,
		storage:        storage,
		expenseService: expenseSvc,
	}
}

func (s *Scheduler) SetSender(sender MessageSender) {
	s.sender = sender
}

func (s *Scheduler) Start(ctx context.Context) error {
	spec, err := cronSpec(s.cfg.ReportTime)
	if err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(spec, s.dailyReport); err != nil {
		return fmt.Errorf("add daily report: %w", err)
	}

	s.cron.Start()
	log.Printf("Scheduler started (TZ: %s, report: %s)", s.cfg.Timezone, s.cfg.ReportTime)

	<-ctx.Done()
	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("Scheduler stopped")
}

// cronSpec converts an "HH:MM" wall-clock time into a daily cron entry.
func cronSpec(reportTime string) (string, error) {
	parts := strings.SplitN(reportTime, ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid report time %q, want HH:MM", reportTime)
	}

	var hour, minute int
	if _, err := fmt.Sscanf(reportTime, "%d:%d", &hour, &minute); err != nil {
		return "", fmt.Errorf("invalid report time %q, want HH:MM", reportTime)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid report time %q, want HH:MM", reportTime)
	}

	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

func (s *Scheduler) dailyReport() {
	if s.sender == nil {
		return
	}

	today := domain.Today(s.cfg.Timezone)
	due, err := s.expenseService.DueOn(today)
	if err != nil {
		log.Printf("Error getting due expenses: %v", err)
		return
	}
	if len(due) == 0 {
		return
	}

	text := s.expenseService.FormatReport(today, due)

	s.sendReportTo(s.cfg.OwnerTelegramID, text)
	if s.cfg.PartnerTelegramID != 0 {
		s.sendReportTo(s.cfg.PartnerTelegramID, text)
	}
}

func (s *Scheduler) sendReportTo(telegramID int64, text string) {
	user, err := s.storage.GetUserByTelegramID(telegramID)
	if err != nil || user == nil {
		return
	}

	if err := s.sender.SendMessage(telegramID, text); err != nil {
		log.Printf("Error sending daily report to %d: %v", telegramID, err)
	}
}
