package bot

import (
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ledgerline/budgetbot/internal/domain"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message, user *domain.User) {
	chatID := msg.Chat.ID
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	switch cmd {
	case "start":
		b.cmdStart(msg)
	case "help":
		b.cmdHelp(chatID)
	case "add":
		b.cmdAdd(chatID, user, args)
	case "list":
		b.cmdList(chatID, user)
	case "del":
		b.cmdDelete(chatID, user, args)
	case "due":
		b.cmdDue(chatID, args)
	case "report":
		b.cmdReport(chatID, args)
	case "tags":
		b.cmdTags(chatID)
	case "tag":
		b.cmdTag(chatID, args)
	case "untag":
		b.cmdUntag(chatID, args)
	case "export":
		b.cmdExport(chatID)
	case "calendars":
		b.cmdCalendars(chatID)
	default:
		b.SendMessage(chatID, "Unknown command. /help for the list")
	}
}

func (b *Bot) cmdStart(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	userID := msg.From.ID

	user, _ := b.storage.GetUserByTelegramID(userID)
	if user != nil {
		b.SendMessage(chatID, fmt.Sprintf("Welcome back, %s!", user.Name))
		return
	}

	user = b.autoRegisterUser(msg.From)
	if user == nil {
		b.SendMessage(chatID, "Registration failed, try again")
		return
	}

	b.SendMessage(chatID, fmt.Sprintf("Hi, %s!\n\nI track your household expenses and payment schedules.\n\n/help for commands", user.Name))
}

func (b *Bot) cmdHelp(chatID int64) {
	text := `<b>Commands:</b>

<b>Expenses</b>
/add desc; amount; [start]; [schedule]; [end]; [tags] - add an entry
/list - all expenses
/del ID - delete an expense

<b>Reports</b>
/due [yyyy-mm-dd] - payments due on a day (default today)
/report [period] [tag] - pro-rata total, e.g. /report 1 month food

<b>Tags</b>
/tags - list tags
/tag name - register a tag
/untag name - remove a tag

<b>Calendar</b>
/export - publish all schedules to the calendar
/calendars - list calendars on the server

Negative amounts are spending, positive income.
Schedules read like "every 2 weeks on mon" or "monthly on the 15th".`

	b.SendMessage(chatID, text)
}

func (b *Bot) cmdAdd(chatID int64, user *domain.User, args string) {
	if user == nil {
		b.SendMessage(chatID, "Run /start first")
		return
	}
	if args == "" {
		b.SendMessage(chatID, "Usage: /add rent; -1500; 2021-01-01; monthly on the 1st; never; housing")
		return
	}
	b.quickAdd(chatID, user, args)
}

func (b *Bot) cmdList(chatID int64, user *domain.User) {
	if user == nil {
		b.SendMessage(chatID, "Run /start first")
		return
	}

	expenses, err := b.expenseService.List(user.ID)
	if err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}

	b.SendMessage(chatID, "<b>Expenses:</b>\n\n"+b.expenseService.FormatExpenseList(expenses))
}

func (b *Bot) cmdDelete(chatID int64, user *domain.User, args string) {
	if user == nil {
		b.SendMessage(chatID, "Run /start first")
		return
	}
	if args == "" {
		b.SendMessage(chatID, "Usage: /del 3")
		return
	}

	id, err := strconv.ParseInt(args, 10, 64)
	if err != nil {
		b.SendMessage(chatID, "Invalid expense ID")
		return
	}

	if err := b.expenseService.Delete(id, user.ID); err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}

	if b.calendarService != nil {
		if err := b.calendarService.UnpublishExpense(id); err != nil {
			b.SendMessage(chatID, "Deleted locally, calendar cleanup failed: "+err.Error())
			return
		}
	}

	b.SendMessage(chatID, "Deleted expense #"+args)
}

func (b *Bot) cmdDue(chatID int64, args string) {
	day := domain.Today(b.cfg.Timezone)
	if args != "" {
		var err error
		day, err = domain.ParseDate(args)
		if err != nil {
			b.SendMessage(chatID, "Invalid date, want yyyy-mm-dd")
			return
		}
	}

	due, err := b.expenseService.DueOn(day)
	if err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}

	b.SendMessage(chatID, b.expenseService.FormatReport(day, due))
}

// cmdReport handles "/report [count unit] [tag]", defaulting to one
// month from today across all tags.
func (b *Bot) cmdReport(chatID int64, args string) {
	period := domain.Duration{Unit: domain.UnitMonth, N: 1}
	tag := ""

	if args != "" {
		fields := strings.Fields(args)
		if len(fields) >= 2 {
			if d, err := domain.ParseDuration(fields[0] + " " + fields[1]); err == nil {
				period = d
				fields = fields[2:]
			}
		}
		if len(fields) > 0 {
			tag = fields[0]
		}
	}

	start := domain.Today(b.cfg.Timezone)
	total, err := b.expenseService.SpreadTotal(start, period, tag)
	if err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}

	scope := "all expenses"
	if tag != "" {
		scope = "tag " + tag
	}
	b.SendMessage(chatID, fmt.Sprintf("Pro-rata total for %s over %s from %s: $%.2f", scope, period, start, total))
}

func (b *Bot) cmdTags(chatID int64) {
	tags, err := b.expenseService.Tags()
	if err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}
	if len(tags) == 0 {
		b.SendMessage(chatID, "No tags yet. /tag name to add one")
		return
	}
	b.SendMessage(chatID, "<b>Tags:</b> "+strings.Join(tags, ", "))
}

func (b *Bot) cmdTag(chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Usage: /tag food")
		return
	}
	if err := b.expenseService.AddTag(args); err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}
	b.SendMessage(chatID, "Tag added: "+args)
}

func (b *Bot) cmdUntag(chatID int64, args string) {
	if args == "" {
		b.SendMessage(chatID, "Usage: /untag food")
		return
	}
	if err := b.expenseService.RemoveTag(args); err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}
	b.SendMessage(chatID, "Tag removed: "+args)
}

func (b *Bot) cmdExport(chatID int64) {
	if b.calendarService == nil || !b.calendarService.IsConfigured() {
		b.SendMessage(chatID, "CalDAV is not configured")
		return
	}

	published, errs := b.calendarService.PublishAll()
	text := fmt.Sprintf("Published %d expenses to the calendar", published)
	if len(errs) > 0 {
		text += fmt.Sprintf("\n%d failures:\n%s", len(errs), strings.Join(errs, "\n"))
	}
	b.SendMessage(chatID, text)
}

func (b *Bot) cmdCalendars(chatID int64) {
	if b.calendarService == nil || !b.calendarService.IsConfigured() {
		b.SendMessage(chatID, "CalDAV is not configured")
		return
	}

	cals, err := b.calendarService.DiscoverCalendars()
	if err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString("<b>Calendars:</b>\n")
	for _, c := range cals {
		fmt.Fprintf(&sb, "%s - %s\n", c.DisplayName, c.ID)
	}
	b.SendMessage(chatID, sb.String())
}
