package bot

import (
	"fmt"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ledgerline/budgetbot/internal/domain"
)

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.Message != nil {
		b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	userID := msg.From.ID
	chatID := msg.Chat.ID

	if !b.cfg.IsAllowedUser(userID) {
		b.SendMessage(chatID, "Access denied")
		return
	}

	user, err := b.storage.GetUserByTelegramID(userID)
	if err != nil {
		log.Printf("Error getting user: %v", err)
		return
	}

	if user == nil {
		user = b.autoRegisterUser(msg.From)
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg, user)
		return
	}

	// Any semicolon-separated line is treated as a quick-add entry
	if user != nil && strings.Contains(text, ";") {
		b.quickAdd(chatID, user, text)
		return
	}

	b.SendMessage(chatID, "Send <code>description; amount</code> to record an expense, or /help for commands")
}

// autoRegisterUser registers an allowed user on first contact
func (b *Bot) autoRegisterUser(from *tgbotapi.User) *domain.User {
	name := from.FirstName
	if from.LastName != "" {
		name += " " + from.LastName
	}

	role := domain.RoleOwner
	if from.ID == b.cfg.PartnerTelegramID {
		role = domain.RolePartner
	}

	newUser := &domain.User{
		TelegramID: from.ID,
		Name:       name,
		Role:       role,
	}

	if err := b.storage.CreateUser(newUser); err != nil {
		log.Printf("Error auto-registering user: %v", err)
		return nil
	}

	log.Printf("Auto-registered user: %s (ID: %d)", name, from.ID)
	return newUser
}

func (b *Bot) quickAdd(chatID int64, user *domain.User, line string) {
	e, err := b.expenseService.QuickAdd(user.ID, line)
	if err != nil {
		b.SendMessage(chatID, "Error: "+err.Error())
		return
	}

	if b.calendarService != nil {
		if err := b.calendarService.PublishExpense(e); err != nil {
			log.Printf("Error publishing expense %d: %v", e.ID, err)
		}
	}

	b.SendMessage(chatID, fmt.Sprintf("Recorded #%d: %s", e.ID, e))
}
