package bot

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ledgerline/budgetbot/internal/domain"
)

type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

type ExpenseResponse struct {
	ID          int64    `json:"id"`
	Description string   `json:"description"`
	AmountCents int64    `json:"amount_cents"`
	Start       string   `json:"start"`
	End         *string  `json:"end,omitempty"`
	Spread      string   `json:"spread,omitempty"`
	Repetition  string   `json:"repetition,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func expenseResponse(e *domain.Expense) ExpenseResponse {
	resp := ExpenseResponse{
		ID:          e.ID,
		Description: e.Description,
		AmountCents: e.AmountCents,
		Start:       e.Start.String(),
		Tags:        e.Tags,
	}
	if e.End != nil {
		end := e.End.String()
		resp.End = &end
	}
	if e.Spread != nil {
		resp.Spread = e.Spread.String()
	}
	if e.Repetition != nil {
		resp.Repetition = e.Repetition.String()
	}
	return resp
}

// SetupAPI registers API routes with Basic Auth
func (b *Bot) SetupAPI() {
	if b.cfg.APIUsername == "" || b.cfg.APIPassword == "" {
		return // API disabled if no credentials
	}

	http.HandleFunc("/api/expenses", b.basicAuth(b.apiExpenses))
	http.HandleFunc("/api/expense/", b.basicAuth(b.apiExpense))
	http.HandleFunc("/api/due", b.basicAuth(b.apiDue))
	http.HandleFunc("/api/report", b.basicAuth(b.apiReport))
	http.HandleFunc("/api/tags", b.basicAuth(b.apiTags))
}

func (b *Bot) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username, password, ok := r.BasicAuth()
		if !ok || username != b.cfg.APIUsername || password != b.cfg.APIPassword {
			w.Header().Set("WWW-Authenticate", `Basic realm="BudgetBot API"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func (b *Bot) jsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

func (b *Bot) jsonError(w http.ResponseWriter, err string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(APIResponse{Success: false, Error: err})
}

// ownerID resolves the owner's user row, registering it if the owner
// has never talked to the bot. Expenses reference users by foreign key,
// so a raw Telegram ID is no substitute for a user ID.
func (b *Bot) ownerID() (int64, error) {
	user, err := b.storage.GetUserByTelegramID(b.cfg.OwnerTelegramID)
	if err != nil {
		return 0, fmt.Errorf("get owner: %w", err)
	}
	if user != nil {
		return user.ID, nil
	}

	user = &domain.User{TelegramID: b.cfg.OwnerTelegramID, Name: "owner", Role: domain.RoleOwner}
	if err := b.storage.CreateUser(user); err != nil {
		return 0, fmt.Errorf("register owner: %w", err)
	}
	return user.ID, nil
}

// GET /api/expenses - list expenses
// POST /api/expenses - quick-add from {"line": "desc; amount; ..."}
func (b *Bot) apiExpenses(w http.ResponseWriter, r *http.Request) {
	owner, err := b.ownerID()
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodGet:
		expenses, err := b.expenseService.List(owner)
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		resp := make([]ExpenseResponse, 0, len(expenses))
		for _, e := range expenses {
			resp = append(resp, expenseResponse(e))
		}
		b.jsonResponse(w, resp)

	case http.MethodPost:
		var req struct {
			Line string `json:"line"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			b.jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		e, err := b.expenseService.QuickAdd(owner, req.Line)
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.jsonResponse(w, expenseResponse(e))

	default:
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/expense/{id}
// DELETE /api/expense/{id}
func (b *Bot) apiExpense(w http.ResponseWriter, r *http.Request) {
	idStr := strings.TrimPrefix(r.URL.Path, "/api/expense/")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		b.jsonError(w, "invalid expense id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		e, err := b.expenseService.Get(id)
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if e == nil {
			b.jsonError(w, "expense not found", http.StatusNotFound)
			return
		}
		b.jsonResponse(w, expenseResponse(e))

	case http.MethodDelete:
		owner, err := b.ownerID()
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := b.expenseService.Delete(id, owner); err != nil {
			b.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.jsonResponse(w, "deleted")

	default:
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// GET /api/due?date=yyyy-mm-dd
func (b *Bot) apiDue(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	day := domain.Today(b.cfg.Timezone)
	if d := r.URL.Query().Get("date"); d != "" {
		var err error
		day, err = domain.ParseDate(d)
		if err != nil {
			b.jsonError(w, "invalid date, want yyyy-mm-dd", http.StatusBadRequest)
			return
		}
	}

	due, err := b.expenseService.DueOn(day)
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	resp := make([]ExpenseResponse, 0, len(due))
	for _, e := range due {
		resp = append(resp, expenseResponse(e))
	}
	b.jsonResponse(w, resp)
}

// GET /api/report?count=1&unit=month&tag=food
func (b *Bot) apiReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	period := domain.Duration{Unit: domain.UnitMonth, N: 1}
	q := r.URL.Query()
	if q.Get("count") != "" || q.Get("unit") != "" {
		var err error
		period, err = domain.ParseDuration(q.Get("count") + " " + q.Get("unit"))
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	start := domain.Today(b.cfg.Timezone)
	total, err := b.expenseService.SpreadTotal(start, period, q.Get("tag"))
	if err != nil {
		b.jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	b.jsonResponse(w, map[string]interface{}{
		"start":  start.String(),
		"period": period.String(),
		"tag":    q.Get("tag"),
		"total":  total,
	})
}

// GET /api/tags - list tags
// POST /api/tags - register from {"name": "food"}
func (b *Bot) apiTags(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		tags, err := b.expenseService.Tags()
		if err != nil {
			b.jsonError(w, err.Error(), http.StatusInternalServerError)
			return
		}
		b.jsonResponse(w, tags)

	case http.MethodPost:
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			b.jsonError(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if err := b.expenseService.AddTag(req.Name); err != nil {
			b.jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		b.jsonResponse(w, "created")

	default:
		b.jsonError(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
