package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ledgerline/budgetbot/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

type Storage struct {
	db *sql.DB
}

func New(dbPath string) (*Storage, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping db: %w", err)
	}

	s := &Storage{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			telegram_id INTEGER UNIQUE NOT NULL,
			name TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'owner',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		// Dates are yyyy-mm-dd text so string comparison orders them.
		// Spread and repetition are JSON, empty when absent.
		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			description TEXT NOT NULL,
			amount_cents INTEGER NOT NULL,
			start_date TEXT NOT NULL,
			end_date TEXT,
			spread TEXT DEFAULT '',
			repetition TEXT DEFAULT '',
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id)
		)`,
		`CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS expense_tags (
			expense_id INTEGER NOT NULL,
			tag_id INTEGER NOT NULL,
			PRIMARY KEY (expense_id, tag_id),
			FOREIGN KEY (expense_id) REFERENCES expenses(id) ON DELETE CASCADE,
			FOREIGN KEY (tag_id) REFERENCES tags(id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_user_id ON expenses(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_start ON expenses(start_date)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_end ON expenses(end_date)`,
		// CalDAV sync state per expense
		`ALTER TABLE expenses ADD COLUMN caldav_uid TEXT DEFAULT ''`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_caldav ON expenses(caldav_uid)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			// Ignore "duplicate column" errors for ALTER TABLE
			if !strings.Contains(err.Error(), "duplicate column") {
				return fmt.Errorf("exec migration: %w", err)
			}
		}
	}
	return nil
}

// === Users ===

func (s *Storage) CreateUser(u *domain.User) error {
	res, err := s.db.Exec(
		`INSERT INTO users (telegram_id, name, role) VALUES (?, ?, ?)`,
		u.TelegramID, u.Name, u.Role,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	u.ID = id
	u.CreatedAt = time.Now()
	return nil
}

func (s *Storage) GetUserByTelegramID(telegramID int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT id, telegram_id, name, role, created_at FROM users WHERE telegram_id = ?`,
		telegramID,
	).Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

func (s *Storage) GetUserByID(id int64) (*domain.User, error) {
	u := &domain.User{}
	err := s.db.QueryRow(
		`SELECT id, telegram_id, name, role, created_at FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return u, err
}

// ListUsers returns all users
func (s *Storage) ListUsers() ([]*domain.User, error) {
	rows, err := s.db.Query(`SELECT id, telegram_id, name, role, created_at FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u := &domain.User{}
		if err := rows.Scan(&u.ID, &u.TelegramID, &u.Name, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// === Expenses ===

func (s *Storage) CreateExpense(e *domain.Expense) error {
	spread, repetition, err := encodeSchedule(e)
	if err != nil {
		return err
	}

	res, err := s.db.Exec(
		`INSERT INTO expenses (user_id, description, amount_cents, start_date, end_date, spread, repetition)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.Description, e.AmountCents, e.Start.String(), endDateColumn(e), spread, repetition,
	)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	e.ID = id
	e.CreatedAt = time.Now()

	return s.replaceExpenseTags(e.ID, e.Tags)
}

func (s *Storage) GetExpense(id int64) (*domain.Expense, error) {
	row := s.db.QueryRow(
		`SELECT id, user_id, description, amount_cents, start_date, end_date, spread, repetition, created_at
		 FROM expenses WHERE id = ?`,
		id,
	)
	e, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	e.Tags, err = s.listExpenseTags(e.ID)
	return e, err
}

func (s *Storage) ListExpensesByUser(userID int64) ([]*domain.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, description, amount_cents, start_date, end_date, spread, repetition, created_at
		 FROM expenses WHERE user_id = ? ORDER BY start_date, id`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectExpenses(rows)
}

// ListExpenses returns every expense across all users, ordered by start date.
func (s *Storage) ListExpenses() ([]*domain.Expense, error) {
	rows, err := s.db.Query(
		`SELECT id, user_id, description, amount_cents, start_date, end_date, spread, repetition, created_at
		 FROM expenses ORDER BY start_date, id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectExpenses(rows)
}

// ListActiveExpenses returns expenses whose window covers the given day:
// started on or before it and either open-ended or not yet past their
// end date.
func (s *Storage) ListActiveExpenses(day domain.SimpleDate) ([]*domain.Expense, error) {
	d := day.String()
	rows, err := s.db.Query(
		`SELECT id, user_id, description, amount_cents, start_date, end_date, spread, repetition, created_at
		 FROM expenses WHERE start_date <= ? AND (end_date IS NULL OR end_date >= ?)
		 ORDER BY start_date, id`,
		d, d,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectExpenses(rows)
}

// ListExpensesByTag returns the expenses carrying the given tag.
func (s *Storage) ListExpensesByTag(tag string) ([]*domain.Expense, error) {
	rows, err := s.db.Query(
		`SELECT e.id, e.user_id, e.description, e.amount_cents, e.start_date, e.end_date, e.spread, e.repetition, e.created_at
		 FROM expenses e
		 JOIN expense_tags et ON et.expense_id = e.id
		 JOIN tags t ON t.id = et.tag_id
		 WHERE t.name = ? ORDER BY e.start_date, e.id`,
		tag,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return s.collectExpenses(rows)
}

func (s *Storage) UpdateExpense(e *domain.Expense) error {
	spread, repetition, err := encodeSchedule(e)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`UPDATE expenses SET description = ?, amount_cents = ?, start_date = ?, end_date = ?, spread = ?, repetition = ?
		 WHERE id = ?`,
		e.Description, e.AmountCents, e.Start.String(), endDateColumn(e), spread, repetition, e.ID,
	)
	if err != nil {
		return err
	}
	return s.replaceExpenseTags(e.ID, e.Tags)
}

func (s *Storage) DeleteExpense(id int64) error {
	_, err := s.db.Exec(`DELETE FROM expenses WHERE id = ?`, id)
	return err
}

// UpdateExpenseCalDAVUID records the UID of the published calendar
// object for an expense.
func (s *Storage) UpdateExpenseCalDAVUID(id int64, uid string) error {
	_, err := s.db.Exec(`UPDATE expenses SET caldav_uid = ? WHERE id = ?`, uid, id)
	return err
}

// GetExpenseCalDAVUID returns the stored calendar UID, empty when the
// expense was never published.
func (s *Storage) GetExpenseCalDAVUID(id int64) (string, error) {
	var uid string
	err := s.db.QueryRow(`SELECT COALESCE(caldav_uid, '') FROM expenses WHERE id = ?`, id).Scan(&uid)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return uid, err
}

func (s *Storage) collectExpenses(rows *sql.Rows) ([]*domain.Expense, error) {
	var expenses []*domain.Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, e := range expenses {
		tags, err := s.listExpenseTags(e.ID)
		if err != nil {
			return nil, err
		}
		e.Tags = tags
	}
	return expenses, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*domain.Expense, error) {
	e := &domain.Expense{}
	var start string
	var end sql.NullString
	var spread, repetition string
	if err := row.Scan(&e.ID, &e.UserID, &e.Description, &e.AmountCents,
		&start, &end, &spread, &repetition, &e.CreatedAt); err != nil {
		return nil, err
	}

	var err error
	e.Start, err = domain.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("expense %d: bad start date: %w", e.ID, err)
	}
	if end.Valid && end.String != "" {
		d, err := domain.ParseDate(end.String)
		if err != nil {
			return nil, fmt.Errorf("expense %d: bad end date: %w", e.ID, err)
		}
		e.End = &d
	}
	if spread != "" {
		var dur domain.Duration
		if err := json.Unmarshal([]byte(spread), &dur); err != nil {
			return nil, fmt.Errorf("expense %d: bad spread: %w", e.ID, err)
		}
		e.Spread = &dur
	}
	if repetition != "" {
		var rep domain.Repetition
		if err := json.Unmarshal([]byte(repetition), &rep); err != nil {
			return nil, fmt.Errorf("expense %d: bad repetition: %w", e.ID, err)
		}
		e.Repetition = &rep
	}
	return e, nil
}

func encodeSchedule(e *domain.Expense) (spread, repetition string, err error) {
	if e.Spread != nil {
		b, err := json.Marshal(e.Spread)
		if err != nil {
			return "", "", fmt.Errorf("marshal spread: %w", err)
		}
		spread = string(b)
	}
	if e.Repetition != nil {
		b, err := json.Marshal(e.Repetition)
		if err != nil {
			return "", "", fmt.Errorf("marshal repetition: %w", err)
		}
		repetition = string(b)
	}
	return spread, repetition, nil
}

func endDateColumn(e *domain.Expense) any {
	if e.End == nil {
		return nil
	}
	return e.End.String()
}

// === Tags ===

// CreateTag registers a tag name. Creating an existing tag is not an error.
func (s *Storage) CreateTag(name string) error {
	_, err := s.db.Exec(`INSERT OR IGNORE INTO tags (name) VALUES (?)`, name)
	return err
}

// DeleteTag removes a tag and its links to expenses.
func (s *Storage) DeleteTag(name string) error {
	_, err := s.db.Exec(`DELETE FROM tags WHERE name = ?`, name)
	return err
}

// TagExists reports whether the tag name is registered.
func (s *Storage) TagExists(name string) (bool, error) {
	var count int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM tags WHERE name = ?`, name).Scan(&count)
	return count > 0, err
}

// ListTags returns all registered tag names in alphabetical order.
func (s *Storage) ListTags() ([]string, error) {
	rows, err := s.db.Query(`SELECT name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (s *Storage) listExpenseTags(expenseID int64) ([]string, error) {
	rows, err := s.db.Query(
		`SELECT t.name FROM tags t
		 JOIN expense_tags et ON et.tag_id = t.id
		 WHERE et.expense_id = ? ORDER BY t.name`,
		expenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tags = append(tags, name)
	}
	return tags, rows.Err()
}

func (s *Storage) replaceExpenseTags(expenseID int64, tags []string) error {
	if _, err := s.db.Exec(`DELETE FROM expense_tags WHERE expense_id = ?`, expenseID); err != nil {
		return err
	}
	for _, tag := range tags {
		if err := s.CreateTag(tag); err != nil {
			return err
		}
		_, err := s.db.Exec(
			`INSERT INTO expense_tags (expense_id, tag_id)
			 SELECT ?, id FROM tags WHERE name = ?`,
			expenseID, tag,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
