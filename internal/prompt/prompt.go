// Package prompt implements the line-oriented interactive entry flows.
// Input and output are injected so the same flows serve a terminal and
// tests alike.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ledgerline/budgetbot/internal/domain"
)

type Prompter struct {
	r   *bufio.Reader
	w   io.Writer
	loc *time.Location
}

func New(r io.Reader, w io.Writer, loc *time.Location) *Prompter {
	if loc == nil {
		loc = time.Local
	}
	return &Prompter{r: bufio.NewReader(r), w: w, loc: loc}
}

// readLine prints a prompt and reads one trimmed line. EOF on a final
// unterminated line still returns its content.
func (p *Prompter) readLine(promptText string) (string, error) {
	fmt.Fprint(p.w, promptText)
	line, err := p.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// ReadDate prompts for a start date. Blank input selects today.
func (p *Prompter) ReadDate() (domain.SimpleDate, error) {
	line, err := p.readLine("start date (yyyy-mm-dd, blank for today): ")
	if err != nil {
		return domain.SimpleDate{}, err
	}

	if line == "" {
		return domain.Today(p.loc), nil
	}
	return domain.ParseDate(line)
}

// ReadRepetition prompts for a schedule and its end. Blank schedule
// input means no repetition.
func (p *Prompter) ReadRepetition(start domain.SimpleDate) (*domain.Repetition, error) {
	schedule, err := p.readLine("repetition schedule (blank for none): ")
	if err != nil {
		return nil, err
	}
	if schedule == "" {
		return nil, nil
	}

	end, err := p.readLine("repetition end (blank for none): ")
	if err != nil {
		return nil, err
	}

	rep, err := domain.ParseRepetition(schedule, end, start)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

// ReadSpread prompts for a spread duration. Blank input or a zero count
// means no spread.
func (p *Prompter) ReadSpread() (*domain.Duration, error) {
	line, err := p.readLine("spread (blank for none): ")
	if err != nil {
		return nil, err
	}
	if line == "" || strings.HasPrefix(line, "0 ") {
		return nil, nil
	}

	dur, err := domain.ParseDuration(line)
	if err != nil {
		return nil, err
	}
	return &dur, nil
}

// ReadExpense walks through the full entry flow: description, amount,
// start date, spread, repetition and tags. Income keeps the amount
// positive; spending is stored negated. Tags must come from the allowed
// set.
func (p *Prompter) ReadExpense(userID int64, isIncome bool, allowedTags map[string]bool) (*domain.Expense, error) {
	description, err := p.readLine("description: ")
	if err != nil {
		return nil, err
	}
	if description == "" {
		return nil, fmt.Errorf("description cannot be empty")
	}

	amountLine, err := p.readLine("amount: ")
	if err != nil {
		return nil, err
	}
	amount, err := domain.ParseAmount(amountLine)
	if err != nil {
		return nil, err
	}
	if !isIncome {
		amount = -amount
	}

	start, err := p.ReadDate()
	if err != nil {
		return nil, err
	}

	spread, err := p.ReadSpread()
	if err != nil {
		return nil, err
	}

	repetition, err := p.ReadRepetition(start)
	if err != nil {
		return nil, err
	}

	tagsLine, err := p.readLine("tags (comma- or space-separated): ")
	if err != nil {
		return nil, err
	}
	tags := SplitTags(tagsLine)
	for _, tag := range tags {
		if !allowedTags[tag] {
			return nil, fmt.Errorf("tag not found: %s", tag)
		}
	}

	return domain.NewExpense(0, userID, description, amount, start, spread, repetition, tags), nil
}

// SplitTags splits a comma- or space-separated tag list, dropping
// empty entries.
func SplitTags(s string) []string {
	var tags []string
	for _, tag := range strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ','
	}) {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
