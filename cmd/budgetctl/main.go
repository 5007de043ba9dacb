// budgetctl is a terminal companion to the bot: it works on the same
// database directly, with interactive entry instead of chat commands.
package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerline/budgetbot/internal/clients/caldav"
	"github.com/ledgerline/budgetbot/internal/domain"
	"github.com/ledgerline/budgetbot/internal/prompt"
	"github.com/ledgerline/budgetbot/internal/service"
	"github.com/ledgerline/budgetbot/internal/storage"
)

func main() {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	dbPath := os.Getenv("DATABASE_PATH")
	if dbPath == "" {
		dbPath = "./data/budgetbot.db"
	}

	loc := time.Local
	if tz := os.Getenv("TIMEZONE"); tz != "" {
		var err error
		loc, err = time.LoadLocation(tz)
		if err != nil {
			log.Fatalf("invalid TIMEZONE: %v", err)
		}
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("open storage: %v", err)
	}
	defer store.Close()

	svc := service.NewExpenseService(store, loc)
	uid := localUserID(store)

	switch os.Args[1] {
	case "add":
		runAdd(svc, loc, false, uid)
	case "income":
		runAdd(svc, loc, true, uid)
	case "list":
		runList(svc, uid)
	case "del":
		runDelete(svc, os.Args[2:], uid)
	case "due":
		runDue(svc, loc, os.Args[2:])
	case "report":
		runReport(svc, loc, os.Args[2:])
	case "tags":
		runTags(svc, os.Args[2:])
	case "export":
		runExport(store)
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: budgetctl <command>

  add               record spending interactively
  income            record income interactively
  list              list all expenses
  del <id>          delete an expense
  due [date]        payments due on a day (default today)
  report [count unit] [tag]
                    pro-rata total over a period
  tags [add|del name]
                    list or manage tags
  export            publish all schedules via CalDAV

Environment: DATABASE_PATH, TIMEZONE; export also needs
CALDAV_URL, CALDAV_USERNAME, CALDAV_PASSWORD, CALDAV_CALENDAR.`)
}

// localUserID returns the console user's row, creating it on a fresh
// database. Expenses reference users by foreign key, so a user row must
// exist before anything can be recorded.
func localUserID(store *storage.Storage) int64 {
	user, err := store.GetUserByTelegramID(0)
	if err != nil {
		log.Fatalf("get local user: %v", err)
	}
	if user != nil {
		return user.ID
	}

	user = &domain.User{TelegramID: 0, Name: "local", Role: domain.RoleOwner}
	if err := store.CreateUser(user); err != nil {
		log.Fatalf("create local user: %v", err)
	}
	return user.ID
}

func runAdd(svc *service.ExpenseService, loc *time.Location, income bool, uid int64) {
	tags, err := svc.Tags()
	if err != nil {
		log.Fatalf("list tags: %v", err)
	}
	allowed := make(map[string]bool, len(tags))
	for _, t := range tags {
		allowed[t] = true
	}

	p := prompt.New(os.Stdin, os.Stdout, loc)
	e, err := p.ReadExpense(uid, income, allowed)
	if err != nil {
		log.Fatalf("read expense: %v", err)
	}

	if err := svc.Add(e); err != nil {
		log.Fatalf("add expense: %v", err)
	}
	fmt.Printf("recorded #%d: %s\n", e.ID, e)
}

func runList(svc *service.ExpenseService, uid int64) {
	expenses, err := svc.List(uid)
	if err != nil {
		log.Fatalf("list expenses: %v", err)
	}
	fmt.Print(svc.FormatExpenseList(expenses))
}

func runDelete(svc *service.ExpenseService, args []string, uid int64) {
	if len(args) != 1 {
		log.Fatal("usage: budgetctl del <id>")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		log.Fatalf("invalid id %q", args[0])
	}
	if err := svc.Delete(id, uid); err != nil {
		log.Fatalf("delete expense: %v", err)
	}
	fmt.Printf("deleted #%d\n", id)
}

func runDue(svc *service.ExpenseService, loc *time.Location, args []string) {
	day := domain.Today(loc)
	if len(args) > 0 {
		var err error
		day, err = domain.ParseDate(args[0])
		if err != nil {
			log.Fatalf("invalid date %q, want yyyy-mm-dd", args[0])
		}
	}

	due, err := svc.DueOn(day)
	if err != nil {
		log.Fatalf("due expenses: %v", err)
	}
	fmt.Println(svc.FormatReport(day, due))
}

func runReport(svc *service.ExpenseService, loc *time.Location, args []string) {
	period := domain.Duration{Unit: domain.UnitMonth, N: 1}
	tag := ""

	if len(args) >= 2 {
		if d, err := domain.ParseDuration(args[0] + " " + args[1]); err == nil {
			period = d
			args = args[2:]
		}
	}
	if len(args) > 0 {
		tag = args[0]
	}

	start := domain.Today(loc)
	total, err := svc.SpreadTotal(start, period, tag)
	if err != nil {
		log.Fatalf("report: %v", err)
	}

	scope := "all expenses"
	if tag != "" {
		scope = "tag " + tag
	}
	fmt.Printf("pro-rata total for %s over %s from %s: $%.2f\n", scope, period, start, total)
}

func runTags(svc *service.ExpenseService, args []string) {
	if len(args) == 0 {
		tags, err := svc.Tags()
		if err != nil {
			log.Fatalf("list tags: %v", err)
		}
		if len(tags) == 0 {
			fmt.Println("no tags")
			return
		}
		fmt.Println(strings.Join(tags, "\n"))
		return
	}

	if len(args) != 2 {
		log.Fatal("usage: budgetctl tags [add|del name]")
	}
	switch args[0] {
	case "add":
		if err := svc.AddTag(args[1]); err != nil {
			log.Fatalf("add tag: %v", err)
		}
	case "del":
		if err := svc.RemoveTag(args[1]); err != nil {
			log.Fatalf("remove tag: %v", err)
		}
	default:
		log.Fatal("usage: budgetctl tags [add|del name]")
	}
}

func runExport(store *storage.Storage) {
	username := os.Getenv("CALDAV_USERNAME")
	if username == "" {
		log.Fatal("CALDAV_USERNAME is required for export")
	}

	client := caldav.NewClient(os.Getenv("CALDAV_URL"), username, os.Getenv("CALDAV_PASSWORD"))
	calendarSvc := service.NewCalendarService(store, client, time.UTC)
	calendarSvc.SetCalendarPath(os.Getenv("CALDAV_CALENDAR"))

	published, errs := calendarSvc.PublishAll()
	fmt.Printf("published %d expenses\n", published)
	for _, e := range errs {
		fmt.Fprintln(os.Stderr, e)
	}
}
