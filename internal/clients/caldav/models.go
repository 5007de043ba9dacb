package caldav

import "time"

// Calendar is a calendar collection on the server.
type Calendar struct {
	ID          string // Calendar path/URL
	DisplayName string
	URL         string
}

// Event is a single VEVENT, possibly recurring.
type Event struct {
	UID         string
	Summary     string
	Description string
	StartTime   time.Time
	AllDay      bool
	RRule       string // Recurrence rule (e.g. "FREQ=MONTHLY;BYMONTHDAY=15")
}
