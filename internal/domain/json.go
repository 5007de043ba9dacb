package domain

import (
	"encoding/json"
	"fmt"
)

// JSON envelopes for the recurrence sum types. Stored values use a
// "type" discriminator so sqlite columns stay readable and stable.

type repDeltaJSON struct {
	Type   string    `json:"type"`
	Nth    int       `json:"nth"`
	On     []Weekday `json:"on,omitempty"`
	Days   []int     `json:"days,omitempty"`
	WeekID int       `json:"weekid,omitempty"`
	Day    Weekday   `json:"day,omitempty"`
}

type repEndJSON struct {
	Type  string      `json:"type"`
	Date  *SimpleDate `json:"date,omitempty"`
	Count int         `json:"count,omitempty"`
}

type repetitionJSON struct {
	Delta repDeltaJSON `json:"delta"`
	End   repEndJSON   `json:"end"`
}

func (r Repetition) MarshalJSON() ([]byte, error) {
	out := repetitionJSON{}

	switch d := r.Delta.(type) {
	case DayDelta:
		out.Delta = repDeltaJSON{Type: "day", Nth: d.Nth}
	case WeekDelta:
		out.Delta = repDeltaJSON{Type: "week", Nth: d.Nth, On: d.On}
	case MonthDeltaDate:
		out.Delta = repDeltaJSON{Type: "month_date", Nth: d.Nth, Days: d.Days}
	case MonthDeltaWeek:
		out.Delta = repDeltaJSON{Type: "month_week", Nth: d.Nth, WeekID: d.WeekID, Day: d.Day}
	case YearDelta:
		out.Delta = repDeltaJSON{Type: "year", Nth: d.Nth}
	default:
		return nil, fmt.Errorf("unknown rep delta %T", r.Delta)
	}

	switch e := r.End.(type) {
	case EndNever:
		out.End = repEndJSON{Type: "never"}
	case EndOnDate:
		date := e.Date
		out.End = repEndJSON{Type: "date", Date: &date}
	case EndAfter:
		out.End = repEndJSON{Type: "count", Count: e.N}
	default:
		return nil, fmt.Errorf("unknown rep end %T", r.End)
	}

	return json.Marshal(out)
}

func (r *Repetition) UnmarshalJSON(data []byte) error {
	var in repetitionJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	switch in.Delta.Type {
	case "day":
		r.Delta = DayDelta{Nth: in.Delta.Nth}
	case "week":
		r.Delta = WeekDelta{Nth: in.Delta.Nth, On: in.Delta.On}
	case "month_date":
		r.Delta = MonthDeltaDate{Nth: in.Delta.Nth, Days: in.Delta.Days}
	case "month_week":
		r.Delta = MonthDeltaWeek{Nth: in.Delta.Nth, WeekID: in.Delta.WeekID, Day: in.Delta.Day}
	case "year":
		r.Delta = YearDelta{Nth: in.Delta.Nth}
	default:
		return fmt.Errorf("unknown rep delta type %q", in.Delta.Type)
	}

	switch in.End.Type {
	case "never":
		r.End = EndNever{}
	case "date":
		if in.End.Date == nil {
			return fmt.Errorf("rep end date missing")
		}
		r.End = EndOnDate{Date: *in.End.Date}
	case "count":
		r.End = EndAfter{N: in.End.Count}
	default:
		return fmt.Errorf("unknown rep end type %q", in.End.Type)
	}

	return nil
}
