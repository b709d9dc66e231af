// Package calendar holds the timezone-free date type exchanged with the backend.
package calendar

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	WireLayout    = "2006-01-02"
	DisplayLayout = "Jan 2, 2006"
)

// Date is a calendar day. The zero value means "no date".
//
// It is stored as midnight UTC and never converted to another location, so
// "2024-07-01" always renders as July 1st whatever the server timezone is.
type Date struct {
	t time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation(WireLayout, s, time.UTC)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date{t: t}, nil
}

func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }

func (d Date) After(o Date) bool { return d.t.After(o.t) }

func (d Date) Equal(o Date) bool { return d.t.Equal(o.t) }

// Time returns the date as midnight UTC.
func (d Date) Time() time.Time { return d.t }

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(WireLayout)
}

// Display formats the date for humans.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.t.Format(DisplayLayout)
}

// DaysThrough counts calendar days from d to end, both inclusive.
// It returns 0 when end is before d.
func (d Date) DaysThrough(end Date) int {
	if end.Before(d) {
		return 0
	}
	return int(end.t.Sub(d.t).Hours()/24) + 1
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = Date{}
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	// tolerate datetime strings; only the calendar part is kept
	if len(s) > len(WireLayout) {
		s = s[:len(WireLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Overlaps reports whether [start, end] touches [from, to]. A zero from or
// to leaves that side open; a zero end is treated as start.
func Overlaps(start, end, from, to Date) bool {
	if end.IsZero() {
		end = start
	}
	if !from.IsZero() && end.Before(from) {
		return false
	}
	if !to.IsZero() && start.After(to) {
		return false
	}
	return true
}
