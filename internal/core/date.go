package core

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Date is a calendar day in UTC. It marshals as "2006-01-02" and, for
// compatibility with older snapshots, unmarshals RFC 3339 timestamps too.
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

// NewDate builds a Date from year, month and day. Out-of-range values
// are normalized by time.Date (day 32 rolls into the next month).
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a time to its calendar day in UTC.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// MonthStart returns the first day of the date's month.
func (d Date) MonthStart() Date {
	return NewDate(d.Year(), int(d.Time.Month()), 1)
}

// AddMonths moves the date by n calendar months, normalizing overflow.
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}

func (d Date) Month() int {
	return int(d.Time.Month())
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(dateLayout))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		d.Time = time.Time{}
		return nil
	}
	// Older snapshots stored full timestamps.
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			*d = DateOf(t.UTC())
			return nil
		}
	}
	return fmt.Errorf("parse date %q", s)
}

// ParseDate parses "2006-01-02" into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// ParseMonth parses "2006-01" into a first-of-month Date.
func ParseMonth(s string) (Date, error) {
	t, err := time.Parse("2006-01", strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("parse month %q: %w", s, err)
	}
	return NewDate(t.Year(), int(t.Month()), 1), nil
}
