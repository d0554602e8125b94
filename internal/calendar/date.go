// Package calendar implements zone-free calendar dates and the bootcamp day policy.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const isoLayout = "2006-01-02"

// Date is a (year, month, day) triple without a time or zone component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

type FormatError struct {
	Value string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("not a calendar date: %q", e.Value)
}

func New(year int, month time.Month, day int) Date {
	return Date{Year: year, Month: month, Day: day}
}

func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Today returns the current date as seen from loc. A nil loc means time.Local.
func Today(loc *time.Location) Date {
	if loc == nil {
		loc = time.Local
	}
	return FromTime(time.Now().In(loc))
}

// Parse reads a YYYY-MM-DD string. The day is only checked against 1..31,
// so "2024-02-31" is accepted.
func Parse(value string) (Date, error) {
	if len(value) != len(isoLayout) || value[4] != '-' || value[7] != '-' {
		return Date{}, &FormatError{Value: value}
	}
	year, ok := parseDigits(value[0:4])
	if !ok {
		return Date{}, &FormatError{Value: value}
	}
	month, ok := parseDigits(value[5:7])
	if !ok || month < 1 || month > 12 {
		return Date{}, &FormatError{Value: value}
	}
	day, ok := parseDigits(value[8:10])
	if !ok || day < 1 || day > 31 {
		return Date{}, &FormatError{Value: value}
	}
	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func parseDigits(s string) (int, bool) {
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (d Date) toTime() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 12, 0, 0, 0, time.UTC)
}

func (d Date) Weekday() time.Weekday {
	return d.toTime().Weekday()
}

func (d Date) AddDays(days int) Date {
	return FromTime(d.toTime().AddDate(0, 0, days))
}

func (d Date) Yesterday() Date {
	return d.AddDays(-1)
}

func (d Date) Tomorrow() Date {
	return d.AddDays(1)
}

// NextWeekday returns the first date strictly after d that falls on weekday.
func (d Date) NextWeekday(weekday time.Weekday) Date {
	if weekday == d.Weekday() {
		return d.AddDays(7)
	}
	return d.AddDays((int(weekday) - int(d.Weekday()) + 7) % 7)
}

func (d Date) Before(other Date) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

func (d Date) Equal(other Date) bool {
	return d == other
}

func (d Date) IsZero() bool {
	return d == Date{}
}

// Human renders the long English form, e.g. "Monday, 21st October 2024".
func (d Date) Human() string {
	return fmt.Sprintf("%s, %d%s %s %d", d.Weekday(), d.Day, ordinalSuffix(d.Day), d.Month, d.Year)
}

func ordinalSuffix(day int) string {
	switch day {
	case 1, 21, 31:
		return "st"
	case 2, 22:
		return "nd"
	case 3, 23:
		return "rd"
	default:
		return "th"
	}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseWeekday resolves an English weekday name, ignoring case and surrounding space.
func ParseWeekday(name string) (time.Weekday, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for w := time.Sunday; w <= time.Saturday; w++ {
		if strings.ToLower(w.String()) == name {
			return w, true
		}
	}
	return 0, false
}
