package engine

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day (the engine schedules whole days, never clock times)
// =============================================================================

// Date is a single calendar day. It is a comparable value type so it can key
// maps directly; always build it through NewDate, ParseDate, or AddDays so the
// fields stay normalized.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), now.Month(), now.Day())
}

// ParseDate parses the wire/storage form "2006-01-02".
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return NewDate(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t().Before(other.t()) }
func (d Date) After(other Date) bool  { return d.t().After(other.t()) }
func (d Date) Equal(other Date) bool  { return d == other }
func (d Date) IsZero() bool           { return d == Date{} }

func (d Date) t() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Date) AddDays(n int) Date {
	t := d.t().AddDate(0, 0, n)
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func DaysBetween(from, to Date) int { return int(to.t().Sub(from.t()).Hours() / 24) }

// DatesBetween returns every day from from to to inclusive, oldest first.
// Empty when to is before from.
func DatesBetween(from, to Date) []Date {
	var days []Date
	for d := from; !d.After(to); d = d.AddDays(1) {
		days = append(days, d)
	}
	return days
}

// Formatting
func (d Date) String() string { return d.t().Format("2006-01-02") }

// ColumnLabel renders the short header form used by schedule tables, e.g. "02 Jan".
func (d Date) ColumnLabel() string { return d.t().Format("02 Jan") }
