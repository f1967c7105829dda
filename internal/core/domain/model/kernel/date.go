package kernel

import (
	"fmt"
	"time"

	"bakery/internal/pkg/errs"
)

// DateLayout is the wire and column format of a business date.
const DateLayout = "2006-01-02"

// Date is a calendar day without time of day: an order date, a dispatch date
// or the date of a business day closing. The zero value is invalid.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate normalizes the given components, so NewDate(2024, 1, 32) is February 1st.
func NewDate(year int, month time.Month, day int) Date {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return Date{year: t.Year(), month: t.Month(), day: t.Day()}
}

// DateOf returns the calendar day of t in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) Date {
	return DateOf(time.Now().In(loc))
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, errs.NewValueIsInvalidErrorWithCause("date", fmt.Errorf("%q is not a %s date", s, DateLayout))
	}
	return DateOf(t), nil
}

func (d Date) Year() int         { return d.year }
func (d Date) Month() time.Month { return d.month }
func (d Date) Day() int          { return d.day }

// Time returns midnight of the day in loc.
func (d Date) Time(loc *time.Location) time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, loc)
}

// Bounds returns the half-open interval [start, end) covering the day in loc.
func (d Date) Bounds(loc *time.Location) (time.Time, time.Time) {
	start := d.Time(loc)
	return start, start.AddDate(0, 0, 1)
}

func (d Date) String() string {
	return d.Time(time.UTC).Format(DateLayout)
}

// Compact renders the date as YYYYMMDD, used inside order numbers.
func (d Date) Compact() string {
	return d.Time(time.UTC).Format("20060102")
}

func (d Date) IsEqual(other Date) bool {
	return d == other
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errs.NewValueIsRequiredError("date")
	}
	return nil
}
