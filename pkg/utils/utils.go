package utils

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire and storage format for calendar dates.
const DateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// DateOnly strips the clock part and returns midnight UTC of t's calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AddDays moves a date forward (or backward) by n calendar days
func AddDays(t time.Time, n int) time.Time {
	return DateOnly(t).AddDate(0, 0, n)
}

// AddMonths moves a date by n calendar months keeping the day of month.
// When the target month is shorter the result is clamped to its last day,
// so Jan 31 + 1 month is Feb 28 (or Feb 29 in a leap year).
func AddMonths(t time.Time, n int) time.Time {
	t = DateOnly(t)
	y, m, d := t.Date()

	total := int(m) - 1 + n
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	month := time.Month(total + 1)

	if last := daysIn(y, month); d > last {
		d = last
	}
	return time.Date(y, month, d, 0, 0, 0, 0, time.UTC)
}

// AddYears moves a date by n calendar years; Feb 29 clamps to Feb 28.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// DaysInclusive counts calendar days from start to end, both endpoints included.
// It returns zero or a negative number when end is before start.
func DaysInclusive(start, end time.Time) int {
	return DaysBetween(start, end) + 1
}

// DaysBetween returns end - start in whole calendar days
func DaysBetween(start, end time.Time) int {
	return int(DateOnly(end).Sub(DateOnly(start)).Hours() / 24)
}

// MonthSpan returns the number of month boundaries between start and end,
// ignoring the day of month.
func MonthSpan(start, end time.Time) int {
	return (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
}

// ParseDate parses a YYYY-MM-DD string into a UTC date
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// FormatDate renders a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Percentage returns amount * percent / 100
func Percentage(amount, percent decimal.Decimal) decimal.Decimal {
	return amount.Mul(percent).Div(hundred)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
