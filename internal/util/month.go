package util

import "time"

// AddMonths shifts a (year, month) pair by n calendar months, n may be negative
func AddMonths(year, month, n int) (int, int) {
	idx := year*12 + (month - 1) + n
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, m + 1
}

// MonthsBetween returns the number of calendar months from (fromYear, fromMonth)
// to (toYear, toMonth). The result is negative when "to" is earlier.
func MonthsBetween(fromYear, fromMonth, toYear, toMonth int) int {
	return (toYear*12 + toMonth) - (fromYear*12 + fromMonth)
}

// MonthOf returns the calendar year and month of t in t's own location
func MonthOf(t time.Time) (int, int) {
	return t.Year(), int(t.Month())
}

// IsValidMonth reports whether month is in 1..12
func IsValidMonth(month int) bool {
	return month >= 1 && month <= 12
}
