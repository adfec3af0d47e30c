package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NetWorthPoint is the recorded net worth at the end of one calendar month
type NetWorthPoint struct {
	Month YearMonth       `json:"month"`
	Label string          `json:"label,omitempty"`
	Value decimal.Decimal `json:"value"`
}

// MonthNote is a free-text annotation attached to a month, not to a point
type MonthNote struct {
	Month YearMonth `json:"month"`
	Text  string    `json:"text"`
}

// Range selects the trailing part of the series shown on the chart
type Range string

const (
	RangeAll        Range = "all"
	RangeYearToDate Range = "ytd"
	RangeOneYear    Range = "1y"
	RangeSixMonths  Range = "6m"
)

// Ranges lists the selectable ranges in display order
var Ranges = []Range{RangeAll, RangeYearToDate, RangeOneYear, RangeSixMonths}

// ParseRange accepts the range names case-insensitively
func ParseRange(s string) (Range, error) {
	r := Range(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Ranges {
		if r == known {
			return r, nil
		}
	}
	return "", NewValidationError("range", ErrInvalidRange)
}

// SavingsWindow selects the history used for an average-savings figure
type SavingsWindow string

const (
	SavingsWindowAll          SavingsWindow = "all"
	SavingsWindowTwelveMonths SavingsWindow = "12m"
	SavingsWindowSixMonths    SavingsWindow = "6m"
)

// ParseSavingsWindow accepts the window names case-insensitively
func ParseSavingsWindow(s string) (SavingsWindow, error) {
	switch w := SavingsWindow(strings.ToLower(strings.TrimSpace(s))); w {
	case SavingsWindowAll, SavingsWindowTwelveMonths, SavingsWindowSixMonths:
		return w, nil
	default:
		return "", NewValidationError("window", ErrInvalidWindow)
	}
}

// ValidateSeries enforces one point per month, ascending, with no missing months
func ValidateSeries(points []NetWorthPoint) error {
	for i := 1; i < len(points); i++ {
		prev, cur := points[i-1].Month, points[i].Month
		switch {
		case cur.Compare(prev) == 0:
			return NewValidationError("series", ErrSeriesDuplicate)
		case cur.Before(prev):
			return NewValidationError("series", ErrSeriesOutOfOrder)
		case prev.MonthsUntil(cur) != 1:
			return NewValidationError("series", ErrSeriesGap)
		}
	}
	return nil
}

// ValidateNotes enforces at most one note per month
func ValidateNotes(notes []MonthNote) error {
	seen := make(map[YearMonth]struct{}, len(notes))
	for _, n := range notes {
		if _, ok := seen[n.Month]; ok {
			return NewValidationError("notes", ErrNoteMonthDuplicate)
		}
		seen[n.Month] = struct{}{}
	}
	return nil
}
