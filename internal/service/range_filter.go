package service

import (
	"github.com/dafibh/fortuna/networth-backend/internal/domain"
)

// trailingMonths is the number of months before the last point each range reaches back
var trailingMonths = map[domain.Range]int{
	domain.RangeOneYear:   11,
	domain.RangeSixMonths: 5,
}

// FilterSeries returns the trailing part of series selected by r.
// Order is preserved and the input is never modified; an empty series
// yields an empty result for every range. A Range that ParseRange would
// reject selects nothing.
func FilterSeries(series []domain.NetWorthPoint, r domain.Range) []domain.NetWorthPoint {
	if len(series) == 0 {
		return []domain.NetWorthPoint{}
	}
	last := series[len(series)-1].Month

	switch r {
	case domain.RangeYearToDate:
		return filterPoints(series, func(m domain.YearMonth) bool {
			return m.SameYear(last)
		})
	case domain.RangeOneYear, domain.RangeSixMonths:
		return trailingWindow(series, trailingMonths[r])
	case domain.RangeAll:
		out := make([]domain.NetWorthPoint, len(series))
		copy(out, series)
		return out
	default:
		return []domain.NetWorthPoint{}
	}
}

// trailingWindow keeps points no earlier than monthsBack months before the last point
func trailingWindow(series []domain.NetWorthPoint, monthsBack int) []domain.NetWorthPoint {
	if len(series) == 0 {
		return []domain.NetWorthPoint{}
	}
	last := series[len(series)-1].Month
	from := last.AddMonths(-monthsBack)
	return filterPoints(series, func(m domain.YearMonth) bool {
		return !m.Before(from) && !m.After(last)
	})
}

func filterPoints(series []domain.NetWorthPoint, keep func(domain.YearMonth) bool) []domain.NetWorthPoint {
	out := make([]domain.NetWorthPoint, 0, len(series))
	for _, p := range series {
		if keep(p.Month) {
			out = append(out, p)
		}
	}
	return out
}

// FilterNotes returns the notes whose month appears in points, ordered by
// the points' chronology rather than by note insertion order
func FilterNotes(points []domain.NetWorthPoint, notes []domain.MonthNote) []domain.MonthNote {
	byMonth := make(map[domain.YearMonth]domain.MonthNote, len(notes))
	for _, n := range notes {
		if _, ok := byMonth[n.Month]; !ok {
			byMonth[n.Month] = n
		}
	}

	out := make([]domain.MonthNote, 0, len(notes))
	for _, p := range points {
		if n, ok := byMonth[p.Month]; ok {
			out = append(out, n)
			delete(byMonth, p.Month)
		}
	}
	return out
}
