package service

import (
	"testing"

	"github.com/dafibh/fortuna/networth-backend/internal/domain"
	"github.com/dafibh/fortuna/networth-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func months(points []domain.NetWorthPoint) []string {
	out := make([]string, len(points))
	for i, p := range points {
		out[i] = p.Month.String()
	}
	return out
}

func TestFilterSeries_Ranges(t *testing.T) {
	// 2024-01 .. 2025-11, 23 points
	series := testutil.LinearSeries(domain.MustYearMonth(2024, 1), 1000, 100, 23)

	tests := []struct {
		r         domain.Range
		wantLen   int
		wantFirst string
	}{
		{domain.RangeAll, 23, "2024-01"},
		{domain.RangeYearToDate, 11, "2025-01"},
		{domain.RangeOneYear, 12, "2024-12"},
		{domain.RangeSixMonths, 6, "2025-06"},
	}

	for _, tt := range tests {
		t.Run(string(tt.r), func(t *testing.T) {
			got := FilterSeries(series, tt.r)
			require.Len(t, got, tt.wantLen)
			assert.Equal(t, tt.wantFirst, got[0].Month.String())
			assert.Equal(t, "2025-11", got[len(got)-1].Month.String())
		})
	}
}

func TestFilterSeries_SubsequenceInOrder(t *testing.T) {
	series := testutil.LinearSeries(domain.MustYearMonth(2023, 6), 500, 10, 30)

	for _, r := range domain.Ranges {
		got := FilterSeries(series, r)
		require.NotEmpty(t, got)

		// got is a contiguous suffix of series
		offset := len(series) - len(got)
		assert.Equal(t, months(series[offset:]), months(got), "range %s", r)
	}
}

func TestFilterSeries_AllIsUnchangedCopy(t *testing.T) {
	series := testutil.Series(domain.MustYearMonth(2025, 1), 10, 20, 30)

	got := FilterSeries(series, domain.RangeAll)
	assert.Equal(t, series, got)

	got[0].Label = "changed"
	assert.Empty(t, series[0].Label, "input must not be modified through the result")
}

func TestFilterSeries_Empty(t *testing.T) {
	for _, r := range domain.Ranges {
		got := FilterSeries(nil, r)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	}
}

func TestFilterSeries_ShortSeriesKeepsEverything(t *testing.T) {
	series := testutil.Series(domain.MustYearMonth(2025, 9), 1, 2, 3)

	assert.Len(t, FilterSeries(series, domain.RangeOneYear), 3)
	assert.Len(t, FilterSeries(series, domain.RangeSixMonths), 3)
}

func TestFilterSeries_YTDSinglePointInNewYear(t *testing.T) {
	series := testutil.Series(domain.MustYearMonth(2024, 11), 1, 2, 3)

	got := FilterSeries(series, domain.RangeYearToDate)
	require.Len(t, got, 1)
	assert.Equal(t, "2025-01", got[0].Month.String())
}

func TestFilterNotes(t *testing.T) {
	series := testutil.Series(domain.MustYearMonth(2025, 1), 1, 2, 3, 4)
	notes := []domain.MonthNote{
		{Month: domain.MustYearMonth(2025, 4), Text: "April"},
		{Month: domain.MustYearMonth(2024, 12), Text: "December"},
		{Month: domain.MustYearMonth(2025, 2), Text: "February"},
	}

	got := FilterNotes(series, notes)
	require.Len(t, got, 2)
	assert.Equal(t, "February", got[0].Text)
	assert.Equal(t, "April", got[1].Text)
}

func TestFilterNotes_NoMatches(t *testing.T) {
	series := testutil.Series(domain.MustYearMonth(2025, 1), 1, 2)
	notes := []domain.MonthNote{{Month: domain.MustYearMonth(2025, 6), Text: "June"}}

	got := FilterNotes(series, notes)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Empty(t, FilterNotes(nil, nil))
}

func TestFilterSeries_UnknownRangeSelectsNothing(t *testing.T) {
	series := testutil.LinearSeries(domain.MustYearMonth(2025, 1), 1000, 100, 6)

	got := FilterSeries(series, domain.Range("3m"))
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Len(t, series, 6)
}
