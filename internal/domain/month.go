package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dafibh/fortuna/networth-backend/internal/util"
)

// YearMonth is a calendar month with no day, time or zone attached
type YearMonth struct {
	Year  int
	Month int
}

// NewYearMonth builds a YearMonth, rejecting months outside 1..12
func NewYearMonth(year, month int) (YearMonth, error) {
	if !util.IsValidMonth(month) || year < 1 || year > 9999 {
		return YearMonth{}, ErrInvalidMonth
	}
	return YearMonth{Year: year, Month: month}, nil
}

// MustYearMonth is NewYearMonth for literals known to be valid
func MustYearMonth(year, month int) YearMonth {
	ym, err := NewYearMonth(year, month)
	if err != nil {
		panic(fmt.Sprintf("invalid year/month %d-%d", year, month))
	}
	return ym
}

// ParseYearMonth parses "YYYY-MM"
func ParseYearMonth(s string) (YearMonth, error) {
	s = strings.TrimSpace(s)
	if len(s) != 7 || s[4] != '-' || !allDigits(s[:4]) || !allDigits(s[5:]) {
		return YearMonth{}, ErrInvalidMonth
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return YearMonth{}, ErrInvalidMonth
	}
	month, err := strconv.Atoi(s[5:])
	if err != nil {
		return YearMonth{}, ErrInvalidMonth
	}
	return NewYearMonth(year, month)
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// YearMonthOf returns the calendar month containing t
func YearMonthOf(t time.Time) YearMonth {
	year, month := util.MonthOf(t)
	return YearMonth{Year: year, Month: month}
}

func (m YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month)
}

// IsZero reports whether m is the zero value
func (m YearMonth) IsZero() bool {
	return m.Year == 0 && m.Month == 0
}

// AddMonths returns m shifted by n calendar months
func (m YearMonth) AddMonths(n int) YearMonth {
	year, month := util.AddMonths(m.Year, m.Month, n)
	return YearMonth{Year: year, Month: month}
}

// SameYear reports whether m and o fall in the same calendar year
func (m YearMonth) SameYear(o YearMonth) bool {
	return m.Year == o.Year
}

// Compare returns -1, 0 or +1
func (m YearMonth) Compare(o YearMonth) int {
	switch diff := util.MonthsBetween(o.Year, o.Month, m.Year, m.Month); {
	case diff < 0:
		return -1
	case diff > 0:
		return 1
	default:
		return 0
	}
}

// Before reports whether m is earlier than o
func (m YearMonth) Before(o YearMonth) bool {
	return m.Compare(o) < 0
}

// After reports whether m is later than o
func (m YearMonth) After(o YearMonth) bool {
	return m.Compare(o) > 0
}

// MonthsUntil returns the number of months from m to o
func (m YearMonth) MonthsUntil(o YearMonth) int {
	return util.MonthsBetween(m.Year, m.Month, o.Year, o.Month)
}

// MarshalJSON encodes m as "YYYY-MM"
func (m YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON decodes "YYYY-MM"
func (m *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return ErrInvalidMonth
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
