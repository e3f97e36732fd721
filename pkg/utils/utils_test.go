package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "same day next month",
			start:    date(2025, 1, 15),
			months:   1,
			expected: date(2025, 2, 15),
		},
		{
			name:     "end of month clamps to february",
			start:    date(2025, 1, 31),
			months:   1,
			expected: date(2025, 2, 28),
		},
		{
			name:     "leap year february",
			start:    date(2024, 1, 31),
			months:   1,
			expected: date(2024, 2, 29),
		},
		{
			name:     "crosses year boundary",
			start:    date(2025, 11, 30),
			months:   3,
			expected: date(2026, 2, 28),
		},
		{
			name:     "negative months",
			start:    date(2025, 3, 31),
			months:   -1,
			expected: date(2025, 2, 28),
		},
		{
			name:     "negative across year",
			start:    date(2025, 1, 10),
			months:   -2,
			expected: date(2024, 11, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AddMonths(tt.start, tt.months))
		})
	}
}

func TestAddYears(t *testing.T) {
	assert.Equal(t, date(2026, 3, 1), AddYears(date(2025, 3, 1), 1))
	assert.Equal(t, date(2025, 2, 28), AddYears(date(2024, 2, 29), 1))
}

func TestDaysInclusive(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{name: "same day", start: date(2025, 1, 1), end: date(2025, 1, 1), expected: 1},
		{name: "full january", start: date(2025, 1, 1), end: date(2025, 1, 31), expected: 31},
		{name: "two weeks", start: date(2025, 1, 1), end: date(2025, 1, 14), expected: 14},
		{name: "end before start", start: date(2025, 1, 10), end: date(2025, 1, 1), expected: -8},
		{
			name:     "ignores clock time",
			start:    time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC),
			end:      time.Date(2025, 1, 2, 1, 0, 0, 0, time.UTC),
			expected: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysInclusive(tt.start, tt.end))
		})
	}
}

func TestMonthSpan(t *testing.T) {
	assert.Equal(t, 0, MonthSpan(date(2025, 1, 1), date(2025, 1, 31)))
	assert.Equal(t, 13, MonthSpan(date(2025, 1, 31), date(2026, 2, 1)))
}

func TestParseDate(t *testing.T) {
	parsed, err := ParseDate("2025-01-31")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 31), parsed)
	assert.Equal(t, "2025-01-31", FormatDate(parsed))

	_, err = ParseDate("31/01/2025")
	assert.Error(t, err)
}

func TestPercentage(t *testing.T) {
	result := Percentage(decimal.NewFromInt(1000), decimal.NewFromInt(10))
	assert.True(t, result.Equal(decimal.NewFromInt(100)), "got %v", result)

	result = Percentage(decimal.RequireFromString("333.33"), decimal.RequireFromString("12.5"))
	assert.True(t, result.Equal(decimal.RequireFromString("41.66625")), "got %v", result)
}
