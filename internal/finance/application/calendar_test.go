package application

import (
	"testing"
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthWindow_LengthAndOrdering(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	for _, count := range []int{1, 3, 12, 36} {
		window := MonthWindow(today, count)
		require.Len(t, window, count)
		assert.Equal(t, "2025-06", window[count-1].Label)
		for i := 1; i < count; i++ {
			assert.Equal(t, window[i-1].Start.AddDate(0, 1, 0), window[i].Start,
				"buckets must differ by exactly one calendar month")
		}
	}
}

func TestMonthWindow_ClampsCount(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.Len(t, MonthWindow(today, 0), 1)
	assert.Len(t, MonthWindow(today, -3), 1)
	assert.Len(t, MonthWindow(today, 100), 36)
}

func TestMonthWindow_YearRollover(t *testing.T) {
	today := time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)

	window := MonthWindow(today, 3)
	require.Len(t, window, 3)
	assert.Equal(t, "2024-11", window[0].Label)
	assert.Equal(t, "2024-12", window[1].Label)
	assert.Equal(t, "2025-01", window[2].Label)
	assert.Equal(t, time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC), window[1].End)
}

func TestMonthWindow_NoDayOverflow(t *testing.T) {
	// March 31 minus one month must land in February, not on an invalid date.
	today := time.Date(2025, time.March, 31, 23, 59, 0, 0, time.UTC)

	window := MonthWindow(today, 2)
	require.Len(t, window, 2)
	assert.Equal(t, "2025-02", window[0].Label)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), window[0].Start)
	assert.Equal(t, time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC), window[0].End)
}

func TestMonthWindow_CurrentMonthEndCappedAtToday(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	window := MonthWindow(today, 2)
	assert.Equal(t, time.Date(2025, time.May, 31, 0, 0, 0, 0, time.UTC), window[0].End)
	assert.Equal(t, today, window[1].End)
}

func TestCurrentMonthRange(t *testing.T) {
	from, to := CurrentMonthRange(time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), to)
}

func TestPeriodRange(t *testing.T) {
	today := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		period string
		from   time.Time
		to     time.Time
	}{
		{domain.PeriodMonthly, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), today},
		{domain.PeriodWeekly, time.Date(2025, time.June, 9, 0, 0, 0, 0, time.UTC), today},
		{domain.PeriodYearly, time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC), today},
		// unrecognized tags fall back to the monthly window
		{"quarterly", time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC), today},
	}
	for _, tt := range tests {
		from, to := PeriodRange(today, tt.period)
		assert.Equal(t, tt.from, from, "period %q", tt.period)
		assert.Equal(t, tt.to, to, "period %q", tt.period)
	}
}
