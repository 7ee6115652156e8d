package application

import (
	"time"

	"github.com/monetra/FinanceTracker/internal/finance/domain"
)

const (
	minTrendMonths = 1
	maxTrendMonths = 36
)

// CalendarBucket is one calendar month of a trend window. Start and End are
// inclusive dates; the current month's End is capped at "today" since future
// days carry no data.
type CalendarBucket struct {
	Label string // "2006-01"
	Start time.Time
	End   time.Time
}

// MonthWindow returns count consecutive month buckets ascending, ending at
// the month containing today. count is clamped to [1, 36]. All arithmetic is
// anchored to the first day of the month, so subtracting months never
// overflows into a neighboring month (Jan 31 minus one month and similar).
func MonthWindow(today time.Time, count int) []CalendarBucket {
	if count < minTrendMonths {
		count = minTrendMonths
	}
	if count > maxTrendMonths {
		count = maxTrendMonths
	}
	today = dateOnly(today)
	currentFirst := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	buckets := make([]CalendarBucket, 0, count)
	for i := count - 1; i >= 0; i-- {
		start := currentFirst.AddDate(0, -i, 0)
		end := start.AddDate(0, 1, -1) // last day of the bucket's month
		if end.After(today) {
			end = today
		}
		buckets = append(buckets, CalendarBucket{
			Label: monthLabel(start),
			Start: start,
			End:   end,
		})
	}
	return buckets
}

// CurrentMonthRange returns the partial window [first of month, today].
func CurrentMonthRange(today time.Time) (time.Time, time.Time) {
	today = dateOnly(today)
	first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first, today
}

// PeriodRange maps a budget period tag to its comparison window, anchored to
// today. Unrecognized tags use the monthly window.
func PeriodRange(today time.Time, period string) (time.Time, time.Time) {
	today = dateOnly(today)
	switch period {
	case domain.PeriodWeekly:
		return today.AddDate(0, 0, -6), today
	case domain.PeriodYearly:
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return first.AddDate(0, -11, 0), today
	default:
		return CurrentMonthRange(today)
	}
}

func monthLabel(t time.Time) string {
	return t.Format("2006-01")
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
