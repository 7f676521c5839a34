package analysis

import "time"

const dateLayout = "2006-01-02"

// Day truncates t to its calendar day as midnight UTC.
// The calendar fields are read in t's own location, so a session logged at
// 23:30 local time stays on that local day.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of calendar days from a to b
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / 24)
}

func dayKey(t time.Time) string {
	return Day(t).Format(dateLayout)
}

// dailyTotals sums values per calendar day
func dailyTotals[T any](items []T, date func(T) time.Time, value func(T) float64) map[string]float64 {
	totals := make(map[string]float64, len(items))
	for _, it := range items {
		v := value(it)
		if v <= 0 {
			continue
		}
		totals[dayKey(date(it))] += v
	}
	return totals
}

// windowSum adds the daily totals for the days days ending at end (inclusive)
func windowSum(totals map[string]float64, end time.Time, days int) float64 {
	var sum float64
	for i := 0; i < days; i++ {
		sum += totals[dayKey(end.AddDate(0, 0, -i))]
	}
	return sum
}
