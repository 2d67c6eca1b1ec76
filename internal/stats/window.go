package stats

import (
	"time"

	"threatwatch-go/internal/models"
)

// DayBucket is one calendar day of a trailing window. Date is midnight in
// the window's time zone and is the bucket key; Label is the MM/DD display
// form derived from it. Keying by Date rather than Label keeps buckets
// distinct across year boundaries.
type DayBucket struct {
	Date  time.Time `json:"date"`
	Label string    `json:"label"`
	Count int       `json:"count"`
}

// Window returns exactly n day buckets covering the trailing n calendar
// days ending at now in loc, oldest first, no gaps or duplicates.
func Window(n int, now time.Time, loc *time.Location) []DayBucket {
	local := now.In(loc)
	today := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	buckets := make([]DayBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		buckets = append(buckets, DayBucket{
			Date:  day,
			Label: day.Format("01/02"),
		})
	}
	return buckets
}

// Timeline buckets each alert in the view by the calendar date of its
// creation timestamp in loc. Alerts outside the window are excluded; days
// with no alerts stay in the sequence with count zero.
func Timeline(view []models.Alert, n int, now time.Time, loc *time.Location) []DayBucket {
	buckets := Window(n, now, loc)
	index := make(map[time.Time]int, n)
	for i, b := range buckets {
		index[b.Date] = i
	}
	for _, a := range view {
		ts := a.CreatedAt.In(loc)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		if i, ok := index[day]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// Labels extracts the display labels of a bucket sequence, paired
// positionally with Counts.
func Labels(buckets []DayBucket) []string {
	out := make([]string, len(buckets))
	for i, b := range buckets {
		out[i] = b.Label
	}
	return out
}

// Counts extracts the counts of a bucket sequence.
func Counts(buckets []DayBucket) []int {
	out := make([]int, len(buckets))
	for i, b := range buckets {
		out[i] = b.Count
	}
	return out
}
