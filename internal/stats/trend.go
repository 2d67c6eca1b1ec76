package stats

import (
	"time"

	"threatwatch-go/internal/models"
)

// TrendDays is the trailing window used by the severity trend matrix.
const TrendDays = 7

// TrendMatrix is a chart-ready days-by-severity count grid. Labels holds
// one display label per day; Series holds, per severity in canonical
// order, one count per day. Every row has exactly len(Labels) entries.
type TrendMatrix struct {
	Labels []string         `json:"labels"`
	Series map[string][]int `json:"series"`
}

// SeverityTrend computes per-day, per-severity counts over the trailing
// 7-day window ending at now. The full four-severity canonical set is
// always present as rows, zero-filled when nothing matched. The view is
// walked once; each alert lands in at most one cell.
func SeverityTrend(view []models.Alert, now time.Time, loc *time.Location) TrendMatrix {
	buckets := Window(TrendDays, now, loc)
	index := make(map[time.Time]int, TrendDays)
	for i, b := range buckets {
		index[b.Date] = i
	}

	series := make(map[string][]int, len(models.Severities))
	for _, s := range models.Severities {
		series[string(s)] = make([]int, TrendDays)
	}

	for _, a := range view {
		ts := a.CreatedAt.In(loc)
		day := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
		i, ok := index[day]
		if !ok {
			continue
		}
		if row, ok := series[string(a.Severity)]; ok {
			row[i]++
		}
	}

	return TrendMatrix{Labels: Labels(buckets), Series: series}
}
