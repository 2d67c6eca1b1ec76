package stats

import (
	"testing"
	"time"

	"threatwatch-go/internal/models"
)

func TestSeverityTrendShape(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	m := SeverityTrend(nil, now, time.UTC)

	if len(m.Labels) != TrendDays {
		t.Fatalf("got %d labels, want %d", len(m.Labels), TrendDays)
	}
	if len(m.Series) != len(models.Severities) {
		t.Fatalf("got %d series, want the full severity set (%d)", len(m.Series), len(models.Severities))
	}
	for _, sev := range models.Severities {
		row, ok := m.Series[string(sev)]
		if !ok {
			t.Fatalf("missing series for %s", sev)
		}
		if len(row) != TrendDays {
			t.Errorf("series %s has %d entries, want %d", sev, len(row), TrendDays)
		}
		for i, c := range row {
			if c != 0 {
				t.Errorf("series %s day %d = %d, want 0 on empty view", sev, i, c)
			}
		}
	}
}

func TestSeverityTrendCounts(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	view := []models.Alert{
		alertAt(now.Add(-1*time.Hour), models.SeverityCritical),    // today
		alertAt(now.Add(-1*time.Hour), models.SeverityHigh),        // today
		alertAt(now.AddDate(0, 0, -2), models.SeverityHigh),        // 2 days ago
		alertAt(now.AddDate(0, 0, -6), models.SeverityLow),         // oldest in-window day
		alertAt(now.AddDate(0, 0, -8), models.SeverityHigh),        // out of window
		alertAt(now.Add(2*24*time.Hour), models.SeverityHigh),      // future, out of window
		{Severity: "bogus", CreatedAt: now.Add(-2 * time.Hour)},    // unknown severity dropped
	}

	m := SeverityTrend(view, now, time.UTC)

	// Days are oldest-first: index 6 is today, 4 is two days ago, 0 is six
	// days ago.
	if got := m.Series["critical"][6]; got != 1 {
		t.Errorf("critical today = %d, want 1", got)
	}
	if got := m.Series["high"][6]; got != 1 {
		t.Errorf("high today = %d, want 1", got)
	}
	if got := m.Series["high"][4]; got != 1 {
		t.Errorf("high two days ago = %d, want 1", got)
	}
	if got := m.Series["low"][0]; got != 1 {
		t.Errorf("low six days ago = %d, want 1", got)
	}

	total := 0
	for _, row := range m.Series {
		for _, c := range row {
			total += c
		}
	}
	if total != 4 {
		t.Errorf("matrix total = %d, want 4 (out-of-window and unknown excluded)", total)
	}
}
