package handlers

import (
	"context"
	"testing"
	"time"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
	"threatwatch-go/internal/store"
)

func seedAlert(t *testing.T, s *store.MemoryStore, ts time.Time, sev models.Severity, url string) {
	t.Helper()
	if _, err := s.AddAlert(context.Background(), models.Alert{
		Title:     "seed",
		Content:   "seed",
		Category:  models.CategoryOther,
		Source:    "unknown",
		Severity:  sev,
		URL:       url,
		CreatedAt: ts,
	}); err != nil {
		t.Fatal(err)
	}
}

func TestBuildVisualization(t *testing.T) {
	s := store.NewMemoryStore()
	h := newTestHandler(t, s)
	now := h.Now()

	seedAlert(t, s, now.Add(-2*time.Hour), models.SeverityHigh, "u1")
	seedAlert(t, s, now.AddDate(0, 0, -1), models.SeverityMedium, "u2")
	seedAlert(t, s, now.AddDate(0, 0, -40), models.SeverityHigh, "u3")

	view, err := s.QueryAlerts(context.Background(), query.Filter{})
	if err != nil {
		t.Fatal(err)
	}
	data := h.BuildVisualization(view)

	if data.Summary.Total != 3 || data.Summary.High != 2 || data.Summary.Medium != 1 {
		t.Errorf("summary = %+v", data.Summary)
	}

	if len(data.TimelineLabels) != TimelineDays || len(data.TimelineCounts) != TimelineDays {
		t.Fatalf("timeline arrays %d/%d, want %d", len(data.TimelineLabels), len(data.TimelineCounts), TimelineDays)
	}
	total := 0
	for _, c := range data.TimelineCounts {
		total += c
	}
	if total != 2 {
		t.Errorf("timeline total = %d, want 2 (40-day-old alert excluded)", total)
	}

	// Chart contract: label and count arrays pair up, canonical sets complete.
	if len(data.Categories) != len(models.Categories) {
		t.Errorf("category labels = %d, want full canonical set", len(data.Categories))
	}
	if len(data.Severities) != len(models.Severities) {
		t.Errorf("severity labels = %d, want full canonical set", len(data.Severities))
	}
	for _, row := range data.Trend.Series {
		if len(row) != len(data.Trend.Labels) {
			t.Errorf("trend row length %d != label length %d", len(row), len(data.Trend.Labels))
		}
	}

	if len(data.Recent) != 3 {
		t.Errorf("recent = %d alerts, want 3", len(data.Recent))
	}
	if data.Recent[0].URL != "u1" {
		t.Errorf("recent not newest-first: %v", data.Recent[0].URL)
	}
}

func TestVisualizationReflectsFilteredView(t *testing.T) {
	s := store.NewMemoryStore()
	h := newTestHandler(t, s)
	now := h.Now()

	seedAlert(t, s, now.Add(-1*time.Hour), models.SeverityHigh, "m1")
	if _, err := s.AddAlert(context.Background(), models.Alert{
		Title: "APF sweep", Content: "c", Category: models.CategoryProtest,
		Source: "APF", Severity: models.SeverityLow, URL: "m2", CreatedAt: now.Add(-3 * time.Hour),
	}); err != nil {
		t.Fatal(err)
	}

	view, err := s.QueryAlerts(context.Background(), query.Filter{Term: "apf"})
	if err != nil {
		t.Fatal(err)
	}
	data := h.BuildVisualization(view)

	// Every aggregate is computed from the filtered view, so the summary
	// matches what the paginated listing would show.
	if data.Summary.Total != 1 || data.Summary.Low != 1 || data.Summary.High != 0 {
		t.Errorf("filtered summary = %+v", data.Summary)
	}
	for _, lc := range data.TopSources {
		if lc.Label == "unknown" {
			t.Error("top sources include an alert excluded by the filter")
		}
	}
}
