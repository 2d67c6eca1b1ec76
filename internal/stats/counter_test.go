package stats

import (
	"reflect"
	"testing"
	"time"

	"threatwatch-go/internal/models"
)

func TestCountByCategoryCoversCanonicalSet(t *testing.T) {
	views := [][]models.Alert{
		nil,
		{
			{Category: models.CategoryPhishing, Severity: models.SeverityLow},
			{Category: models.CategoryPhishing, Severity: models.SeverityLow},
			{Category: models.CategoryRiot, Severity: models.SeverityHigh},
		},
	}

	for _, view := range views {
		out := CountByCategory(view)
		if len(out) != len(models.Categories) {
			t.Fatalf("got %d labels, want %d", len(out), len(models.Categories))
		}
		for i, lc := range out {
			if lc.Label != string(models.Categories[i]) {
				t.Errorf("label %d = %q, want canonical order %q", i, lc.Label, models.Categories[i])
			}
		}
	}
}

func TestCountByCategoryCounts(t *testing.T) {
	view := []models.Alert{
		{Category: models.CategoryPhishing},
		{Category: models.CategoryPhishing},
		{Category: models.CategoryRiot},
	}
	counts := make(map[string]int)
	for _, lc := range CountByCategory(view) {
		counts[lc.Label] = lc.Count
	}
	if counts["phishing"] != 2 || counts["riot"] != 1 || counts["malware"] != 0 {
		t.Errorf("unexpected counts: %v", counts)
	}
}

func TestCountBySeveritySumsToTotal(t *testing.T) {
	view := []models.Alert{
		{Severity: models.SeverityLow},
		{Severity: models.SeverityMedium},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityHigh},
		{Severity: models.SeverityCritical},
	}
	out := CountBySeverity(view)
	if len(out) != len(models.Severities) {
		t.Fatalf("got %d labels, want %d", len(out), len(models.Severities))
	}
	sum := 0
	for _, lc := range out {
		sum += lc.Count
	}
	if sum != len(view) {
		t.Errorf("severity counts sum to %d, want %d", sum, len(view))
	}

	s := Summarize(view)
	if s.Low+s.Medium+s.High+s.Critical != s.Total {
		t.Errorf("summary does not sum to total: %+v", s)
	}
}

func TestTopSources(t *testing.T) {
	view := []models.Alert{
		{Source: "APF"}, {Source: "APF"}, {Source: "APF"},
		{Source: "OSINT"}, {Source: "OSINT"},
		{Source: ""},
		{Source: "wire"},
	}

	top := TopSources(view, 2)
	want := []LabelCount{{Label: "APF", Count: 3}, {Label: "OSINT", Count: 2}}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("TopSources = %v, want %v", top, want)
	}

	all := TopSources(view, 10)
	if len(all) != 4 {
		t.Fatalf("got %d sources, want 4", len(all))
	}
	// Empty attribution counts under "unknown"; ties break by name.
	if all[2].Label != "unknown" || all[3].Label != "wire" {
		t.Errorf("tie-break order wrong: %v", all)
	}
}

func TestTopSourcesDeterministic(t *testing.T) {
	view := []models.Alert{
		{Source: "b"}, {Source: "a"}, {Source: "c"},
	}
	first := TopSources(view, 3)
	for i := 0; i < 10; i++ {
		if got := TopSources(view, 3); !reflect.DeepEqual(got, first) {
			t.Fatalf("ranking changed between runs: %v vs %v", got, first)
		}
	}
}

func TestAggregationIdempotent(t *testing.T) {
	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	view := []models.Alert{
		alertAt(now.Add(-2*time.Hour), models.SeverityHigh),
		alertAt(now.AddDate(0, 0, -3), models.SeverityLow),
	}

	cat1, cat2 := CountByCategory(view), CountByCategory(view)
	tl1, tl2 := Timeline(view, 30, now, time.UTC), Timeline(view, 30, now, time.UTC)
	tr1, tr2 := SeverityTrend(view, now, time.UTC), SeverityTrend(view, now, time.UTC)

	if !reflect.DeepEqual(cat1, cat2) || !reflect.DeepEqual(tl1, tl2) || !reflect.DeepEqual(tr1, tr2) {
		t.Error("re-running aggregation over an unchanged view changed the output")
	}
}
