// Package stats is the aggregation engine behind the dashboard: label
// counting over filtered alert views, calendar-day windowing, the severity
// trend matrix and pagination. Every function is a pure read over the view
// it is handed.
package stats

import (
	"sort"

	"threatwatch-go/internal/models"
)

// LabelCount pairs a chart label with its count. Paired label/count arrays
// handed to charts always have equal length.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Summary holds the headline numbers for a filtered view. The per-severity
// counts always sum to Total since severity is required on every alert.
type Summary struct {
	Total    int `json:"total"`
	Low      int `json:"low"`
	Medium   int `json:"medium"`
	High     int `json:"high"`
	Critical int `json:"critical"`
}

// Summarize computes the headline numbers over the same view the caller
// paginates, so every displayed aggregate matches the active filter.
func Summarize(view []models.Alert) Summary {
	s := Summary{Total: len(view)}
	for _, a := range view {
		switch a.Severity {
		case models.SeverityLow:
			s.Low++
		case models.SeverityMedium:
			s.Medium++
		case models.SeverityHigh:
			s.High++
		case models.SeverityCritical:
			s.Critical++
		}
	}
	return s
}

// CountByCategory returns one entry per canonical category in canonical
// order, zero counts included. Callers must not infer label existence from
// presence in the output.
func CountByCategory(view []models.Alert) []LabelCount {
	counts := make(map[models.Category]int, len(models.Categories))
	for _, a := range view {
		counts[a.Category]++
	}
	out := make([]LabelCount, 0, len(models.Categories))
	for _, c := range models.Categories {
		out = append(out, LabelCount{Label: string(c), Count: counts[c]})
	}
	return out
}

// CountBySeverity returns one entry per severity in canonical order, zero
// counts included.
func CountBySeverity(view []models.Alert) []LabelCount {
	counts := make(map[models.Severity]int, len(models.Severities))
	for _, a := range view {
		counts[a.Severity]++
	}
	out := make([]LabelCount, 0, len(models.Severities))
	for _, s := range models.Severities {
		out = append(out, LabelCount{Label: string(s), Count: counts[s]})
	}
	return out
}

// TopSources ranks the free-text source attributions by count, descending,
// truncated to n. Empty sources count under "unknown". Ties break by name
// ascending so a fixed input always yields the same ranking.
func TopSources(view []models.Alert, n int) []LabelCount {
	counts := make(map[string]int)
	for _, a := range view {
		name := a.Source
		if name == "" {
			name = "unknown"
		}
		counts[name]++
	}
	out := make([]LabelCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, LabelCount{Label: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
