package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
	"threatwatch-go/internal/stats"
)

// TimelineDays is the trailing window of the daily alert timeline.
const TimelineDays = 30

const topSourceCount = 10

// VisualizationData is the full analytics fan-out handed to the charts.
// Every numeric array is paired with a label array of the same length;
// category and severity labels always cover the full canonical sets.
type VisualizationData struct {
	Summary        stats.Summary      `json:"summary"`
	Categories     []stats.LabelCount `json:"categories"`
	Severities     []stats.LabelCount `json:"severities"`
	TimelineLabels []string           `json:"timeline_labels"`
	TimelineCounts []int              `json:"timeline_counts"`
	TopSources     []stats.LabelCount `json:"top_sources"`
	Trend          stats.TrendMatrix  `json:"trend"`
	Recent         []models.Alert     `json:"recent"`
}

// BuildVisualization runs every aggregation over a single filtered view,
// so each displayed number is explainable by the active filter.
func (h *Handler) BuildVisualization(view []models.Alert) VisualizationData {
	now := h.Now()
	timeline := stats.Timeline(view, TimelineDays, now, h.Loc)

	recent := view
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return VisualizationData{
		Summary:        stats.Summarize(view),
		Categories:     stats.CountByCategory(view),
		Severities:     stats.CountBySeverity(view),
		TimelineLabels: stats.Labels(timeline),
		TimelineCounts: stats.Counts(timeline),
		TopSources:     stats.TopSources(view, topSourceCount),
		Trend:          stats.SeverityTrend(view, now, h.Loc),
		Recent:         recent,
	}
}

// VisualizeHandler renders the analytics dashboard. The unfiltered payload
// is served through the Redis cache; any filter bypasses it.
func (h *Handler) VisualizeHandler(w http.ResponseWriter, r *http.Request) {
	filter := query.Filter{
		Term:       r.URL.Query().Get("q"),
		Categories: query.ParseCategories(r.URL.Query()["category"]),
	}

	var data VisualizationData

	if filter.IsEmpty() && h.Cache != nil {
		if cached, ok := h.Cache.GetVisualization(r.Context()); ok {
			if err := json.Unmarshal(cached, &data); err == nil {
				h.Render(w, "news_visualize", data)
				return
			}
		}
	}

	view, err := h.Store.QueryAlerts(r.Context(), filter)
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Failed to load visualization", http.StatusInternalServerError)
		return
	}

	data = h.BuildVisualization(view)

	if filter.IsEmpty() && h.Cache != nil {
		if payload, err := json.Marshal(data); err == nil {
			h.Cache.SetVisualization(r.Context(), payload)
		}
	}

	h.Render(w, "news_visualize", data)
}
