package handlers

import (
	"log"
	"net/http"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
	"threatwatch-go/internal/stats"
)

// TrendingHandler lists the urgent subset: every high and critical alert
// plus the 5 most recent medium ones, newest first, 3 per page.
func (h *Handler) TrendingHandler(w http.ResponseWriter, r *http.Request) {
	high, err := h.Store.QueryAlerts(r.Context(), query.Filter{Severity: models.SeverityHigh})
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Failed to load trending", http.StatusInternalServerError)
		return
	}
	critical, err := h.Store.QueryAlerts(r.Context(), query.Filter{Severity: models.SeverityCritical})
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Failed to load trending", http.StatusInternalServerError)
		return
	}
	medium, err := h.Store.QueryAlerts(r.Context(), query.Filter{Severity: models.SeverityMedium})
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Failed to load trending", http.StatusInternalServerError)
		return
	}
	if len(medium) > 5 {
		medium = medium[:5]
	}

	urgent := append(append([]models.Alert{}, critical...), high...)
	combined := append(append([]models.Alert{}, urgent...), medium...)

	page := stats.Paginate(combined, stats.TrendingPageSize, stats.ParsePage(r.URL.Query().Get("page")))

	h.Render(w, "news_trending", map[string]any{
		"Page":          page,
		"TotalUrgent":   len(urgent),
		"TotalMedium":   len(medium),
		"TotalCombined": len(combined),
	})
}
