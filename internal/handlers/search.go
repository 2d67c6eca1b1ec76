package handlers

import (
	"log"
	"net/http"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
	"threatwatch-go/internal/stats"
)

// NewsSearchHandler filters alerts by a category multi-select and renders
// the category distribution chart over the same filtered view, 3 per page.
func (h *Handler) NewsSearchHandler(w http.ResponseWriter, r *http.Request) {
	selected := query.ParseCategories(r.URL.Query()["category"])
	filter := query.Filter{Categories: selected}

	view, err := h.Store.QueryAlerts(r.Context(), filter)
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Search failed", http.StatusInternalServerError)
		return
	}

	// Chart covers the full canonical set when nothing is selected,
	// otherwise only the selected labels, in canonical order either way.
	full := stats.CountByCategory(view)
	var chart []stats.LabelCount
	if len(selected) == 0 {
		chart = full
	} else {
		selectedSet := make(map[string]bool, len(selected))
		for _, c := range selected {
			selectedSet[string(c)] = true
		}
		for _, lc := range full {
			if selectedSet[lc.Label] {
				chart = append(chart, lc)
			}
		}
	}

	page := stats.Paginate(view, stats.SearchPageSize, stats.ParsePage(r.URL.Query().Get("page")))

	selectedSet := make(map[models.Category]bool, len(selected))
	for _, c := range selected {
		selectedSet[c] = true
	}

	h.Render(w, "news_search", map[string]any{
		"Page":          page,
		"AllCategories": models.Categories,
		"Selected":      selectedSet,
		"Chart":         chart,
	})
}
