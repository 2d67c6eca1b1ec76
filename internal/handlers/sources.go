package handlers

import (
	"log"
	"net/http"
	"strings"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/stats"
)

// SourcesHandler serves the monitored-source catalog: name/url substring
// search, alphabetical listing (7 per page), and catalog additions.
func (h *Handler) SourcesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.createSource(w, r)
		return
	}
	h.listSources(w, r, "", "")
}

func (h *Handler) createSource(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.listSources(w, r, "error", "Malformed form submission.")
		return
	}

	src := models.Source{
		Name:  strings.TrimSpace(r.FormValue("name")),
		URL:   strings.TrimSpace(r.FormValue("url")),
		Notes: strings.TrimSpace(r.FormValue("notes")),
	}
	if src.Name == "" {
		h.listSources(w, r, "error", "Source name is required.")
		return
	}

	if _, err := h.Store.AddSource(r.Context(), src); err != nil {
		log.Println("Failed to save source:", err)
		h.listSources(w, r, "error", "Failed to save the source.")
		return
	}
	h.listSources(w, r, "success", "Source added to the catalog.")
}

func (h *Handler) listSources(w http.ResponseWriter, r *http.Request, alertType, alertMsg string) {
	term := r.URL.Query().Get("q")

	sources, err := h.Store.SearchSources(r.Context(), term)
	if err != nil {
		log.Println("Failed to search sources:", err)
		http.Error(w, "Failed to load sources", http.StatusInternalServerError)
		return
	}

	page := stats.Paginate(sources, stats.SourcePageSize, stats.ParsePage(r.URL.Query().Get("page")))

	data := map[string]any{
		"Page":  page,
		"Query": term,
	}
	if alertMsg != "" {
		data["AlertType"] = alertType
		data["AlertMessage"] = alertMsg
	}
	h.Render(w, "sources", data)
}
