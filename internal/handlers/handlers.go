package handlers

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"time"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/query"
	"threatwatch-go/internal/stats"
	"threatwatch-go/internal/store"
)

type Handler struct {
	Store store.Store
	Cache *store.RedisCache
	Tmpl  map[string]*template.Template
	Loc   *time.Location

	// Now is the aggregation reference clock; tests pin it.
	Now func() time.Time
}

func NewHandler(s store.Store, cache *store.RedisCache, tmpl map[string]*template.Template, loc *time.Location) *Handler {
	return &Handler{
		Store: s,
		Cache: cache,
		Tmpl:  tmpl,
		Loc:   loc,
		Now:   time.Now,
	}
}

func (h *Handler) Render(w http.ResponseWriter, page string, data any) {
	tmpl, ok := h.Tmpl[page]
	if !ok {
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}
	if err := tmpl.Execute(w, data); err != nil {
		log.Println("Template error:", err)
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// DashboardHandler serves the main dashboard: free-text search, headline
// severity stats over the same filtered view as the listing, 4 per page.
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	_, username, role := GetCurrentUser(r)

	q := r.URL.Query().Get("q")
	filter := query.Filter{Term: q}

	view, err := h.Store.QueryAlerts(r.Context(), filter)
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Failed to load dashboard", http.StatusInternalServerError)
		return
	}

	summary := stats.Summarize(view)
	page := stats.Paginate(view, stats.DashboardPageSize, stats.ParsePage(r.URL.Query().Get("page")))

	h.Render(w, "dashboard", map[string]any{
		"Username":    username,
		"RoleDisplay": models.RoleDisplay(role),
		"Query":       q,
		"Page":        page,
		"Summary":     summary,
	})
}

// APIAlertsHandler serves the filtered alert view as JSON, 12 per page.
func (h *Handler) APIAlertsHandler(w http.ResponseWriter, r *http.Request) {
	filter := query.Filter{
		Term:       r.URL.Query().Get("q"),
		Categories: query.ParseCategories(r.URL.Query()["category"]),
	}
	// Unknown severity values simply match nothing.
	filter.Severity = models.Severity(r.URL.Query().Get("severity"))
	filter.Source = r.URL.Query().Get("source")

	view, err := h.Store.QueryAlerts(r.Context(), filter)
	if err != nil {
		log.Println("Failed to query alerts:", err)
		http.Error(w, "Failed to query alerts", http.StatusInternalServerError)
		return
	}

	page := stats.Paginate(view, stats.APIPageSize, stats.ParsePage(r.URL.Query().Get("page")))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"alerts":      page.Items,
		"page":        page.Number,
		"total_items": page.TotalItems,
		"total_pages": page.TotalPages,
	})
}

// SSEHandler streams newly submitted alerts over server-sent events,
// backed by the Redis pub/sub channel.
func (h *Handler) SSEHandler(w http.ResponseWriter, r *http.Request) {
	if h.Cache == nil {
		http.Error(w, "Live events unavailable", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	pubsub := h.Cache.Subscribe(r.Context())
	defer pubsub.Close()

	ch := pubsub.Channel()

	fmt.Fprintf(w, "data: %s\n\n", "connected")
	w.(http.Flusher).Flush()

	for {
		select {
		case msg := <-ch:
			fmt.Fprintf(w, "data: %s\n\n", msg.Payload)
			w.(http.Flusher).Flush()
		case <-r.Context().Done():
			return
		}
	}
}
