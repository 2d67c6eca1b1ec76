package handlers

import (
	"log"
	"net/http"
	"strings"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/stats"
)

// ReportHandler serves the field-report log: newest-first listing (5 per
// page) and the submission form. Timing, location and leader are
// mandatory; a submission missing any of them is rejected, not stored
// with gaps.
func (h *Handler) ReportHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodPost {
		h.createReport(w, r)
		return
	}
	h.listReports(w, r, "", "")
}

func (h *Handler) createReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.listReports(w, r, "error", "Malformed form submission.")
		return
	}

	report := models.FieldReport{
		Timing:      strings.TrimSpace(r.FormValue("timing")),
		Location:    strings.TrimSpace(r.FormValue("location")),
		Leader:      strings.TrimSpace(r.FormValue("leader")),
		Number:      strings.TrimSpace(r.FormValue("number")),
		Vehicle:     strings.TrimSpace(r.FormValue("vehicle")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Status:      models.NormalizeStatus(strings.ToLower(r.FormValue("status"))),
	}

	if report.Timing == "" || report.Location == "" || report.Leader == "" {
		submissionsRejected.WithLabelValues("field_report").Inc()
		h.listReports(w, r, "error", "Timing, Location and Leader are required.")
		return
	}

	created, err := h.Store.AddFieldReport(r.Context(), report)
	if err != nil {
		submissionsRejected.WithLabelValues("field_report").Inc()
		log.Println("Failed to save field report:", err)
		h.listReports(w, r, "error", "Failed to save the field report.")
		return
	}

	submissionsAccepted.WithLabelValues("field_report").Inc()
	log.Printf("Field report #%d logged by %s", created.ID, created.Leader)
	h.listReports(w, r, "success", "Field report saved successfully!")
}

func (h *Handler) listReports(w http.ResponseWriter, r *http.Request, alertType, alertMsg string) {
	reports, err := h.Store.GetFieldReports(r.Context())
	if err != nil {
		log.Println("Failed to get field reports:", err)
		http.Error(w, "Failed to load reports", http.StatusInternalServerError)
		return
	}

	page := stats.Paginate(reports, stats.ReportPageSize, stats.ParsePage(r.URL.Query().Get("page")))

	data := map[string]any{
		"Page":     page,
		"Statuses": models.ReportStatuses,
	}
	if alertMsg != "" {
		data["AlertType"] = alertType
		data["AlertMessage"] = alertMsg
		if alertType == "error" {
			data["Form"] = r.Form
		}
	}
	h.Render(w, "report", data)
}
