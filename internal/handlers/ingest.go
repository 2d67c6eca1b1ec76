package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"threatwatch-go/internal/models"
	"threatwatch-go/internal/store"
)

// validateSharedSecret checks X-Threatwatch-Signature against
// HMAC-SHA256(body, secret). If WEBHOOK_SECRET is empty, validation is
// skipped (returns true).
func validateSharedSecret(r *http.Request) bool {
	secret := os.Getenv("WEBHOOK_SECRET")
	if secret == "" {
		return true
	}
	sig := r.Header.Get("X-Threatwatch-Signature")
	if sig == "" {
		return false
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return false
	}
	r.Body = io.NopCloser(bytes.NewBuffer(body)) // restore for downstream handlers

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(sig), []byte(expected))
}

// WebhookHandler accepts machine alert submissions as JSON or form data.
// Same required fields and defaults as the submission form.
func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !validateSharedSecret(r) {
		http.Error(w, "Invalid signature", http.StatusUnauthorized)
		return
	}

	payload := map[string]string{}
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			http.Error(w, "Invalid payload", http.StatusBadRequest)
			return
		}
	} else if err := r.ParseForm(); err == nil {
		for k, v := range r.Form {
			if len(v) > 0 {
				payload[k] = v[0]
			}
		}
	}

	title := strings.TrimSpace(payload["title"])
	content := strings.TrimSpace(payload["content"])
	if content == "" {
		content = strings.TrimSpace(payload["description"])
	}
	if title == "" || content == "" {
		submissionsRejected.WithLabelValues("webhook").Inc()
		http.Error(w, "title and content are required", http.StatusBadRequest)
		return
	}

	source := payload["source"]
	if source == "" {
		source = "unknown"
	}
	url := payload["url"]
	if url == "" {
		url = placeholderURL
	}
	category := models.Category(payload["category"])
	if !category.Valid() {
		category = models.CategoryOther
	}

	a, err := h.Store.AddAlert(r.Context(), models.Alert{
		Title:    title,
		Content:  content,
		Category: category,
		Source:   source,
		Severity: models.NormalizeSeverity(strings.ToLower(payload["severity"])),
		URL:      url,
	})
	if err != nil {
		submissionsRejected.WithLabelValues("webhook").Inc()
		if errors.Is(err, store.ErrDuplicateURL) {
			http.Error(w, "alert with this url already exists", http.StatusConflict)
			return
		}
		log.Println("Failed to add alert:", err)
		http.Error(w, "Failed to add alert", http.StatusInternalServerError)
		return
	}

	submissionsAccepted.WithLabelValues("webhook").Inc()
	alertsIngested.WithLabelValues(string(a.Severity)).Inc()

	if h.Cache != nil {
		h.Cache.InvalidateVisualization(r.Context())
		if err := h.Cache.PublishAlert(r.Context(), a); err != nil {
			log.Println("Failed to publish alert event:", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"id":         a.ID,
		"created_at": a.CreatedAt.Format(time.RFC3339),
	})
}
