package handlers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"threatwatch-go/internal/query"
	"threatwatch-go/internal/store"
)

func TestWebhookAcceptsJSON(t *testing.T) {
	s := store.NewMemoryStore()
	h := newTestHandler(t, s)

	body := `{"title":"feed alert","content":"machine submitted","severity":"high","category":"malware","url":"https://example.com/w1"}`
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.WebhookHandler(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %q", rec.Code, rec.Body.String())
	}
	view, _ := s.QueryAlerts(context.Background(), query.Filter{})
	if len(view) != 1 || string(view[0].Severity) != "high" || string(view[0].Category) != "malware" {
		t.Errorf("stored alert = %+v", view)
	}
}

func TestWebhookRejectsMissingFields(t *testing.T) {
	s := store.NewMemoryStore()
	h := newTestHandler(t, s)

	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(`{"title":"no content"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.WebhookHandler(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if count, _ := s.CountAlerts(context.Background(), query.Filter{}); count != 0 {
		t.Errorf("rejected webhook created %d records", count)
	}
}

func TestWebhookDuplicateURLConflict(t *testing.T) {
	s := store.NewMemoryStore()
	h := newTestHandler(t, s)

	body := `{"title":"a","content":"b","url":"https://example.com/dup"}`
	for i, want := range []int{http.StatusOK, http.StatusConflict} {
		req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		h.WebhookHandler(rec, req)
		if rec.Code != want {
			t.Errorf("request %d status = %d, want %d", i, rec.Code, want)
		}
	}
}

func TestWebhookSignature(t *testing.T) {
	t.Setenv("WEBHOOK_SECRET", "topsecret")

	s := store.NewMemoryStore()
	h := newTestHandler(t, s)
	body := `{"title":"signed","content":"c","url":"https://example.com/s1"}`

	// Unsigned request is refused.
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.WebhookHandler(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unsigned status = %d, want 401", rec.Code)
	}

	// Correctly signed request passes.
	mac := hmac.New(sha256.New, []byte("topsecret"))
	mac.Write([]byte(body))
	req = httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Threatwatch-Signature", hex.EncodeToString(mac.Sum(nil)))
	rec = httptest.NewRecorder()
	h.WebhookHandler(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("signed status = %d, body %q", rec.Code, rec.Body.String())
	}
}
