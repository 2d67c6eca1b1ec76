package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"threatwatch-go/internal/models"
)

// Setup2FAHandler generates a TOTP secret for the logged-in user and
// returns the enrollment QR code. The secret is only persisted as enabled
// once Verify2FAHandler sees a valid code for it.
func (h *Handler) Setup2FAHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, username, _ := GetCurrentUser(r)
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	key, err := models.GenerateTOTPSecret(username)
	if err != nil {
		log.Println("Failed to generate TOTP secret:", err)
		http.Error(w, "Failed to set up 2FA", http.StatusInternalServerError)
		return
	}

	qr, err := models.TOTPQRCode(key)
	if err != nil {
		log.Println("Failed to render QR code:", err)
		http.Error(w, "Failed to set up 2FA", http.StatusInternalServerError)
		return
	}

	// Stored disabled until the user proves they can produce codes.
	if err := h.Store.UpdateUser2FA(r.Context(), userID, key.Secret(), false); err != nil {
		log.Println("Failed to store TOTP secret:", err)
		http.Error(w, "Failed to set up 2FA", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"secret":  key.Secret(),
		"qr_code": qr,
	})
}

// Verify2FAHandler confirms enrollment by validating the first code and
// flips 2FA on for the account.
func (h *Handler) Verify2FAHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, username, _ := GetCurrentUser(r)
	if userID == 0 {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), username)
	if err != nil || user.TOTPSecret == "" {
		http.Error(w, "2FA not set up", http.StatusBadRequest)
		return
	}

	if !models.VerifyTOTPCode(user.TOTPSecret, req.Code) {
		http.Error(w, "Invalid code", http.StatusUnauthorized)
		return
	}

	if err := h.Store.UpdateUser2FA(r.Context(), userID, user.TOTPSecret, true); err != nil {
		log.Println("Failed to enable 2FA:", err)
		http.Error(w, "Failed to enable 2FA", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}
