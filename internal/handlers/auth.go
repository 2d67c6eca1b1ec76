package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"

	"threatwatch-go/internal/models"

	"github.com/gorilla/sessions"
)

var (
	sessionStore = sessions.NewCookieStore([]byte(sessionSecret()))
	sessionName  = "threatwatch-session"
)

func sessionSecret() string {
	if s := os.Getenv("SESSION_SECRET"); s != "" {
		return s
	}
	return "secret-key-change-in-production"
}

// LoginPageHandler renders the login form.
func (h *Handler) LoginPageHandler(w http.ResponseWriter, r *http.Request) {
	h.Render(w, "login", nil)
}

// LoginHandler handles login. Accounts with TOTP enabled must supply a
// valid code alongside the password.
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		TOTPCode string `json:"totp_code"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if !user.CheckPassword(req.Password) {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	if user.TOTPEnabled {
		if req.TOTPCode == "" {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{"totp_required": true})
			return
		}
		if !models.VerifyTOTPCode(user.TOTPSecret, req.TOTPCode) {
			http.Error(w, "Invalid 2FA code", http.StatusUnauthorized)
			return
		}
	}

	session, _ := sessionStore.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	session.Values["username"] = user.Username
	session.Values["role"] = user.Role
	session.Save(r, w)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":  true,
		"user":     user,
		"redirect": "/dashboard",
	})
}

// LogoutHandler handles logout
func (h *Handler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := sessionStore.Get(r, sessionName)
	session.Values["user_id"] = nil
	session.Options.MaxAge = -1
	session.Save(r, w)

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// AuthMiddleware checks if user is authenticated
func AuthMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessionStore.Get(r, sessionName)
		userID, ok := session.Values["user_id"].(int)
		if !ok || userID == 0 {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// AnalystMiddleware restricts submission entry points to analysts and
// admins; viewers are read-only.
func AnalystMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			next(w, r)
			return
		}
		session, _ := sessionStore.Get(r, sessionName)
		role, ok := session.Values["role"].(string)
		if !ok || (role != models.RoleAdmin && role != models.RoleAnalyst) {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next(w, r)
	}
}

// GetCurrentUser returns the current user id, username and role from the
// session.
func GetCurrentUser(r *http.Request) (int, string, string) {
	session, _ := sessionStore.Get(r, sessionName)
	userID, _ := session.Values["user_id"].(int)
	username, _ := session.Values["username"].(string)
	role, _ := session.Values["role"].(string)
	return userID, username, role
}

// EnsureDefaultAdmin creates the bootstrap admin account when no admin
// exists yet.
func (h *Handler) EnsureDefaultAdmin(ctx context.Context) {
	if _, err := h.Store.GetUserByUsername(ctx, "admin"); err == nil {
		return
	}
	user, err := h.Store.CreateUser(ctx, "admin", "admin123", models.RoleAdmin)
	if err != nil {
		log.Println("Failed to create default admin:", err)
		return
	}
	log.Printf("Created default admin user: %s / admin123", user.Username)
}
