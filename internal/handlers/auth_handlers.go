// File: internal/handlers/auth_handlers.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/iyunix/go-legalist/internal/middleware"
	"github.com/iyunix/go-legalist/internal/services/user_services"
)

// AuthHandler holds the dependencies for authentication and account handlers.
type AuthHandler struct {
	auth          *user_services.AuthService
	users         *user_services.UserService
	passwords     *user_services.PasswordService
	tokenTTL      time.Duration
	secureCookies bool
	logger        Logger
}

// NewAuthHandler creates a new AuthHandler. secureCookies should be true
// whenever the API is served over HTTPS.
func NewAuthHandler(
	auth *user_services.AuthService,
	users *user_services.UserService,
	passwords *user_services.PasswordService,
	tokenTTL time.Duration,
	secureCookies bool,
	logger Logger,
) *AuthHandler {
	return &AuthHandler{
		auth:          auth,
		users:         users,
		passwords:     passwords,
		tokenTTL:      tokenTTL,
		secureCookies: secureCookies,
		logger:        logger,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Register handles new user registrations.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	_, token, err := h.auth.Register(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeServiceError(w, h.logger, "register", err)
		return
	}
	h.issue(w, token)
}

// Login accepts an OAuth2 password form (username, password) or a JSON body
// (email, password) and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email, password, ok := loginCredentials(r)
	if !ok {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	_, token, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if status, _ := classify(err); status == http.StatusUnauthorized {
			w.Header().Set("WWW-Authenticate", "Bearer")
		}
		writeServiceError(w, h.logger, "login", err)
		return
	}
	h.issue(w, token)
}

func loginCredentials(r *http.Request) (string, string, bool) {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Email    string `json:"email"`
			Username string `json:"username"`
			Password string `json:"password"`
		}
		if err := decodeJSON(r, &req); err != nil {
			return "", "", false
		}
		if req.Email == "" {
			req.Email = req.Username
		}
		return req.Email, req.Password, true
	}
	if err := r.ParseForm(); err != nil {
		return "", "", false
	}
	return r.PostFormValue("username"), r.PostFormValue("password"), true
}

// Logout clears the auth cookie. Bearer tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookie("", time.Unix(0, 0)))
	writeMessage(w, "Logged out")
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

type profileRequest struct {
	FullName        *string `json:"full_name"`
	Email           *string `json:"email"`
	CurrentPassword *string `json:"current_password"`
	NewPassword     *string `json:"new_password"`
}

func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	updated, err := h.users.UpdateProfile(r.Context(), userID, user_services.ProfileUpdate{
		FullName:        req.FullName,
		Email:           req.Email,
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		writeServiceError(w, h.logger, "update_profile", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteMe removes the caller's account and everything it owns.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeError(w, "Not authenticated", http.StatusUnauthorized)
		return
	}
	if err := h.users.DeleteAccount(r.Context(), userID); err != nil {
		writeServiceError(w, h.logger, "delete_account", err)
		return
	}
	http.SetCookie(w, h.cookie("", time.Unix(0, 0)))
	writeMessage(w, "Account deleted")
}

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	sent, err := h.passwords.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		writeServiceError(w, h.logger, "forgot_password", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "If that email exists, a reset link was sent.",
		"email_sent": sent,
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token       string `json:"token"`
		NewPassword string `json:"new_password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.passwords.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, h.logger, "reset_password", err)
		return
	}
	writeMessage(w, "Password reset successfully")
}

// issue returns the token in the body and mirrors it into the auth cookie.
func (h *AuthHandler) issue(w http.ResponseWriter, token string) {
	http.SetCookie(w, h.cookie(token, time.Now().Add(h.tokenTTL)))
	writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token, TokenType: "bearer"})
}

func (h *AuthHandler) cookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
