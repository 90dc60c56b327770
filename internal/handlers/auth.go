package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sipbar/sip/internal/middleware"
	"github.com/sipbar/sip/internal/repo"
	"github.com/sipbar/sip/internal/token"
	"github.com/sipbar/sip/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Users  *repo.UserRepo
	Issuer *token.Issuer
}

var signInRules = []validate.Rule{
	{Field: "username", Kind: validate.String, Required: true},
	{Field: "password", Kind: validate.String, Required: true},
}

// ==========================
// Sign In
// ==========================
// A request that already carries a live session is rejected; an unknown
// username and a wrong password answer identically so callers cannot
// probe for accounts. The active-session check uses Verify, not Decode:
// an expired or malformed cookie must not block a fresh sign-in, only a
// token that still passes signature and expiry checks does.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookie); err == nil && cookie.Value != "" {
		if _, err := h.Issuer.Verify(cookie.Value); err == nil {
			JSONError(w, "SessionAlreadyActive", http.StatusBadRequest)
			return
		}
	}

	data, body, err := readBody(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if verr := validate.Object(body, signInRules); verr != nil {
		JSONValidationError(w, verr)
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.Unmarshal(data, &input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	user, err := h.Users.GetByUsername(r.Context(), input.Username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "NoSuchUser", http.StatusNotFound)
			return
		}
		slog.Error("sign-in: lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		JSONError(w, "NoSuchUser", http.StatusNotFound)
		return
	}

	tok, err := h.Issuer.Issue(user.Username)
	if err != nil {
		slog.Error("sign-in: issue token failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	middleware.SetSessionCookies(w, tok, user.Username)
	w.WriteHeader(http.StatusNoContent)
}

// ==========================
// Sign Out
// ==========================
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	middleware.ClearSessionCookies(w)
	w.WriteHeader(http.StatusNoContent)
}
