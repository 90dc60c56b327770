package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sipbar/sip/internal/middleware"
	"github.com/sipbar/sip/internal/models"
	"github.com/sipbar/sip/internal/repo"
	"github.com/sipbar/sip/internal/token"
	"github.com/sipbar/sip/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// ==========================
// UserHandler
// ==========================
type UserHandler struct {
	Users     *repo.UserRepo
	Cocktails *repo.CocktailRepo
	Audit     *repo.AuditRepo
	Issuer    *token.Issuer
}

// Password length bounds match what bcrypt can hash without truncation.
var createUserRules = []validate.Rule{
	{Field: "username", Kind: validate.String, Required: true, Trimmed: true},
	{Field: "password", Kind: validate.String, Required: true, Min: validate.Bound(10), Max: validate.Bound(72)},
	{Field: "email", Kind: validate.String, Trimmed: true},
}

// ==========================
// Create User (registration; signs the new user in)
// ==========================
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	data, body, err := readBody(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if verr := validate.Object(body, createUserRules); verr != nil {
		JSONValidationError(w, verr)
		return
	}

	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Email    string `json:"email"`
	}
	if err := json.Unmarshal(data, &input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("create user: hash failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	user, err := h.Users.Create(r.Context(), input.Username, string(hash), input.Email)
	if err != nil {
		switch {
		case errors.Is(err, repo.ErrUsernameTaken):
			JSONError(w, "UsernameNotUnique", http.StatusUnprocessableEntity)
		case errors.Is(err, repo.ErrEmailTaken):
			JSONError(w, "EmailNotUnique", http.StatusUnprocessableEntity)
		default:
			slog.Error("create user: insert failed", "error", err)
			JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		}
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Log(r.Context(), user.Username, "create", "user", user.ID, ""); err != nil {
			slog.Warn("audit log failed", "action", "create", "error", err)
		}
	}

	// Registration doubles as sign-in.
	tok, err := h.Issuer.Issue(user.Username)
	if err != nil {
		slog.Error("create user: issue token failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	middleware.SetSessionCookies(w, tok, user.Username)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// ==========================
// Get Profile (public: user info + owned cocktails)
// ==========================
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	user, err := h.Users.GetByUsername(r.Context(), username)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "NoSuchUser", http.StatusNotFound)
			return
		}
		slog.Error("get profile: lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	cocktails, err := h.Cocktails.ListByCreator(r.Context(), user.Username)
	if err != nil {
		slog.Error("get profile: list cocktails failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if cocktails == nil {
		cocktails = []models.Cocktail{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(models.PublicProfile{
		Username:  user.Username,
		CreatedAt: user.CreatedAt,
		Cocktails: cocktails,
	})
}
