package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/sipbar/sip/internal/middleware"
	"github.com/sipbar/sip/internal/models"
	"github.com/sipbar/sip/internal/repo"
	"github.com/sipbar/sip/internal/validate"
)

// ==========================
// CocktailHandler
// ==========================
type CocktailHandler struct {
	Cocktails *repo.CocktailRepo
	Audit     *repo.AuditRepo
}

var createCocktailRules = []validate.Rule{
	{Field: "name", Kind: validate.String, Required: true, Trimmed: true},
	{Field: "ingredients", Kind: validate.Array, Required: true},
	{Field: "directions", Kind: validate.String},
}

// ==========================
// Create Cocktail
// ==========================
// The creator is always the authenticated subject; a client-supplied
// creator field is ignored.
func (h *CocktailHandler) CreateCocktail(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		JSONError(w, "NoActiveSession", http.StatusUnauthorized)
		return
	}

	data, body, err := readBody(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if verr := validate.Object(body, createCocktailRules); verr != nil {
		JSONValidationError(w, verr)
		return
	}
	if verr := validate.Ingredients(body["ingredients"]); verr != nil {
		JSONValidationError(w, verr)
		return
	}

	var input struct {
		Name        string              `json:"name"`
		Ingredients []models.Ingredient `json:"ingredients"`
		Directions  string              `json:"directions"`
	}
	if err := json.Unmarshal(data, &input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	cocktail, err := h.Cocktails.Create(r.Context(), input.Name, subject, input.Ingredients, input.Directions)
	if err != nil {
		slog.Error("create cocktail: insert failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Log(r.Context(), subject, "create", "cocktail", cocktail.ID, ""); err != nil {
			slog.Warn("audit log failed", "action", "create", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(cocktail)
}

var updateCocktailRules = []validate.Rule{
	{Field: "targetId", Kind: validate.ID, Required: true},
	{Field: "newName", Kind: validate.String, Trimmed: true, Min: validate.Bound(1)},
	{Field: "newIngredients", Kind: validate.Array},
	{Field: "newDirections", Kind: validate.String},
}

// ==========================
// Update Cocktail (partial merge)
// ==========================
// Each supplied field fully replaces the stored one; omitted fields stay
// untouched. newDirections:"" is a real value that clears directions.
// The target lookup is scoped by creator, so an update against someone
// else's cocktail reports NotFound.
func (h *CocktailHandler) UpdateCocktail(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		JSONError(w, "NoActiveSession", http.StatusUnauthorized)
		return
	}

	data, body, err := readBody(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if verr := validate.Object(body, updateCocktailRules); verr != nil {
		JSONValidationError(w, verr)
		return
	}
	if !anySupplied(body, "newName", "newIngredients", "newDirections") {
		JSONValidationError(w, &validate.Error{Code: validate.CodeNoActionableFields})
		return
	}
	if v, supplied := suppliedValue(body, "newIngredients"); supplied {
		if arr, _ := v.([]any); len(arr) == 0 {
			JSONValidationError(w, &validate.Error{Code: validate.CodeMissingField, Field: "newIngredients"})
			return
		}
		if verr := validate.Ingredients(v); verr != nil {
			JSONValidationError(w, verr)
			return
		}
	}

	var input struct {
		NewName        *string              `json:"newName"`
		NewIngredients *[]models.Ingredient `json:"newIngredients"`
		NewDirections  *string              `json:"newDirections"`
	}
	if err := json.Unmarshal(data, &input); err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	targetID := validate.IDField(body, "targetId")

	current, err := h.Cocktails.GetOwned(r.Context(), targetID, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "NotFound", http.StatusNotFound)
			return
		}
		slog.Error("update cocktail: lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	name := current.Name
	ingredients := current.Ingredients
	directions := current.Directions
	if input.NewName != nil {
		name = *input.NewName
	}
	if input.NewIngredients != nil {
		ingredients = *input.NewIngredients
	}
	if input.NewDirections != nil {
		directions = *input.NewDirections
	}

	updated, err := h.Cocktails.UpdateOwned(r.Context(), targetID, subject, name, ingredients, directions)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "NotFound", http.StatusNotFound)
			return
		}
		slog.Error("update cocktail: update failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Log(r.Context(), subject, "update", "cocktail", updated.ID, ""); err != nil {
			slog.Warn("audit log failed", "action", "update", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

var deleteCocktailRules = []validate.Rule{
	{Field: "targetId", Kind: validate.ID, Required: true},
}

// ==========================
// Delete Cocktail
// ==========================
// Scoped by creator: deleting someone else's cocktail answers the same
// as deleting a nonexistent one.
func (h *CocktailHandler) DeleteCocktail(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.Subject(r.Context())
	if !ok {
		JSONError(w, "NoActiveSession", http.StatusUnauthorized)
		return
	}

	_, body, err := readBody(r)
	if err != nil {
		JSONError(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if verr := validate.Object(body, deleteCocktailRules); verr != nil {
		JSONValidationError(w, verr)
		return
	}
	targetID := validate.IDField(body, "targetId")

	summary, err := h.Cocktails.DeleteOwned(r.Context(), targetID, subject)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "NoSuchCocktail", http.StatusNotFound)
			return
		}
		slog.Error("delete cocktail: delete failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	if h.Audit != nil {
		if err := h.Audit.Log(r.Context(), subject, "delete", "cocktail", summary.ID, ""); err != nil {
			slog.Warn("audit log failed", "action", "delete", "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// ==========================
// Get Cocktail (public)
// ==========================
func (h *CocktailHandler) GetCocktail(w http.ResponseWriter, r *http.Request) {
	id, verr := validate.ParseID(chi.URLParam(r, "id"))
	if verr != nil {
		JSONValidationError(w, verr)
		return
	}

	cocktail, err := h.Cocktails.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			JSONError(w, "NoSuchCocktail", http.StatusNotFound)
			return
		}
		slog.Error("get cocktail: lookup failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cocktail)
}

// ==========================
// List Cocktails (public, paginated, optional name search)
// ==========================
func (h *CocktailHandler) ListCocktails(w http.ResponseWriter, r *http.Request) {
	limit := 20
	offset := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 {
			limit = val
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if val, err := strconv.Atoi(o); err == nil && val >= 0 {
			offset = val
		}
	}

	var cocktails []models.Cocktail
	var err error
	if search := r.URL.Query().Get("search"); search != "" {
		cocktails, err = h.Cocktails.SearchPaginated(r.Context(), search, limit, offset)
	} else {
		cocktails, err = h.Cocktails.ListPaginated(r.Context(), limit, offset)
	}
	if err != nil {
		slog.Error("list cocktails: query failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
		return
	}
	if cocktails == nil {
		cocktails = []models.Cocktail{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cocktails)
}

// anySupplied reports whether at least one of the fields is present with
// a non-null value.
func anySupplied(body map[string]any, fields ...string) bool {
	for _, f := range fields {
		if _, ok := suppliedValue(body, f); ok {
			return true
		}
	}
	return false
}

func suppliedValue(body map[string]any, field string) (any, bool) {
	v, ok := body[field]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
