package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/sipbar/sip/internal/middleware"
	"github.com/sipbar/sip/internal/repo"
)

var cocktailCols = []string{"id", "name", "creator", "ingredients", "directions", "created_at", "updated_at"}

const ginJSON = `[{"name":"Gin","measurementUnit":"part","amount":1}]`

func authedRequest(method, path, subject string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req.WithContext(middleware.WithSubject(req.Context(), subject))
}

func TestCocktailHandler_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO cocktails`).
		WithArgs("Martini", "alice", []byte(ginJSON), "Stir with ice.").
		WillReturnRows(sqlmock.NewRows(cocktailCols).
			AddRow(1, "Martini", "alice", []byte(ginJSON), "Stir with ice.", now, now))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	body := []byte(`{"name":"Martini","ingredients":` + ginJSON + `,"directions":"Stir with ice.","creator":"mallory"}`)
	rr := httptest.NewRecorder()
	h.CreateCocktail(rr, authedRequest("POST", "/cocktail/create", "alice", body))

	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateCocktail status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		ID      int    `json:"id"`
		Creator string `json:"creator"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	// The client-supplied creator field is ignored; ownership comes from the session.
	if out.ID != 1 || out.Creator != "alice" {
		t.Errorf("unexpected cocktail: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCocktailHandler_Create_AuditFailureDoesNotBlock(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`INSERT INTO cocktails`).
		WithArgs("Martini", "alice", []byte(ginJSON), "").
		WillReturnRows(sqlmock.NewRows(cocktailCols).
			AddRow(1, "Martini", "alice", []byte(ginJSON), "", now, now))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("alice", "create", "cocktail", 1, "").
		WillReturnError(errors.New("audit_log: relation does not exist"))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db), Audit: repo.NewAuditRepo(db)}

	body := []byte(`{"name":"Martini","ingredients":` + ginJSON + `}`)
	rr := httptest.NewRecorder()
	h.CreateCocktail(rr, authedRequest("POST", "/cocktail/create", "alice", body))

	// The audit trail is best-effort; a failed write never fails the mutation.
	if rr.Code != http.StatusCreated {
		t.Fatalf("CreateCocktail status: got %d, want 201 (%s)", rr.Code, rr.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCocktailHandler_Create_Validation(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{"missing name", `{"ingredients":` + ginJSON + `}`, "MissingField"},
		{"missing ingredients", `{"name":"Martini"}`, "MissingField"},
		{"empty ingredients", `{"name":"Martini","ingredients":[]}`, "MissingField"},
		{"mistyped ingredients", `{"name":"Martini","ingredients":"gin"}`, "IncorrectDataType"},
		{"untrimmed name", `{"name":"Martini ","ingredients":` + ginJSON + `}`, "UntrimmedString"},
		{"zero amount", `{"name":"Martini","ingredients":[{"name":"Gin","measurementUnit":"part","amount":0}]}`, "InvalidFieldSize"},
		{"negative amount", `{"name":"Martini","ingredients":[{"name":"Gin","measurementUnit":"part","amount":-1}]}`, "InvalidFieldSize"},
		{"abv out of range", `{"name":"Martini","ingredients":[{"name":"Gin","measurementUnit":"part","amount":1,"abv":101}]}`, "InvalidFieldSize"},
		{"mistyped directions", `{"name":"Martini","ingredients":` + ginJSON + `,"directions":7}`, "IncorrectDataType"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			if err != nil {
				t.Fatalf("sqlmock.New: %v", err)
			}
			defer db.Close()

			h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

			rr := httptest.NewRecorder()
			h.CreateCocktail(rr, authedRequest("POST", "/cocktail/create", "alice", []byte(tt.body)))

			if rr.Code != http.StatusUnprocessableEntity {
				t.Errorf("status: got %d, want 422", rr.Code)
			}
			if code := errorCode(t, rr); code != tt.wantCode {
				t.Errorf("error: got %q, want %q", code, tt.wantCode)
			}
			// Validation failures never reach the store.
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestCocktailHandler_Update_MergesSuppliedFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM cocktails WHERE id = \$1 AND creator = \$2`).
		WithArgs(7, "alice").
		WillReturnRows(sqlmock.NewRows(cocktailCols).
			AddRow(7, "Martini", "alice", []byte(ginJSON), "Shake well.", now, now))
	// Clearing directions leaves name and ingredients as stored.
	mock.ExpectQuery(`UPDATE cocktails`).
		WithArgs("Martini", []byte(ginJSON), "", 7, "alice").
		WillReturnRows(sqlmock.NewRows(cocktailCols).
			AddRow(7, "Martini", "alice", []byte(ginJSON), "", now, now))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	body := []byte(`{"targetId":7,"newDirections":""}`)
	rr := httptest.NewRecorder()
	h.UpdateCocktail(rr, authedRequest("PUT", "/cocktail/update", "alice", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("UpdateCocktail status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Name       string `json:"name"`
		Directions string `json:"directions"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Name != "Martini" || out.Directions != "" {
		t.Errorf("unexpected cocktail: %+v", out)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCocktailHandler_Update_NoActionableFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	rr := httptest.NewRecorder()
	h.UpdateCocktail(rr, authedRequest("PUT", "/cocktail/update", "alice", []byte(`{"targetId":7}`)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rr.Code)
	}
	if code := errorCode(t, rr); code != "NoActionableFields" {
		t.Errorf("error: got %q, want NoActionableFields", code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCocktailHandler_Update_InvalidTargetID(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	rr := httptest.NewRecorder()
	h.UpdateCocktail(rr, authedRequest("PUT", "/cocktail/update", "alice", []byte(`{"targetId":"xyz","newName":"Negroni"}`)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rr.Code)
	}
	if code := errorCode(t, rr); code != "InvalidObjectId" {
		t.Errorf("error: got %q, want InvalidObjectId", code)
	}
}

func TestCocktailHandler_Update_NotOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// The ownership-scoped lookup returns nothing for a non-owner.
	mock.ExpectQuery(`SELECT .+ FROM cocktails WHERE id = \$1 AND creator = \$2`).
		WithArgs(7, "mallory").
		WillReturnRows(sqlmock.NewRows(cocktailCols))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	body := []byte(`{"targetId":7,"newName":"Stolen"}`)
	rr := httptest.NewRecorder()
	h.UpdateCocktail(rr, authedRequest("PUT", "/cocktail/update", "mallory", body))

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if code := errorCode(t, rr); code != "NotFound" {
		t.Errorf("error: got %q, want NotFound", code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestCocktailHandler_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`DELETE FROM cocktails WHERE id = \$1 AND creator = \$2`).
		WithArgs(7, "alice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "creator"}).AddRow(7, "Martini", "alice"))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	body := []byte(`{"targetId":"7"}`)
	rr := httptest.NewRecorder()
	h.DeleteCocktail(rr, authedRequest("DELETE", "/cocktail/delete", "alice", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("DeleteCocktail status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.ID != 7 || out.Name != "Martini" {
		t.Errorf("unexpected summary: %+v", out)
	}
}

func TestCocktailHandler_Delete_NotOwned(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`DELETE FROM cocktails WHERE id = \$1 AND creator = \$2`).
		WithArgs(7, "mallory").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "creator"}))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	rr := httptest.NewRecorder()
	h.DeleteCocktail(rr, authedRequest("DELETE", "/cocktail/delete", "mallory", []byte(`{"targetId":7}`)))

	// Same answer as a nonexistent cocktail.
	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if code := errorCode(t, rr); code != "NoSuchCocktail" {
		t.Errorf("error: got %q, want NoSuchCocktail", code)
	}
}

func TestCocktailHandler_Delete_MissingTargetID(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	rr := httptest.NewRecorder()
	h.DeleteCocktail(rr, authedRequest("DELETE", "/cocktail/delete", "alice", []byte(`{}`)))

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rr.Code)
	}
	if code := errorCode(t, rr); code != "MissingField" {
		t.Errorf("error: got %q, want MissingField", code)
	}
}

func TestCocktailHandler_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM cocktails WHERE id = \$1`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cocktailCols).
			AddRow(1, "Martini", "alice", []byte(ginJSON), "Stir.", now, now))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	req := requestWithChiURLParams("GET", "/cocktail/1", nil, map[string]string{"id": "1"})
	rr := httptest.NewRecorder()
	h.GetCocktail(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("GetCocktail status: got %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var out struct {
		Name        string `json:"name"`
		Ingredients []struct {
			Name            string  `json:"name"`
			MeasurementUnit string  `json:"measurementUnit"`
			Amount          float64 `json:"amount"`
		} `json:"ingredients"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(out.Ingredients) != 1 || out.Ingredients[0].Name != "Gin" || out.Ingredients[0].Amount != 1 {
		t.Errorf("unexpected ingredients: %+v", out.Ingredients)
	}
}

func TestCocktailHandler_Get_InvalidID(t *testing.T) {
	h := &CocktailHandler{}
	req := requestWithChiURLParams("GET", "/cocktail/abc", nil, map[string]string{"id": "abc"})
	rr := httptest.NewRecorder()
	h.GetCocktail(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("status: got %d, want 422", rr.Code)
	}
	if code := errorCode(t, rr); code != "InvalidObjectId" {
		t.Errorf("error: got %q, want InvalidObjectId", code)
	}
}

func TestCocktailHandler_Get_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM cocktails WHERE id = \$1`).
		WithArgs(999).
		WillReturnRows(sqlmock.NewRows(cocktailCols))

	h := &CocktailHandler{Cocktails: repo.NewCocktailRepo(db)}

	req := requestWithChiURLParams("GET", "/cocktail/999", nil, map[string]string{"id": "999"})
	rr := httptest.NewRecorder()
	h.GetCocktail(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rr.Code)
	}
	if code := errorCode(t, rr); code != "NoSuchCocktail" {
		t.Errorf("error: got %q, want NoSuchCocktail", code)
	}
}
