package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sipbar/sip/internal/metrics"
	"github.com/sipbar/sip/internal/token"
)

type key string

const subjectKey key = "subject"

// SessionCookie carries the signed session token.
const SessionCookie = "session"

// UserCookie mirrors the signed-in username for display convenience.
// It is never read as an auth signal.
const UserCookie = "user"

// Session gates endpoints that require an authenticated user. State
// machine per request: no cookie rejects with NoActiveSession; an expired
// or malformed token clears the cookie and rejects; a valid token is
// re-issued with a fresh expiry window (sliding expiration) and the
// subject is made available to the handler. Ownership checks do not
// happen here.
func Session(issuer *token.Issuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				unauthorized(w, "NoActiveSession")
				return
			}

			subject, err := issuer.Verify(cookie.Value)
			if err != nil {
				ClearSessionCookies(w)
				if errors.Is(err, token.ErrExpired) {
					unauthorized(w, "ExpiredJWT")
				} else {
					unauthorized(w, "MalformedJWT")
				}
				return
			}

			// Sliding expiration: every authorized request renews the window.
			fresh, err := issuer.Issue(subject)
			if err == nil {
				SetSessionCookies(w, fresh, subject)
				metrics.IncSessionRefresh()
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the authenticated username stored by Session.
func Subject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// WithSubject returns a context carrying the authenticated username, the
// same way Session stores it.
func WithSubject(ctx context.Context, subject string) context.Context {
	return context.WithValue(ctx, subjectKey, subject)
}

// SetSessionCookies attaches the session token and the display username.
func SetSessionCookies(w http.ResponseWriter, tok, username string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    tok,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     UserCookie,
		Value:    username,
		Path:     "/",
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookies expires both cookies.
func ClearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	http.SetCookie(w, &http.Cookie{Name: UserCookie, Value: "", Path: "/", MaxAge: -1})
}

func unauthorized(w http.ResponseWriter, code string) {
	metrics.IncAuthFailure(code)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": code})
}
