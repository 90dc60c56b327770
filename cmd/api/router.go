package main

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sipbar/sip/internal/config"
	"github.com/sipbar/sip/internal/handlers"
	appmw "github.com/sipbar/sip/internal/middleware"
	"github.com/sipbar/sip/internal/repo"
	"github.com/sipbar/sip/internal/token"
)

// newRouter wires repos, handlers, and the middleware chain. Also used
// by the integration test with a sqlmock-backed DB.
func newRouter(database *sql.DB, cfg config.Config) http.Handler {
	issuer := token.NewIssuer([]byte(cfg.JWTSecret), time.Duration(cfg.SessionExpireHours)*time.Hour)

	users := repo.NewUserRepo(database)
	cocktails := repo.NewCocktailRepo(database)
	audit := repo.NewAuditRepo(database)

	authHandler := &handlers.AuthHandler{Users: users, Issuer: issuer}
	userHandler := &handlers.UserHandler{Users: users, Cocktails: cocktails, Audit: audit, Issuer: issuer}
	cocktailHandler := &handlers.CocktailHandler{Cocktails: cocktails, Audit: audit}
	auditHandler := &handlers.AuditHandler{Audit: audit}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(appmw.RequestLog)
	r.Use(appmw.Recoverer)
	r.Use(appmw.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(appmw.CORS(cfg.CORSAllowedOrigins))
	r.Use(appmw.Prometheus)
	r.Use(appmw.MaxBytes(appmw.DefaultMaxBodyBytes))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Public, with tighter limits on credential endpoints.
	authLimiter := appmw.AuthRateLimiter()
	r.With(authLimiter.Middleware).Post("/auth/sign-in", authHandler.SignIn)
	r.Get("/auth/sign-out", authHandler.SignOut)
	r.With(authLimiter.Middleware).Post("/user/create", userHandler.CreateUser)
	r.Get("/user/{username}", userHandler.GetProfile)
	r.Get("/cocktail", cocktailHandler.ListCocktails)
	r.Get("/cocktail/{id}", cocktailHandler.GetCocktail)

	// Mutations require a live session.
	r.Group(func(r chi.Router) {
		r.Use(appmw.Session(issuer))
		r.Post("/cocktail/create", cocktailHandler.CreateCocktail)
		r.Put("/cocktail/update", cocktailHandler.UpdateCocktail)
		r.Delete("/cocktail/delete", cocktailHandler.DeleteCocktail)
		r.Get("/audit", auditHandler.ListAudit)
	})

	return r
}
