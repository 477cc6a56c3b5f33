// Package http wires the feature handlers into the chi router.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zebraboard/zebra-board-api/internal/config"
	"github.com/zebraboard/zebra-board-api/internal/http/features/account"
	"github.com/zebraboard/zebra-board-api/internal/http/features/oauth"
	"github.com/zebraboard/zebra-board-api/internal/http/features/results"
	"github.com/zebraboard/zebra-board-api/internal/http/features/suggestions"
	"github.com/zebraboard/zebra-board-api/internal/http/features/verification"
	"github.com/zebraboard/zebra-board-api/internal/http/middleware"
	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
)

// RouterConfig holds everything the router needs.
type RouterConfig struct {
	Logger           *slog.Logger
	AccountService   *auth.AccountService
	Signer           *auth.TokenSigner
	Linker           *auth.Linker
	Providers        map[string]auth.Provider
	UsersRepo        account.UserReader
	ResultsRepo      results.Store
	SuggestionsRepo  suggestions.Store
	AppBaseURL       string
	RateLimitConfig  config.RateLimitConfig
}

// NewRouter creates the HTTP router with all routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recover(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		httputil.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	rateLimiters := middleware.CreateRateLimiters(cfg.RateLimitConfig, cfg.Logger)
	requireAuth := middleware.Auth(cfg.Signer)

	accountHandler := account.NewHandler(cfg.Logger, cfg.AccountService, cfg.UsersRepo)
	r.Group(func(r chi.Router) {
		r.Use(rateLimiters["auth"])
		r.Post("/users", accountHandler.Register)
		r.Post("/users/login", accountHandler.Login)
	})
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Get("/auth/me", accountHandler.GetMe)
		r.Delete("/auth/me", accountHandler.DeleteMe)
	})

	verificationHandler := verification.NewHandler(cfg.Logger, cfg.AccountService)
	r.With(rateLimiters["verify"]).Get("/auth/verify-email", verificationHandler.VerifyEmail)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.With(rateLimiters["poll"]).Get("/auth/verify-email/status", verificationHandler.Status)
		r.With(rateLimiters["verify"]).Post("/auth/resend-verification", verificationHandler.Resend)
	})

	if len(cfg.Providers) > 0 {
		oauthHandler := oauth.NewHandler(cfg.Logger, cfg.Providers, cfg.Linker, cfg.Signer, cfg.AppBaseURL)
		r.Get("/auth/{provider}", oauthHandler.Start)
		r.Get("/auth/{provider}/callback", oauthHandler.Callback)
	}

	resultsHandler := results.NewHandler(cfg.Logger, cfg.ResultsRepo)
	suggestionsHandler := suggestions.NewHandler(cfg.Logger, cfg.SuggestionsRepo)
	r.Group(func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/results", resultsHandler.Create)
		r.Get("/results", resultsHandler.List)
		r.Get("/results/stats", resultsHandler.Stats)
		r.Post("/suggestions", suggestionsHandler.Create)
		r.Get("/suggestions", suggestionsHandler.List)
	})

	return r
}
