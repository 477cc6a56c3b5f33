// Package oauth handles the provider redirect flow: GET /auth/{provider}
// kicks off the dance, GET /auth/{provider}/callback completes it.
package oauth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zebraboard/zebra-board-api/internal/httputil"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
	"github.com/zebraboard/zebra-board-api/pkg/domain"
)

// Handler handles OAuth login endpoints. Providers are a closed set
// dispatched by name from a plain lookup table.
type Handler struct {
	logger       *slog.Logger
	providers    map[string]auth.Provider
	linker       *auth.Linker
	signer       *auth.TokenSigner
	states       *StateStore
	cookieConfig httputil.CookieConfig
	// appBaseURL, when set, is where the callback redirects after
	// setting the auth cookie. Empty means respond with JSON.
	appBaseURL string
}

// NewHandler creates an OAuth handler.
func NewHandler(
	logger *slog.Logger,
	providers map[string]auth.Provider,
	linker *auth.Linker,
	signer *auth.TokenSigner,
	appBaseURL string,
) *Handler {
	return &Handler{
		logger:       logger,
		providers:    providers,
		linker:       linker,
		signer:       signer,
		states:       NewStateStore(),
		cookieConfig: httputil.DefaultCookieConfig(),
		appBaseURL:   appBaseURL,
	}
}

// Start redirects the user to the provider's authorization page.
// GET /auth/{provider}
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[chi.URLParam(r, "provider")]
	if !ok {
		httputil.WriteError(w, h.logger, domain.NotFound("provider"))
		return
	}

	state := h.states.Issue()
	http.Redirect(w, r, provider.AuthURL(state), http.StatusTemporaryRedirect)
}

// Callback completes the flow: validates state, exchanges the code for
// an external profile, upserts the local account and issues a token.
// GET /auth/{provider}/callback
func (h *Handler) Callback(w http.ResponseWriter, r *http.Request) {
	provider, ok := h.providers[chi.URLParam(r, "provider")]
	if !ok {
		httputil.WriteError(w, h.logger, domain.NotFound("provider"))
		return
	}

	if !h.states.Consume(r.URL.Query().Get("state")) {
		httputil.WriteError(w, h.logger, domain.Validation("invalid or expired oauth state"))
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		httputil.WriteError(w, h.logger, domain.Validation("missing authorization code"))
		return
	}

	profile, err := provider.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("oauth code exchange failed", "provider", provider.Name(), "error", err)
		httputil.WriteError(w, h.logger, domain.Validation("authorization code exchange failed"))
		return
	}

	user, err := h.linker.Upsert(r.Context(), *profile)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	token, err := h.signer.Sign(user)
	if err != nil {
		httputil.WriteError(w, h.logger, err)
		return
	}

	if h.appBaseURL != "" {
		httputil.SetAuthCookie(w, token, h.signer.TTL(), h.cookieConfig)
		http.Redirect(w, r, h.appBaseURL, http.StatusTemporaryRedirect)
		return
	}

	httputil.JSON(w, http.StatusOK, auth.LoginResult{User: user.Sanitized(), Token: token})
}
