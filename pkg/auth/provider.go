package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"
)

// Provider names. The set is closed: providers are plain variants
// dispatched by a lookup table, not a plugin registry.
const (
	ProviderGitHub = "github"
	ProviderGoogle = "google"
)

// Provider runs the authorization-code dance for one OAuth provider.
type Provider interface {
	Name() string
	// AuthURL returns the provider's authorization URL carrying the
	// anti-CSRF state parameter.
	AuthURL(state string) string
	// Exchange trades the callback code for the external profile.
	Exchange(ctx context.Context, code string) (*ExternalProfile, error)
}

// ProviderCredentials configures one provider variant.
type ProviderCredentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// GitHubProvider implements Provider against the GitHub API.
type GitHubProvider struct {
	config *oauth2.Config
}

// NewGitHubProvider creates a GitHub provider.
func NewGitHubProvider(creds ProviderCredentials) *GitHubProvider {
	return &GitHubProvider{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
	}
}

func (p *GitHubProvider) Name() string { return ProviderGitHub }

func (p *GitHubProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github: exchanging code: %w", err)
	}

	var ghUser struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := fetchJSON(ctx, p.config.Client(ctx, token), "https://api.github.com/user", &ghUser); err != nil {
		return nil, err
	}
	if ghUser.ID == 0 {
		return nil, fmt.Errorf("github: invalid user response")
	}

	display := ghUser.Login
	if display == "" {
		display = ghUser.Name
	}
	return &ExternalProfile{
		Provider:    ProviderGitHub,
		Subject:     strconv.FormatInt(ghUser.ID, 10),
		Email:       ghUser.Email,
		DisplayName: display,
	}, nil
}

// GoogleProvider implements Provider against Google's OpenID userinfo
// endpoint.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a Google provider.
func NewGoogleProvider(creds ProviderCredentials) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURL,
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

func (p *GoogleProvider) Name() string { return ProviderGoogle }

func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*ExternalProfile, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google: exchanging code: %w", err)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := fetchJSON(ctx, p.config.Client(ctx, token), "https://openidconnect.googleapis.com/v1/userinfo", &info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("google: invalid userinfo response")
	}

	return &ExternalProfile{
		Provider:    ProviderGoogle,
		Subject:     info.Sub,
		Email:       info.Email,
		DisplayName: info.Name,
	}, nil
}

func fetchJSON(ctx context.Context, client *http.Client, url string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("calling %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s returned status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
