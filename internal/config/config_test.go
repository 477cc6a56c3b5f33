package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want 15m", cfg.TokenTTL)
	}
	if cfg.VerificationTTL != 24*time.Hour {
		t.Errorf("VerificationTTL = %v, want 24h", cfg.VerificationTTL)
	}
	if !cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = false, want true")
	}
	if cfg.RateLimit.AuthRequests != 10 || cfg.RateLimit.AuthWindow != 15*time.Minute {
		t.Errorf("auth limit = %d/%v, want 10/15m", cfg.RateLimit.AuthRequests, cfg.RateLimit.AuthWindow)
	}
	if cfg.HasSMTP() {
		t.Error("HasSMTP() = true with no SMTP env")
	}
	if cfg.HasGitHubOAuth() || cfg.HasGoogleOAuth() {
		t.Error("OAuth reported configured with no client credentials")
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() succeeded without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("GITHUB_CLIENT_ID", "id")
	t.Setenv("GITHUB_CLIENT_SECRET", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %v, want 30m", cfg.TokenTTL)
	}
	if cfg.RateLimit.Enabled {
		t.Error("RateLimit.Enabled = true after override")
	}
	if !cfg.HasSMTP() {
		t.Error("HasSMTP() = false with SMTP configured")
	}
	if !cfg.HasGitHubOAuth() {
		t.Error("HasGitHubOAuth() = false with credentials set")
	}
	if cfg.HasGoogleOAuth() {
		t.Error("HasGoogleOAuth() = true without credentials")
	}
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "not-a-number")
	t.Setenv("TOKEN_TTL", "soon")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want default 8080", cfg.ServerPort)
	}
	if cfg.TokenTTL != 15*time.Minute {
		t.Errorf("TokenTTL = %v, want default 15m", cfg.TokenTTL)
	}
}
