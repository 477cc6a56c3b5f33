package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zebraboard/zebra-board-api/internal/config"
	"github.com/zebraboard/zebra-board-api/pkg/auth"
)

type testEnv struct {
	server *httptest.Server
	users  *fakeUserStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := newFakeUserStore()
	signer := auth.NewTokenSigner([]byte("test-secret"), "zebra-board", time.Minute)
	accounts := auth.NewAccountService(
		auth.ServiceConfig{VerificationTTL: time.Hour, EmailSendTimeout: time.Second},
		users,
		auth.NewHasherWithCost(bcrypt.MinCost),
		signer,
		nil,
		logger,
	)

	router := NewRouter(RouterConfig{
		Logger:          logger,
		AccountService:  accounts,
		Signer:          signer,
		Linker:          auth.NewLinker(users, logger),
		UsersRepo:       users,
		ResultsRepo:     &fakeResultsStore{},
		SuggestionsRepo: &fakeSuggestionsStore{},
		RateLimitConfig: config.RateLimitConfig{Enabled: false},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testEnv{server: server, users: users}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, e.server.URL+path, reader)
	require.NoError(t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func errorCode(body map[string]any) string {
	detail, _ := body["error"].(map[string]any)
	code, _ := detail["code"].(string)
	return code
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterLoginMe_NoEmail(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": "typist",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, false, body["pendingVerification"])
	user, _ := body["user"].(map[string]any)
	assert.Equal(t, "typist", user["username"])
	assert.NotContains(t, user, "passwordHash")

	resp, body = env.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"identifier": "typist",
		"password":   "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = env.do(t, http.MethodGet, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user, _ = body["user"].(map[string]any)
	assert.Equal(t, "typist", user["username"])
}

func TestRegister_DuplicateUsernameIsConflict(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{"username": "typist", "password": "secret123"}
	resp, _ := env.do(t, http.MethodPost, "/users", "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/users", "", payload)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "conflict", errorCode(body))
}

func TestLogin_BadCredentials(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"identifier": "nobody",
		"password":   "whatever",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "auth_error", errorCode(body))
}

func TestEmailVerificationFlow(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": "typist",
		"email":    "typist@example.com",
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, true, body["pendingVerification"])

	// Login is gated until the email is verified.
	login := map[string]string{"identifier": "typist@example.com", "password": "secret123"}
	resp, body = env.do(t, http.MethodPost, "/users/login", "", login)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "verification_required", errorCode(body))

	token := env.users.tokenFor("typist")
	require.NotEmpty(t, token)

	resp, _ = env.do(t, http.MethodGet, "/auth/verify-email?token="+token, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token is single-use.
	resp, body = env.do(t, http.MethodGet, "/auth/verify-email?token="+token, "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "invalid_token", errorCode(body))

	resp, body = env.do(t, http.MethodPost, "/users/login", "", login)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bearer, _ := body["token"].(string)

	resp, body = env.do(t, http.MethodGet, "/auth/verify-email/status", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["emailVerified"])
}

func TestVerifyEmail_MissingToken(t *testing.T) {
	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodGet, "/auth/verify-email", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", errorCode(body))
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/auth/me"},
		{http.MethodDelete, "/auth/me"},
		{http.MethodGet, "/auth/verify-email/status"},
		{http.MethodPost, "/auth/resend-verification"},
		{http.MethodPost, "/results"},
		{http.MethodGet, "/results"},
		{http.MethodGet, "/results/stats"},
		{http.MethodPost, "/suggestions"},
		{http.MethodGet, "/suggestions"},
	}
	for _, p := range paths {
		resp, _ := env.do(t, p.method, p.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", p.method, p.path)
	}
}

func TestResultsFlow(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "typist")

	resp, body := env.do(t, http.MethodPost, "/results", token, map[string]any{
		"wpm":             92.5,
		"accuracy":        97.1,
		"durationSeconds": 60,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "time", body["mode"])

	resp, _ = env.do(t, http.MethodPost, "/results", token, map[string]any{
		"wpm":             104.0,
		"accuracy":        95.0,
		"mode":            "words",
		"durationSeconds": 30,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = env.do(t, http.MethodGet, "/results", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, _ := body["results"].([]any)
	assert.Len(t, list, 2)

	resp, body = env.do(t, http.MethodGet, "/results/stats", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])
	assert.Equal(t, 104.0, body["bestWpm"])
}

func TestResults_Validation(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "typist")

	bad := []map[string]any{
		{"wpm": 0, "accuracy": 90, "durationSeconds": 60},
		{"wpm": 80, "accuracy": 101, "durationSeconds": 60},
		{"wpm": 80, "accuracy": -1, "durationSeconds": 60},
		{"wpm": 80, "accuracy": 90, "durationSeconds": 0},
	}
	for i, payload := range bad {
		resp, body := env.do(t, http.MethodPost, "/results", token, payload)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "case %d", i)
		assert.Equal(t, "validation_error", errorCode(body), "case %d", i)
	}
}

func TestSuggestionsFlow(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "typist")

	resp, _ := env.do(t, http.MethodPost, "/suggestions", token, map[string]string{
		"text": "  add a zen mode  ",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/suggestions", token, map[string]string{"text": "   "})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation_error", errorCode(body))

	resp, body = env.do(t, http.MethodGet, "/suggestions", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list, _ := body["suggestions"].([]any)
	require.Len(t, list, 1)
	first, _ := list[0].(map[string]any)
	assert.Equal(t, "add a zen mode", first["text"])
}

func TestDeleteAccount(t *testing.T) {
	env := newTestEnv(t)
	token := registerAndLogin(t, env, "typist")

	resp, _ := env.do(t, http.MethodDelete, "/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// The token still parses but the account is gone.
	resp, body := env.do(t, http.MethodGet, "/auth/me", token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorCode(body))
}

func registerAndLogin(t *testing.T, env *testEnv, username string) string {
	t.Helper()
	resp, _ := env.do(t, http.MethodPost, "/users", "", map[string]string{
		"username": username,
		"password": "secret123",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := env.do(t, http.MethodPost, "/users/login", "", map[string]string{
		"identifier": username,
		"password":   "secret123",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}
