package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/notewell-backend/api/controllers"
	"github.com/angelmondragon/notewell-backend/internal/assistant"
	"github.com/angelmondragon/notewell-backend/internal/auth"
	"github.com/angelmondragon/notewell-backend/internal/notes"
	"github.com/angelmondragon/notewell-backend/internal/users"
	pkgAuth "github.com/angelmondragon/notewell-backend/pkg/auth"
	"github.com/angelmondragon/notewell-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/notewell-backend/pkg/errors"
	"github.com/angelmondragon/notewell-backend/pkg/logger"
	"github.com/angelmondragon/notewell-backend/pkg/metrics"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubIdentities struct {
	identity *users.IdentityDTO
}

func (s stubIdentities) Get(_ context.Context, id string) (*users.IdentityDTO, error) {
	if s.identity != nil && s.identity.ID.String() == id {
		return s.identity, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
}

type stubAuthService struct{}

func (stubAuthService) Signup(context.Context, auth.SignupRequest) (*auth.AuthResult, error) {
	return &auth.AuthResult{Token: "tok"}, nil
}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.AuthResult, error) {
	return nil, pkgerrors.New(pkgerrors.CodeInvalidCredentials, "invalid")
}

func (stubAuthService) RequestOTP(context.Context, auth.RequestOTPRequest) (*auth.RequestOTPResponse, error) {
	return &auth.RequestOTPResponse{Message: "OTP sent to your email"}, nil
}

func (stubAuthService) VerifyOTP(context.Context, auth.VerifyOTPRequest) (*auth.AuthResult, error) {
	return &auth.AuthResult{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (stubAuthService) AuthenticateWithProvider(context.Context, auth.ProviderLoginRequest) (*auth.AuthResult, error) {
	return &auth.AuthResult{Token: "tok"}, nil
}

func (stubAuthService) Logout(context.Context, string) error { return nil }

type stubNotesService struct{}

func (stubNotesService) List(context.Context, uuid.UUID) ([]notes.NoteDTO, error) {
	return []notes.NoteDTO{}, nil
}

func (stubNotesService) Create(context.Context, uuid.UUID, notes.CreateNoteRequest) (*notes.NoteDTO, error) {
	return &notes.NoteDTO{}, nil
}

func (stubNotesService) Get(_ context.Context, _ uuid.UUID, noteID string) (*notes.NoteDTO, error) {
	return &notes.NoteDTO{ID: noteID}, nil
}

func (stubNotesService) Update(context.Context, uuid.UUID, string, notes.UpdateNoteRequest) (*notes.NoteDTO, error) {
	return &notes.NoteDTO{}, nil
}

func (stubNotesService) Delete(context.Context, uuid.UUID, string) error { return nil }

type routerFixture struct {
	handler  http.Handler
	token    string
	registry *prometheus.Registry
}

func newRouterFixture(t *testing.T) *routerFixture {
	t.Helper()
	tokens, err := pkgAuth.NewTokenService(config.JWTConfig{Secret: "secret", Issuer: "notewell"}, time.Hour)
	require.NoError(t, err)

	identity := &users.IdentityDTO{ID: uuid.New(), Name: "Ada", Email: "ada@example.com"}
	token, err := tokens.Mint(identity.ID.String(), time.Now())
	require.NoError(t, err)

	registry := prometheus.NewRegistry()
	metrics.NewAuthMetrics(registry).Observe("password", nil)

	cfg := &config.Config{
		App:     config.AppConfig{Env: "test", CORSOrigins: []string{"http://localhost:3000"}},
		Session: config.SessionConfig{CookieName: "token"},
	}
	handler := NewRouter(Params{
		Config:     cfg,
		Logger:     logger.Nop(),
		Tokens:     tokens,
		Identities: stubIdentities{identity: identity},
		Auth:       stubAuthService{},
		Notes:      stubNotesService{},
		Assistant:  assistant.NewService(nil, nil),
		Readiness:  []controllers.ReadinessCheck{{Name: "database", Pinger: stubPinger{}}},
		Gatherer:   registry,
	})
	return &routerFixture{handler: handler, token: token, registry: registry}
}

func (f *routerFixture) do(method, target, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func TestPublicRoutesDoNotRequireToken(t *testing.T) {
	f := newRouterFixture(t)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health/live", "", "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/health/ready", "", "").Code)
	assert.Equal(t, http.StatusCreated, f.do(http.MethodPost, "/auth/signup",
		`{"name":"Ada","email":"ada@example.com","password":"secret1"}`, "").Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodPost, "/auth/send-otp", `{"email":"ada@example.com"}`, "").Code)
}

func TestGatedRoutesRejectMissingToken(t *testing.T) {
	f := newRouterFixture(t)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/auth/logout"},
		{http.MethodGet, "/notes"},
		{http.MethodGet, "/notes/65f1c0ffee0000000000abcd"},
		{http.MethodPost, "/ai/summarize"},
		{http.MethodGet, "/ai/health"},
	} {
		rec := f.do(tc.method, tc.path, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestGatedRoutesAcceptBearerAndCookie(t *testing.T) {
	f := newRouterFixture(t)

	rec := f.do(http.MethodGet, "/notes/65f1c0ffee0000000000abcd", "", f.token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "65f1c0ffee0000000000abcd")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: f.token})
	rec = httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ada@example.com")
}

func TestAIHealthUnconfigured(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/ai/health", "", f.token)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_attempts_total")
}

func TestResponsesCarryRequestID(t *testing.T) {
	f := newRouterFixture(t)
	rec := f.do(http.MethodGet, "/health/live", "", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}
