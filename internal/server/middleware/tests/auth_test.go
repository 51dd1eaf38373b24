package tests

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/middleware"
)

const key = "middleware-test-key-middleware-test-key"

func tokens() *crypto.TokenManager {
	return crypto.NewTokenManager(crypto.JWTConfig{Issuer: "issuer", Audience: "aud", SigningKey: key})
}

func protectedOK(t *testing.T, called *bool, wantID int64) middleware.ProtectedHandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, claims crypto.Claims) {
		*called = true
		if claims.UserID != wantID {
			t.Fatalf("unexpected user id: %v", claims.UserID)
		}
		w.WriteHeader(http.StatusOK)
	}
}

// Успех: claims приходят параметром
func TestGuard_OK(t *testing.T) {
	tm := tokens()
	g := middleware.NewGuard(tm, nil)

	token, err := tm.Issue(1, "a@x.com", time.Minute)
	require.NoError(t, err)

	called := false
	handler := g.Protect(protectedOK(t, &called, 1))

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	require.True(t, called)
}

// Любая причина отказа даёт один и тот же ответ
func TestGuard_RejectionsIndistinguishable(t *testing.T) {
	tm := tokens()
	expired := crypto.NewTokenManager(crypto.JWTConfig{Issuer: "issuer", Audience: "aud", SigningKey: key}).
		WithClock(func() time.Time { return time.Now().Add(-2 * time.Hour) })
	expiredToken, err := expired.Issue(1, "a@x.com", time.Hour)
	require.NoError(t, err)

	foreign := crypto.NewTokenManager(crypto.JWTConfig{Issuer: "issuer", Audience: "aud", SigningKey: "other-key-other-key-other-key-000"})
	foreignToken, err := foreign.Issue(1, "a@x.com", time.Hour)
	require.NoError(t, err)

	cases := map[string]string{
		"missing":    "",
		"not bearer": "Basic abc",
		"garbage":    "Bearer garbage",
		"expired":    "Bearer " + expiredToken,
		"wrong key":  "Bearer " + foreignToken,
	}

	g := middleware.NewGuard(tm, nil)
	var bodies []string
	for name, header := range cases {
		called := false
		handler := g.Protect(protectedOK(t, &called, 1))

		req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code, name)
		require.False(t, called, name)
		require.JSONEq(t, `{"error":"unauthorized"}`, rr.Body.String(), name)
		bodies = append(bodies, rr.Body.String())
	}
	for _, b := range bodies {
		require.Equal(t, bodies[0], b)
	}
}

// Причина отказа пишется в debug-лог
func TestGuard_LogsCauseAtDebug(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	g := middleware.NewGuard(tokens(), zap.New(core))

	handler := g.Protect(func(w http.ResponseWriter, r *http.Request, claims crypto.Claims) {
		t.Fatal("must not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("auth rejected").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.DebugLevel, entries[0].Level)
	require.Equal(t, middleware.ErrMissingToken.Error(), entries[0].ContextMap()["error"])
}

func TestGuard_Authenticate(t *testing.T) {
	tm := tokens()
	g := middleware.NewGuard(tm, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := g.Authenticate(req)
	require.ErrorIs(t, err, middleware.ErrMissingToken)

	req.Header.Set("Authorization", "Bearer nope")
	_, err = g.Authenticate(req)
	require.ErrorIs(t, err, crypto.ErrInvalidToken)

	token, err := tm.Issue(5, "e@x.com", time.Minute)
	require.NoError(t, err)
	req.Header.Set("Authorization", "bearer "+token)
	claims, err := g.Authenticate(req)
	require.NoError(t, err)
	require.Equal(t, int64(5), claims.UserID)
	require.Equal(t, "e@x.com", claims.Email)
}

func TestExtractBearer(t *testing.T) {
	cases := map[string]string{
		"":                 "",
		"Bearer":           "",
		"Bearer  tok ":     "tok",
		"bearer tok":       "tok",
		"Token tok":        "",
		"  Bearer abc.def": "abc.def",
	}
	for in, want := range cases {
		require.Equal(t, want, middleware.ExtractBearer(in), in)
	}
}
