package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/middleware"
	srvmodels "github.com/IvanChernomyrdin/go-auth-service/internal/server/models"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/service"
	svcmocks "github.com/IvanChernomyrdin/go-auth-service/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/models"
)

const signingKey = "supersecretkeysupersecretkey123456"

type testDeps struct {
	users  *svcmocks.MockUsersRepo
	health *svcmocks.MockHealthRepo
	tokens *crypto.TokenManager
	hasher *crypto.BcryptHasher
}

// NewTestHandler создаёт Handler с моками через dependency injection
func NewTestHandler(t *testing.T) (*api.Handler, testDeps) {
	t.Helper()

	ctrl := gomock.NewController(t)

	deps := testDeps{
		users:  svcmocks.NewMockUsersRepo(ctrl),
		health: svcmocks.NewMockHealthRepo(ctrl),
		tokens: crypto.NewTokenManager(crypto.JWTConfig{Issuer: "issuer", Audience: "audience", SigningKey: signingKey}),
		hasher: crypto.NewBcryptHasher(4),
	}

	svc := service.NewServices(service.Repositories{Users: deps.users}, deps.hasher, deps.tokens, time.Minute)
	log := logger.New(logger.Options{Dir: t.TempDir()})
	guard := middleware.NewGuard(deps.tokens, log.Logger)

	return api.NewHandler(svc, log, guard, deps.health), deps
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(api.ContentType, api.JsonContentType)
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp models.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func TestHandler_Register_BadJSON(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	cases := []string{
		"{bad json",
		`{"email":"a@x.com","password":"secret1","role":"admin"}`,
		`{"email":"a@x.com","password":"secret1"}{"x":1}`,
		``,
	}
	for _, body := range cases {
		rec := httptest.NewRecorder()
		h.Register(rec, postJSON("/auth/register", body))

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		require.Equal(t, serr.ErrBadJSON.Error(), decodeError(t, rec), body)
	}
}

// Тело больше лимита
func TestHandler_Register_BodyTooLarge(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)
	h.MaxBodyBytes = 32

	body := `{"email":"a@x.com","password":"` + strings.Repeat("p", 64) + `"}`
	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/auth/register", body))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

// Невалидные данные отсекаются до сервиса: моки не ждут вызовов
func TestHandler_Register_ValidationError(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	cases := map[string]string{
		"empty email":    `{"email":"","password":"secret1"}`,
		"bad email":      `{"email":"not-an-email","password":"secret1"}`,
		"empty password": `{"email":"a@x.com","password":""}`,
		"short password": `{"email":"a@x.com","password":"12345"}`,
		"long password":  `{"email":"a@x.com","password":"` + strings.Repeat("p", 73) + `"}`,
	}
	for name, body := range cases {
		rec := httptest.NewRecorder()
		h.Register(rec, postJSON("/auth/register", body))

		require.Equal(t, http.StatusBadRequest, rec.Code, name)
		require.True(t, strings.HasPrefix(decodeError(t, rec), serr.ErrInvalidInput.Error()), name)
	}
}

func TestHandler_Register_Success(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.users.EXPECT().
		Create(gomock.Any(), "a@x.com", gomock.Any()).
		DoAndReturn(func(ctx context.Context, gotEmail, gotHash string) (srvmodels.User, error) {
			if gotHash == "" || gotHash == "secret1" {
				t.Fatalf("expected password hash, got %q", gotHash)
			}
			return srvmodels.User{ID: 1, Email: gotEmail, PasswordHash: gotHash}, nil
		})

	body, _ := json.Marshal(models.RegisterRequest{Email: " A@x.com", Password: "secret1"})
	rec := httptest.NewRecorder()
	h.Register(rec, httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.JSONEq(t, `{"id":1,"email":"a@x.com"}`, rec.Body.String())
	require.NotContains(t, rec.Body.String(), "password")
}

func TestHandler_Register_AlreadyExists(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.users.EXPECT().
		Create(gomock.Any(), "a@x.com", gomock.Any()).
		Return(srvmodels.User{}, serr.ErrAlreadyExists)

	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/auth/register", `{"email":"a@x.com","password":"secret1"}`))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, serr.ErrAlreadyExists.Error(), decodeError(t, rec))
}

func TestHandler_Register_Internal(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.users.EXPECT().
		Create(gomock.Any(), "a@x.com", gomock.Any()).
		Return(srvmodels.User{}, errors.New("db down"))

	rec := httptest.NewRecorder()
	h.Register(rec, postJSON("/auth/register", `{"email":"a@x.com","password":"secret1"}`))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, serr.ErrInternal.Error(), decodeError(t, rec))
}

func TestHandler_Login_BadJSON(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/auth/login", "{bad json"))

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login_ValidationError(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	for _, body := range []string{`{"email":"a@x.com"}`, `{"email":"nope","password":"secret1"}`} {
		rec := httptest.NewRecorder()
		h.Login(rec, postJSON("/auth/login", body))
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestHandler_Login_Success(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	hash, err := deps.hasher.Hash("secret1")
	require.NoError(t, err)

	deps.users.EXPECT().
		GetByEmail(gomock.Any(), "a@x.com").
		Return(srvmodels.User{ID: 1, Email: "a@x.com", PasswordHash: hash}, nil)

	rec := httptest.NewRecorder()
	h.Login(rec, postJSON("/auth/login", `{"email":"a@x.com","password":"secret1"}`))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp models.LoginResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	claims, err := deps.tokens.Verify(resp.Token)
	require.NoError(t, err)
	require.Equal(t, int64(1), claims.UserID)
}

// Неизвестный email и неверный пароль дают одинаковый ответ
func TestHandler_Login_InvalidCredentials(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	hash, err := deps.hasher.Hash("secret1")
	require.NoError(t, err)

	deps.users.EXPECT().
		GetByEmail(gomock.Any(), "a@x.com").
		Return(srvmodels.User{ID: 1, Email: "a@x.com", PasswordHash: hash}, nil)
	deps.users.EXPECT().
		GetByEmail(gomock.Any(), "nobody@x.com").
		Return(srvmodels.User{}, serr.ErrNotFound)

	wrongPass := httptest.NewRecorder()
	h.Login(wrongPass, postJSON("/auth/login", `{"email":"a@x.com","password":"wrong-pass"}`))

	noUser := httptest.NewRecorder()
	h.Login(noUser, postJSON("/auth/login", `{"email":"nobody@x.com","password":"wrong-pass"}`))

	require.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	require.Equal(t, http.StatusUnauthorized, noUser.Code)
	require.Equal(t, wrongPass.Body.String(), noUser.Body.String())
}

func TestHandler_Profile(t *testing.T) {
	t.Parallel()

	h, _ := NewTestHandler(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/auth/profile", nil)
	h.Profile(rec, req, crypto.Claims{UserID: 7, Email: "e@x.com"})

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"userId":7,"email":"e@x.com"}`, rec.Body.String())
}

func TestHandler_Healthz(t *testing.T) {
	t.Parallel()

	h, deps := NewTestHandler(t)

	deps.health.EXPECT().Ping(gomock.Any()).Return(nil)
	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	deps.health.EXPECT().Ping(gomock.Any()).Return(errors.New("down"))
	rec = httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
