// HTTP-хендлеры регистрации, логина, профиля и health-check
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/models"
)

// healthTimeout — сколько ждём пинга хранилища.
const healthTimeout = 2 * time.Second

// Register обрабатывает регистрацию пользователя.
//
// Ответы:
//   - 201 Created: регистрация успешна;
//   - 400 Bad Request: неверный JSON или невалидные входные данные;
//   - 409 Conflict: пользователь уже существует;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Регистрация пользователя
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "email и пароль"
// @Success      201   {object}  models.UserResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      409   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validateRegister(req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	u, err := h.Svc.Auth.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		case errors.Is(err, serr.ErrAlreadyExists):
			WriteError(w, http.StatusConflict, serr.ErrAlreadyExists)
		default:
			h.logError(r, "register failed", err)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	writeJSON(w, http.StatusCreated, models.UserResponse{ID: u.ID, Email: u.Email})
}

// Login обрабатывает вход пользователя и выдачу access-токена.
//
// Ответы:
//   - 200 OK: успешный вход;
//   - 400 Bad Request: неверный JSON или невалидные входные данные;
//   - 401 Unauthorized: неверные учётные данные (email и пароль не различаются);
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Вход пользователя
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "email и пароль"
// @Success      200   {object}  models.LoginResponse
// @Failure      400   {object}  models.ErrorResponse
// @Failure      401   {object}  models.ErrorResponse
// @Failure      500   {object}  models.ErrorResponse
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	if err := validateLogin(req); err != nil {
		WriteError(w, http.StatusBadRequest, err)
		return
	}

	token, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrInvalidInput):
			WriteError(w, http.StatusBadRequest, serr.ErrInvalidInput)
		case errors.Is(err, serr.ErrInvalidCredentials):
			WriteError(w, http.StatusUnauthorized, serr.ErrInvalidCredentials)
		default:
			h.logError(r, "login failed", err)
			WriteError(w, http.StatusInternalServerError, serr.ErrInternal)
		}
		return
	}

	writeJSON(w, http.StatusOK, models.LoginResponse{Token: token})
}

// Profile возвращает данные из проверенного токена. Вызывается только через Guard.
//
// @Summary      Профиль текущего пользователя
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  models.ProfileResponse
// @Failure      401  {object}  models.ErrorResponse
// @Router       /auth/profile [get]
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request, claims crypto.Claims) {
	writeJSON(w, http.StatusOK, models.ProfileResponse{
		UserID: claims.UserID,
		Email:  claims.Email,
	})
}

// Healthz проверяет доступность хранилища.
//
// @Summary      Health-check
// @Tags         service
// @Produce      json
// @Success      200  {object}  models.HealthResponse
// @Failure      503  {object}  models.HealthResponse
// @Router       /healthz [get]
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.Health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		if err := h.Health.Ping(ctx); err != nil {
			h.logError(r, "health check failed", err)
			writeJSON(w, http.StatusServiceUnavailable, models.HealthResponse{Status: "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, models.HealthResponse{Status: "ok"})
}

func (h *Handler) logError(r *http.Request, msg string, err error) {
	if h.Log == nil {
		return
	}
	h.Log.Error(msg,
		zap.String("method", r.Method),
		zap.String("uri", r.RequestURI),
		zap.String("request_id", r.Header.Get(middleware.RequestIDHeader)),
		zap.Error(err),
	)
}
