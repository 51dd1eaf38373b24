// Package middleware содержит HTTP middleware сервера.
package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/models"
)

// TokenVerifier — проверка access-токена (реализуется crypto.TokenManager).
type TokenVerifier interface {
	Verify(token string) (crypto.Claims, error)
}

// ProtectedHandlerFunc — обработчик защищённого маршрута.
// Claims передаются явным параметром, а не через context.
type ProtectedHandlerFunc func(w http.ResponseWriter, r *http.Request, claims crypto.Claims)

type guardError string

func (e guardError) Error() string { return string(e) }

// ErrMissingToken — заголовка нет или он не в формате Bearer. Наружу идёт только в debug-лог.
const ErrMissingToken guardError = "missing bearer token"

// Guard проверяет Authorization: Bearer <token> перед защищёнными маршрутами.
//
// Ответ на любую причину отказа одинаковый: 401 {"error":"unauthorized"}.
// Конкретная причина (нет токена, подпись, срок) пишется только в debug-лог.
type Guard struct {
	verifier TokenVerifier
	log      *zap.Logger
}

// NewGuard создаёт Guard. log может быть nil.
func NewGuard(verifier TokenVerifier, log *zap.Logger) *Guard {
	if log == nil {
		log = zap.NewNop()
	}
	return &Guard{verifier: verifier, log: log}
}

// Authenticate достаёт токен из запроса и проверяет его.
//
// Ошибки:
//   - ErrMissingToken, если заголовка нет или формат не Bearer
//   - crypto.ErrInvalidToken / crypto.ErrTokenExpired от верификатора
func (g *Guard) Authenticate(r *http.Request) (crypto.Claims, error) {
	token := ExtractBearer(r.Header.Get("Authorization"))
	if token == "" {
		return crypto.Claims{}, ErrMissingToken
	}
	return g.verifier.Verify(token)
}

// Protect оборачивает защищённый обработчик.
func (g *Guard) Protect(next ProtectedHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := g.Authenticate(r)
		if err != nil {
			g.log.Debug("auth rejected",
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.Error(err),
			)
			writeUnauthorized(w)
			return
		}
		next(w, r, claims)
	}
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Error: serr.ErrUnauthorized.Error()})
}

// ExtractBearer извлекает JWT из заголовка Authorization.
//
// Ожидаемый формат:
//
//	Authorization: Bearer <token>
//
// Возвращает пустую строку, если формат некорректен.
func ExtractBearer(h string) string {
	h = strings.TrimSpace(h)
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
