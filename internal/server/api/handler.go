// Package api реализует HTTP-слой сервера аутентификации.
//
// Пакет отвечает за:
//   - обработку входящих запросов и формирование ответов (JSON, статусы);
//   - явную валидацию тела запроса до вызова сервисного слоя (ozzo-validation);
//   - маппинг доменных ошибок (service/repository) в HTTP-коды и сообщения.
//
// Маршруты регистрирует пакет internal/server/net/http.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/service"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/logger"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/models"
)

// Каждый метод если будет возвращать ответ то будет это делать в JSON
// Вынес Content-Type и JSON для удобства
const (
	JsonContentType string = "application/json"
	ContentType     string = "Content-Type"
)

// DefaultMaxBodyBytes — лимит тела запроса, если в конфиге не задан.
const DefaultMaxBodyBytes int64 = 1 << 20

// Handler агрегирует зависимости HTTP-слоя и предоставляет методы-хендлеры.
//
// Handler содержит:
//   - Svc: сервисный слой (бизнес-логика);
//   - Log: логгер для записи событий и ошибок;
//   - Guard: проверка access-токена для защищённых маршрутов;
//   - Health: проверка доступности хранилища для /healthz.
type Handler struct {
	Svc          *service.Services
	Log          *logger.HTTPLogger
	Guard        *middleware.Guard
	Health       service.HealthRepo
	MaxBodyBytes int64
}

// NewHandler создаёт экземпляр Handler с переданными зависимостями.
func NewHandler(svc *service.Services, log *logger.HTTPLogger, guard *middleware.Guard, health service.HealthRepo) *Handler {
	return &Handler{
		Svc:          svc,
		Log:          log,
		Guard:        guard,
		Health:       health,
		MaxBodyBytes: DefaultMaxBodyBytes,
	}
}

// Вспомогательная функция вывода ошибки
func WriteError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, models.ErrorResponse{
		Error: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set(ContentType, JsonContentType)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
