// Package http реализует маршрутизацию HTTP-слоя сервера аутентификации.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - подключение проверки access-токена к защищённым маршрутам.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/api"
	"github.com/IvanChernomyrdin/go-auth-service/internal/server/middleware"
)

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Таблица маршрутов:
//
//	POST /auth/register  публичный
//	POST /auth/login     публичный
//	GET  /auth/profile   через Guard
//	GET  /healthz        публичный
//	GET  /swagger/*      документация
func NewRouter(h *api.Handler) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))

	// добавляем swagger
	r.Get("/swagger/*", httpSwagger.WrapHandler)
	r.Get("/healthz", h.Healthz)

	r.Route("/auth", func(r chi.Router) {
		// Публичные пути
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		// защищённый путь, claims приходят параметром
		r.Get("/profile", h.Guard.Protect(h.Profile))
	})

	return r
}
