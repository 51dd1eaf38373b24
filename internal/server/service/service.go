// Package service содержит бизнес-логику сервиса аутентификации.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
//
// Все зависимости передаются явно через конструкторы, глобального состояния нет.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users UsersRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth *AuthService
}

// NewServices собирает все сервисы приложения.
func NewServices(repos Repositories, hasher PasswordHasher, tokens TokenIssuer, accessTTL time.Duration) *Services {
	return &Services{
		Auth: NewAuthService(repos.Users, hasher, tokens, accessTTL),
	}
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей (нужен для auth/register/login).
//
// Create возвращает ErrAlreadyExists при занятом email,
// GetByEmail — ErrNotFound, если пользователя нет.
type UsersRepo interface {
	Create(ctx context.Context, email, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

// PasswordHasher — хэширование и проверка паролей.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// TokenIssuer — выпуск подписанного access-токена.
type TokenIssuer interface {
	Issue(userID int64, email string, ttl time.Duration) (string, error)
}
