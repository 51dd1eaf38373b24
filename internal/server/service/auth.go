package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
)

// DefaultAccessTTL — срок жизни токена, если в конфиге не задан.
const DefaultAccessTTL = time.Hour

// dummyPassword хэшируется один раз и проверяется при логине несуществующего email.
const dummyPassword = "dummy-password-for-timing"

// AuthService реализует регистрацию и логин.
//
// Ответственность:
//   - регистрация пользователей (хэш пароля, уникальность решает хранилище)
//   - аутентификация (логин) и выпуск access-токена
//
// Сервис без состояния: сессий и отзыва токенов нет.
type AuthService struct {
	users  UsersRepo
	hasher PasswordHasher
	tokens TokenIssuer

	accessTTL time.Duration

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService создаёт AuthService. accessTTL <= 0 заменяется на DefaultAccessTTL.
func NewAuthService(users UsersRepo, hasher PasswordHasher, tokens TokenIssuer, accessTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		accessTTL: accessTTL,
	}
}

// NormalizeEmail приводит email к виду, в котором он хранится: без пробелов, в нижнем регистре.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register регистрирует нового пользователя.
//
// Формат email и длина пароля проверяются в api до вызова сервиса,
// здесь только нормализация email и защита от пустых значений.
//
// Ошибки:
//   - ErrInvalidInput — пустой email или пароль
//   - ErrAlreadyExists — email уже зарегистрирован
//   - ErrInternal — сбой хэширования или хранилища
func (s *AuthService) Register(ctx context.Context, email, password string) (models.UserPublic, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return models.UserPublic{}, serr.ErrInvalidInput
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return models.UserPublic{}, serr.ErrInternal
	}

	u, err := s.users.Create(ctx, email, hash)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return models.UserPublic{}, serr.ErrAlreadyExists
		}
		return models.UserPublic{}, serr.ErrInternal
	}
	return u.Public(), nil
}

// Login проверяет пароль и выдаёт access-токен.
//
// Поведение:
//   - не раскрывает факт существования email: неизвестный email и неверный
//     пароль дают один и тот же ErrInvalidCredentials, а для неизвестного
//     email всё равно выполняется одна проверка хэша
//   - счётчика попыток и блокировки нет
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
//   - ErrInternal
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return "", serr.ErrInvalidInput
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			s.burnVerify(password)
			return "", serr.ErrInvalidCredentials
		}
		return "", serr.ErrInternal
	}

	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		// хэш в БД битый
		return "", serr.ErrInternal
	}
	if !ok {
		return "", serr.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email, s.accessTTL)
	if err != nil {
		return "", serr.ErrInternal
	}
	return token, nil
}

// burnVerify выравнивает время ответа для несуществующего email.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(password, s.dummyHash)
}
