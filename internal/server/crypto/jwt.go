// Package crypto содержит криптографические примитивы сервера.
//
// В частности, пакет отвечает за:
//   - хэширование и проверку паролей (argon2id, bcrypt);
//   - выпуск и проверку JWT access-токенов (HS256, iss/aud, срок жизни).
//
// Собственных примитивов пакет не реализует, всё делегируется
// golang.org/x/crypto и github.com/golang-jwt/jwt/v5.
package crypto

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken — подпись не сошлась, токен битый или claims некорректны.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired — текущее время >= exp.
	ErrTokenExpired = errors.New("token expired")
)

// JWTConfig описывает параметры генерации JWT access-токена.
type JWTConfig struct {
	// Issuer — значение поля iss (кто выдал токен).
	Issuer string
	// Audience — значение поля aud (для кого предназначен токен).
	Audience string
	// SigningKey — секретный ключ для подписи токена (HS256).
	// Должен быть достаточно длинным и случайным.
	SigningKey string
}

// Claims — то, что сервер кладёт в токен и достаёт обратно после проверки.
type Claims struct {
	UserID    int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// accessClaims — формат claims внутри JWT: стандартные поля + email.
type accessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenManager выпускает и проверяет access-токены.
//
// Состояния не хранит, отзыва токенов нет.
type TokenManager struct {
	cfg JWTConfig
	now func() time.Time
}

// NewTokenManager создаёт TokenManager с системными часами.
func NewTokenManager(cfg JWTConfig) *TokenManager {
	return &TokenManager{cfg: cfg, now: time.Now}
}

// WithClock подменяет часы (для тестов).
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue создаёт и подписывает JWT access-токен для пользователя.
//
// Токен содержит:
//   - iss, aud
//   - sub (userID)
//   - email
//   - iat, exp = iat + ttl
//   - jti (uuid)
func (m *TokenManager) Issue(userID int64, email string, ttl time.Duration) (string, error) {
	now := m.now()

	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Email: email,
	}
	if m.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.cfg.Audience}
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(m.cfg.SigningKey))
}

// Verify проверяет подпись, алгоритм, exp, iss и aud.
//
// Ошибки:
//   - ErrTokenExpired если токен истёк
//   - ErrInvalidToken во всех остальных случаях
func (m *TokenManager) Verify(token string) (Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	}
	if m.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.cfg.Issuer))
	}
	if m.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(m.cfg.Audience))
	}

	claims := &accessClaims{}
	_, err := jwt.NewParser(opts...).ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(m.cfg.SigningKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || userID <= 0 {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		UserID:    userID,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
