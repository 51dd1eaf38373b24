// Package models содержит модели HTTP API, общие для сервера и CLI-клиента.
package models

// RegisterRequest — тело запроса регистрации.
//
// Используется в:
//
//	POST /auth/register
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest — тело запроса входа.
//
// Используется в:
//
//	POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse — публичное представление пользователя.
//
// Хэш пароля сюда никогда не попадает.
type UserResponse struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

// LoginResponse — ответ успешного входа.
type LoginResponse struct {
	Token string `json:"token"`
}

// ProfileResponse — ответ эндпоинта профиля, эхо claims из токена.
//
// Используется в:
//
//	GET /auth/profile
type ProfileResponse struct {
	UserID int64  `json:"userId"`
	Email  string `json:"email"`
}

// ErrorResponse — формат ошибки, который возвращает сервер.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse — ответ health-check.
type HealthResponse struct {
	Status string `json:"status"`
}
