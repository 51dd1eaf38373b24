// В этом файле описаны методы клиента для работы с эндпоинтами
// аутентификации: регистрация, вход и профиль текущего пользователя.
package api

import "github.com/IvanChernomyrdin/go-auth-service/internal/shared/models"

// Register выполняет регистрацию пользователя на сервере.
//
// Метод отправляет POST запрос на /auth/register и возвращает публичные
// данные созданного пользователя.
func (c *Client) Register(email, password string) (models.UserResponse, error) {
	var resp models.UserResponse
	err := c.PostJSON("/auth/register", models.RegisterRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Login выполняет вход пользователя и получает access токен.
func (c *Client) Login(email, password string) (models.LoginResponse, error) {
	var resp models.LoginResponse
	err := c.PostJSON("/auth/login", models.LoginRequest{Email: email, Password: password}, &resp, "")
	return resp, err
}

// Profile запрашивает профиль пользователя, которому выдан token.
func (c *Client) Profile(token string) (models.ProfileResponse, error) {
	var resp models.ProfileResponse
	err := c.GetJSON("/auth/profile", &resp, token)
	return resp, err
}
