package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"

	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-auth-service/internal/shared/models"
)

// Границы длины пароля в байтах. 72 — предел bcrypt.
const (
	MinPasswordLen = 6
	MaxPasswordLen = 72
)

// decodeJSON читает тело с лимитом и отклоняет неизвестные поля и хвост после объекта.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	limit := h.MaxBodyBytes
	if limit <= 0 {
		limit = DefaultMaxBodyBytes
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return serr.ErrBadJSON
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return serr.ErrBadJSON
	}
	return nil
}

// validateRegister: email обязателен и валиден, пароль 6..72 байт.
func validateRegister(req models.RegisterRequest) error {
	err := validation.Errors{
		"email":    validation.Validate(req.Email, validation.Required, is.Email),
		"password": validation.Validate(req.Password, validation.Required, validation.Length(MinPasswordLen, MaxPasswordLen)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", serr.ErrInvalidInput, err)
	}
	return nil
}

// validateLogin: длину пароля не проверяем, неподходящий пароль — просто неверные учётные данные.
func validateLogin(req models.LoginRequest) error {
	err := validation.Errors{
		"email":    validation.Validate(req.Email, validation.Required, is.Email),
		"password": validation.Validate(req.Password, validation.Required),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", serr.ErrInvalidInput, err)
	}
	return nil
}
