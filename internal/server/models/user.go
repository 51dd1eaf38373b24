// Серверная модель пользователя
package models

import (
	"time"
)

// User — строка таблицы users. PasswordHash наружу не отдаётся.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserPublic — единственная форма пользователя, которая выходит из сервисного слоя.
type UserPublic struct {
	ID    int64
	Email string
}

// Public отбрасывает хэш пароля.
func (u User) Public() UserPublic {
	return UserPublic{ID: u.ID, Email: u.Email}
}
