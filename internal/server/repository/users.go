// Package repository — доступ к PostgreSQL через database/sql.
//
// Ошибки драйвера наружу не выходят: репозиторий переводит их в
// сентинелы из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgconn"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
)

const uniqueViolation = "23505"

type UsersRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewUsersRepository создаёт репозиторий. timeout <= 0 — без ограничения на запрос.
func NewUsersRepository(db *sql.DB, timeout time.Duration) *UsersRepository {
	return &UsersRepository{db: db, timeout: timeout}
}

func (r *UsersRepository) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.timeout)
}

// Create вставляет пользователя. Уникальность email решает индекс в БД,
// поэтому две параллельные регистрации одного email дают ровно одну запись.
func (r *UsersRepository) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	u := models.User{Email: email, PasswordHash: passwordHash}

	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, password_hash)
		 VALUES ($1,$2)
		 RETURNING id, created_at`,
		email, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return models.User{}, serr.ErrAlreadyExists
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var u models.User

	err := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM users WHERE email=$1`,
		email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, serr.ErrNotFound
		}
		return models.User{}, serr.ErrInternal
	}

	return u, nil
}

// Ping — для /healthz.
func (r *UsersRepository) Ping(ctx context.Context) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	return r.db.PingContext(ctx)
}
