package repository

import (
	"context"
	"sync"
	"time"

	"github.com/IvanChernomyrdin/go-auth-service/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-auth-service/internal/shared/errors"
)

// MemoryUsersRepository — потокобезопасное in-memory хранилище пользователей.
//
// Ведёт себя как таблица users: id выдаются по возрастанию с 1,
// email уникален. Используется при db.driver=memory (локальный запуск)
// и в тестах транспорта. Данные теряются при рестарте.
type MemoryUsersRepository struct {
	mu      sync.RWMutex
	nextID  int64
	byEmail map[string]models.User
	now     func() time.Time
}

// NewMemoryUsersRepository создаёт пустое хранилище.
func NewMemoryUsersRepository() *MemoryUsersRepository {
	return &MemoryUsersRepository{
		byEmail: make(map[string]models.User),
		now:     time.Now,
	}
}

// Create проверяет уникальность и вставку под одной блокировкой.
func (r *MemoryUsersRepository) Create(ctx context.Context, email, passwordHash string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, serr.ErrInternal
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return models.User{}, serr.ErrAlreadyExists
	}

	r.nextID++
	u := models.User{
		ID:           r.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.now().UTC(),
	}
	r.byEmail[email] = u
	return u, nil
}

func (r *MemoryUsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, serr.ErrInternal
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return models.User{}, serr.ErrNotFound
	}
	return u, nil
}

// Ping всегда успешен.
func (r *MemoryUsersRepository) Ping(context.Context) error {
	return nil
}

// Len — количество пользователей.
func (r *MemoryUsersRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byEmail)
}
