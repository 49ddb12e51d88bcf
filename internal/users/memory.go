package users

import (
	"context"
	"sync"
	"time"

	"github.com/quizzer/quizzer-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryUserRepository keeps users in process memory (tests, no-Mongo development).
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users []*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{}
}

func (m *MemoryUserRepository) List(ctx context.Context) ([]*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		c := *u
		out = append(out, &c)
	}
	return out, nil
}

func (m *MemoryUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return m.find(ctx, func(u *models.User) bool { return u.ID.Hex() == id })
}

func (m *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return m.find(ctx, func(u *models.User) bool { return u.Email == email })
}

func (m *MemoryUserRepository) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return nil, ErrEmailTaken
		}
	}
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	c := *u
	m.users = append(m.users, &c)
	return u, nil
}

func (m *MemoryUserRepository) find(ctx context.Context, match func(*models.User) bool) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if match(u) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}
