package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quizzer/quizzer-api/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
	cost int
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r, cost: bcrypt.DefaultCost}
}

// SetHashCost changes the bcrypt cost used for new passwords.
func (s *Service) SetHashCost(cost int) {
	s.cost = cost
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return s.repo.Create(ctx, &models.User{Email: email, Password: string(hash)})
}

// Verify returns the user when the password matches its stored hash.
func (s *Service) Verify(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *Service) List(ctx context.Context) ([]*models.User, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}
