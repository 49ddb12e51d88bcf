package sessions

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Service wraps repository operations with expiry handling
type Service struct {
	repo Repository
}

func NewService(r Repository) *Service { return &Service{repo: r} }

// CreateSession stores a new session for userID and returns its id
func (s *Service) CreateSession(ctx context.Context, userID string, ttl time.Duration) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	now := time.Now().UTC()
	sess := &Session{
		ID:        hex.EncodeToString(b),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.repo.Create(ctx, sess); err != nil {
		return "", err
	}
	return sess.ID, nil
}

// Resolve returns the session if id is known and not expired
func (s *Service) Resolve(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return nil, nil
	}
	sess, err := s.repo.Get(ctx, id)
	if err != nil || sess == nil {
		return nil, err
	}
	if sess.Expired(time.Now().UTC()) {
		_ = s.repo.Delete(ctx, id)
		return nil, nil
	}
	return sess, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return s.repo.Delete(ctx, id)
}
