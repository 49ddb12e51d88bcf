// Package questions persists quiz questions.
//
// Lookups that match nothing return (nil, nil) rather than an error; callers
// decide whether absence is a 404.
package questions

import (
	"context"

	"github.com/quizzer/quizzer-api/internal/models"
)

// Filter selects questions. Empty fields are not applied; an ID that is not a
// valid object id matches nothing.
type Filter struct {
	ID     string
	UserID string
	Tag    string
}

// Update is a partial replacement; nil fields are left untouched.
type Update struct {
	Tag          *string
	Name         *string
	Answer       *string
	WrongOptions []string
}

// Empty reports whether the update would change nothing.
func (u Update) Empty() bool {
	return u.Tag == nil && u.Name == nil && u.Answer == nil && u.WrongOptions == nil
}

// Repository defines persistence operations for questions
type Repository interface {
	Find(ctx context.Context, f Filter) ([]*models.Question, error)
	FindOne(ctx context.Context, f Filter) (*models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	Create(ctx context.Context, q *models.Question) (*models.Question, error)
	FindOneAndUpdate(ctx context.Context, f Filter, u Update) (*models.Question, error)
	FindOneAndRemove(ctx context.Context, f Filter) (*models.Question, error)
	DistinctTags(ctx context.Context, f Filter) ([]string, error)
}
