package questions

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/quizzer/quizzer-api/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepository is an in-memory Repository used by tests and when no
// MongoDB URI is configured. Results are returned in insertion order.
type MemoryRepository struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	store map[primitive.ObjectID]*models.Question
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{store: make(map[primitive.ObjectID]*models.Question)}
}

func (f Filter) matches(q *models.Question) bool {
	if f.ID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil || oid != q.ID {
			return false
		}
	}
	if f.UserID != "" && q.UserID != f.UserID {
		return false
	}
	if f.Tag != "" && q.Tag != f.Tag {
		return false
	}
	return true
}

func clone(q *models.Question) *models.Question {
	c := *q
	if q.WrongOptions != nil {
		c.WrongOptions = make([]string, len(q.WrongOptions))
		copy(c.WrongOptions, q.WrongOptions)
	}
	return &c
}

func (m *MemoryRepository) Find(ctx context.Context, f Filter) ([]*models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*models.Question{}
	for _, id := range m.order {
		if q := m.store[id]; f.matches(q) {
			out = append(out, clone(q))
		}
	}
	return out, nil
}

func (m *MemoryRepository) FindOne(ctx context.Context, f Filter) (*models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if id, ok := m.first(f); ok {
		return clone(m.store[id]), nil
	}
	return nil, nil
}

func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	return m.FindOne(ctx, Filter{ID: id})
}

func (m *MemoryRepository) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.WrongOptions == nil {
		q.WrongOptions = []string{}
	}
	q.CreatedAt = time.Now().UTC()
	q.UpdatedAt = q.CreatedAt
	if _, exists := m.store[q.ID]; !exists {
		m.order = append(m.order, q.ID)
	}
	m.store[q.ID] = clone(q)
	return q, nil
}

func (m *MemoryRepository) FindOneAndUpdate(ctx context.Context, f Filter, u Update) (*models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.first(f)
	if !ok {
		return nil, nil
	}
	q := m.store[id]
	if u.Tag != nil {
		q.Tag = *u.Tag
	}
	if u.Name != nil {
		q.Name = *u.Name
	}
	if u.Answer != nil {
		q.Answer = *u.Answer
	}
	if u.WrongOptions != nil {
		q.WrongOptions = make([]string, len(u.WrongOptions))
		copy(q.WrongOptions, u.WrongOptions)
	}
	q.UpdatedAt = time.Now().UTC()
	return clone(q), nil
}

func (m *MemoryRepository) FindOneAndRemove(ctx context.Context, f Filter) (*models.Question, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.first(f)
	if !ok {
		return nil, nil
	}
	removed := m.store[id]
	delete(m.store, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return removed, nil
}

func (m *MemoryRepository) DistinctTags(ctx context.Context, f Filter) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := map[string]struct{}{}
	out := []string{}
	for _, id := range m.order {
		q := m.store[id]
		if !f.matches(q) {
			continue
		}
		if _, dup := seen[q.Tag]; dup {
			continue
		}
		seen[q.Tag] = struct{}{}
		out = append(out, q.Tag)
	}
	sort.Strings(out)
	return out, nil
}

// first returns the id of the first stored question matching f. Caller holds mu.
func (m *MemoryRepository) first(f Filter) (primitive.ObjectID, bool) {
	for _, id := range m.order {
		if f.matches(m.store[id]) {
			return id, true
		}
	}
	return primitive.NilObjectID, false
}
