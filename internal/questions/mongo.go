package questions

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/quizzer/quizzer-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository implements Repository using a Mongo collection
type MongoRepository struct {
	col *mongo.Collection
}

func NewMongoRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{col: col}
}

// toBSON builds the query document. ok is false when the filter cannot match anything.
func (f Filter) toBSON() (q bson.M, ok bool) {
	q = bson.M{}
	if f.ID != "" {
		oid, err := primitive.ObjectIDFromHex(f.ID)
		if err != nil {
			return nil, false
		}
		q["_id"] = oid
	}
	if f.UserID != "" {
		q["user_id"] = f.UserID
	}
	if f.Tag != "" {
		q["tag"] = f.Tag
	}
	return q, true
}

func (u Update) toBSON(now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	if u.Tag != nil {
		set["tag"] = *u.Tag
	}
	if u.Name != nil {
		set["name"] = *u.Name
	}
	if u.Answer != nil {
		set["answer"] = *u.Answer
	}
	if u.WrongOptions != nil {
		set["wrongOptions"] = u.WrongOptions
	}
	return bson.M{"$set": set}
}

func (r *MongoRepository) Find(ctx context.Context, f Filter) ([]*models.Question, error) {
	out := []*models.Question{}
	q, ok := f.toBSON()
	if !ok {
		return out, nil
	}
	cur, err := r.col.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find questions: %w", err)
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var qq models.Question
		if err := cur.Decode(&qq); err != nil {
			return nil, err
		}
		out = append(out, &qq)
	}
	return out, cur.Err()
}

func (r *MongoRepository) FindOne(ctx context.Context, f Filter) (*models.Question, error) {
	q, ok := f.toBSON()
	if !ok {
		return nil, nil
	}
	var qq models.Question
	if err := r.col.FindOne(ctx, q).Decode(&qq); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &qq, nil
}

func (r *MongoRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	return r.FindOne(ctx, Filter{ID: id})
}

func (r *MongoRepository) Create(ctx context.Context, q *models.Question) (*models.Question, error) {
	now := time.Now().UTC()
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.WrongOptions == nil {
		q.WrongOptions = []string{}
	}
	q.CreatedAt = now
	q.UpdatedAt = now
	if _, err := r.col.InsertOne(ctx, q); err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}
	return q, nil
}

func (r *MongoRepository) FindOneAndUpdate(ctx context.Context, f Filter, u Update) (*models.Question, error) {
	q, ok := f.toBSON()
	if !ok {
		return nil, nil
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Question
	if err := r.col.FindOneAndUpdate(ctx, q, u.toBSON(time.Now().UTC()), opts).Decode(&updated); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &updated, nil
}

func (r *MongoRepository) FindOneAndRemove(ctx context.Context, f Filter) (*models.Question, error) {
	q, ok := f.toBSON()
	if !ok {
		return nil, nil
	}
	var removed models.Question
	if err := r.col.FindOneAndDelete(ctx, q).Decode(&removed); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &removed, nil
}

func (r *MongoRepository) DistinctTags(ctx context.Context, f Filter) ([]string, error) {
	out := []string{}
	q, ok := f.toBSON()
	if !ok {
		return out, nil
	}
	vals, err := r.col.Distinct(ctx, "tag", q)
	if err != nil {
		return nil, fmt.Errorf("distinct tags: %w", err)
	}
	for _, v := range vals {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out, nil
}
