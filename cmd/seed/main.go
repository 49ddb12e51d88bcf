// Command seed loads a demo account and a handful of questions into MongoDB.
// It uses the same repositories and normalizer as the API, so seeded data is
// indistinguishable from data created over HTTP.
package main

import (
	"context"
	"errors"
	"flag"
	"os"

	"github.com/quizzer/quizzer-api/internal/config"
	"github.com/quizzer/quizzer-api/internal/database"
	"github.com/quizzer/quizzer-api/internal/models"
	"github.com/quizzer/quizzer-api/internal/questions"
	"github.com/quizzer/quizzer-api/internal/tags"
	"github.com/quizzer/quizzer-api/internal/users"
	"github.com/quizzer/quizzer-api/pkg/logger"
)

type sample struct {
	tag, name, answer string
	wrong             []string
}

var samples = []sample{
	{"algebra", "solve 2x = 4", "x = 2", []string{"x = 1", "x = 4", "x = 8"}},
	{"algebra", "expand (a+b)^2", "a^2 + 2ab + b^2", []string{"a^2 + b^2", "2a + 2b", "a^2b^2"}},
	{"geography", "capital of france", "paris", []string{"Lyon", "Marseille", "Nice"}},
	{"geography", "longest river in africa", "nile", []string{"Congo", "Niger", "Zambezi"}},
	{"history", "year the berlin wall fell", "1989", []string{"1987", "1991", "1961"}},
}

func main() {
	email := flag.String("email", "demo@quizzer.local", "demo account email")
	password := flag.String("password", "demo", "demo account password")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	if cfg.MongoDB.URI == "" {
		logger.Fatalf("MONGODB_URI is required to seed data")
	}

	ctx := context.Background()
	client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
	if err != nil {
		logger.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer func() { _ = client.Disconnect(ctx) }()

	db := client.Database(cfg.MongoDB.Database)
	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatalf("failed to ensure indexes: %v", err)
	}

	userSvc := users.NewService(users.NewMongoUserRepository(db.Collection(database.UsersCollection)))
	userSvc.SetHashCost(cfg.Auth.BcryptCost)
	qrepo := questions.NewMongoRepository(db.Collection(database.QuestionsCollection))

	n, err := seed(ctx, userSvc, qrepo, *email, *password)
	if err != nil {
		logger.Fatalf("seed failed: %v", err)
	}
	logger.Infof("seeded %d questions for %s", n, *email)
}

// seed registers the demo user (or logs in when it exists) and inserts the
// samples it does not own yet. It returns the number of questions inserted.
func seed(ctx context.Context, userSvc *users.Service, qrepo questions.Repository, email, password string) (int, error) {
	u, err := userSvc.Register(ctx, email, password)
	if errors.Is(err, users.ErrEmailTaken) {
		u, err = userSvc.Verify(ctx, email, password)
	}
	if err != nil {
		return 0, err
	}
	owner := u.ID.Hex()

	inserted := 0
	for _, s := range samples {
		name := tags.Normalize(s.name)
		existing, err := qrepo.Find(ctx, questions.Filter{UserID: owner, Tag: tags.Normalize(s.tag)})
		if err != nil {
			return inserted, err
		}
		if containsName(existing, name) {
			continue
		}
		_, err = qrepo.Create(ctx, &models.Question{
			UserID:       owner,
			Tag:          tags.Normalize(s.tag),
			Name:         name,
			Answer:       tags.Normalize(s.answer),
			WrongOptions: s.wrong,
		})
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func containsName(list []*models.Question, name string) bool {
	for _, q := range list {
		if q.Name == name {
			return true
		}
	}
	return false
}
