package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/quizzer/quizzer-api/handlers"
	"github.com/quizzer/quizzer-api/internal/auth"
	"github.com/quizzer/quizzer-api/internal/config"
	"github.com/quizzer/quizzer-api/internal/database"
	"github.com/quizzer/quizzer-api/internal/questions"
	"github.com/quizzer/quizzer-api/internal/sessions"
	"github.com/quizzer/quizzer-api/internal/users"
	"github.com/quizzer/quizzer-api/pkg/logger"
	"github.com/quizzer/quizzer-api/pkg/metrics"
	"github.com/quizzer/quizzer-api/pkg/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var startTime = time.Now()

func main() {
	// LOG_LEVEL: debug|info|warn|error|fatal; re-applied once .env is loaded
	logger.Init(os.Getenv("LOG_LEVEL"))

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)
	if cfg.Production() {
		logger.UseJSON()
		gin.SetMode(gin.ReleaseMode)
	}
	logger.Infof("config loaded: env=%s mongo=%v redis=%v", cfg.Server.Environment, cfg.MongoDB.URI != "", cfg.RedisAddr() != "")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis is optional: it backs sessions and the shared rate limiter when reachable.
	var rdb *redis.Client
	if addr := cfg.RedisAddr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = rdb.Close()
			rdb = nil
		} else {
			logger.Infof("connected to Redis at %s", addr)
			defer func() { _ = rdb.Close() }()
		}
	}

	var (
		mongoClient  *mongo.Client
		questionRepo questions.Repository
		userRepo     users.UserRepository
	)
	if cfg.MongoDB.URI != "" {
		client, err := database.ConnectMongoWithRetry(ctx, cfg.MongoDB.URI, cfg.MongoDB.Timeout, 5)
		if err != nil {
			logger.Fatalf("could not connect to MongoDB: %v", err)
		}
		mongoClient = client
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()

		db := client.Database(cfg.MongoDB.Database)
		if err := database.EnsureIndexes(ctx, db); err != nil {
			logger.Warnf("failed to ensure indexes: %v", err)
		}
		questionRepo = questions.NewMongoRepository(db.Collection(database.QuestionsCollection))
		userRepo = users.NewMongoUserRepository(db.Collection(database.UsersCollection))
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warn("MONGODB_URI not set: using in-memory stores, data is lost on restart")
		questionRepo = questions.NewMemoryRepository()
		userRepo = users.NewMemoryUserRepository()
	}

	var sessionRepo sessions.Repository
	if rdb != nil {
		sessionRepo = sessions.NewRedisRepository(rdb, "session:")
		logger.Infof("using Redis for session storage")
	} else {
		sessionRepo = sessions.NewMemoryRepository()
	}

	userSvc := users.NewService(userRepo)
	userSvc.SetHashCost(cfg.Auth.BcryptCost)
	authn := auth.NewAuthenticator(sessions.NewService(sessionRepo), userSvc, cfg.Session.TTL)
	authn.UseLocal(userSvc)

	store := cookie.NewStore([]byte(cfg.Session.Secret))
	store.Options(ginsessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   cfg.Production(),
		SameSite: http.SameSiteLaxMode,
	})

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.AccessLog(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", func(c *gin.Context) {
		deps := map[string]bool{"mongo": true, "redis": true}
		pctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if mongoClient != nil {
			deps["mongo"] = mongoClient.Ping(pctx, readpref.Primary()) == nil
		}
		if rdb != nil {
			deps["redis"] = rdb.Ping(pctx).Err() == nil
		}
		status, code := "ready", http.StatusOK
		if !deps["mongo"] || !deps["redis"] {
			status, code = "not_ready", http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(startTime).String()})
	})

	metrics.RegisterCollectors(prometheus.DefaultRegisterer)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	handlers.RegisterSwagger(r)

	api := r.Group("/")
	api.Use(apiMiddleware(cfg, store, authn, rdb)...)
	handlers.NewHandler(cfg, questionRepo, userSvc, authn).Register(api)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Infof("starting quizzer API on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("graceful shutdown failed: %v", err)
	}
}

// apiMiddleware returns the chain in front of the route table. The timeout
// comes first so session, user and rate-limit lookups share the request deadline.
func apiMiddleware(cfg *config.Config, store ginsessions.Store, authn *auth.Authenticator, rdb *redis.Client) []gin.HandlerFunc {
	chain := []gin.HandlerFunc{
		middleware.Timeout(cfg.Server.RequestTimeout),
		ginsessions.Sessions(cfg.Session.CookieName, store),
		authn.Identify(),
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && rdb != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			chain = append(chain, middleware.RedisRateLimitMiddleware(rdb, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win))
		} else {
			chain = append(chain, middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst))
		}
	}
	return chain
}
