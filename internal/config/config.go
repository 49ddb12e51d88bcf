package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	Session   SessionConfig
	RateLimit RateLimitConfig
	Auth      AuthConfig
	CORS      CORSConfig
}

type ServerConfig struct {
	Port           string
	Host           string
	Environment    string
	LogLevel       string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	RequestTimeout time.Duration
}

// MongoDBConfig: an empty URI selects the in-memory stores.
type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret     string
	CookieName string
	TTL        time.Duration
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

type AuthConfig struct {
	// RequireLogin attaches the login guard to /profile/:u_id routes.
	RequireLogin bool
	BcryptCost   int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// Production reports whether the server runs with production settings.
func (c *Config) Production() bool {
	return c.Server.Environment == "production"
}

// RedisAddr returns host:port, or "" when Redis is not configured.
func (c *Config) RedisAddr() string {
	if c.Redis.Host == "" {
		return ""
	}
	return c.Redis.Host + ":" + c.Redis.Port
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SERVER_REQUEST_TIMEOUT", 10)
	v.SetDefault("MONGODB_DATABASE", "quizzer")
	v.SetDefault("MONGODB_TIMEOUT", 10)
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("SESSION_COOKIE_NAME", "quizzer_session")
	v.SetDefault("SESSION_TTL_MINUTES", 10080)
	v.SetDefault("RATE_LIMIT_ENABLED", false)
	v.SetDefault("RATE_LIMIT_USE_REDIS", false)
	v.SetDefault("RATE_LIMIT_RPS", 10.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	v.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)
	v.SetDefault("AUTH_REQUIRE_LOGIN", false)
	v.SetDefault("AUTH_BCRYPT_COST", bcrypt.DefaultCost)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("SERVER_PORT"),
			Host:           v.GetString("SERVER_HOST"),
			Environment:    v.GetString("SERVER_ENVIRONMENT"),
			LogLevel:       v.GetString("LOG_LEVEL"),
			ReadTimeout:    30 * time.Second,
			WriteTimeout:   30 * time.Second,
			RequestTimeout: time.Duration(v.GetInt("SERVER_REQUEST_TIMEOUT")) * time.Second,
		},
		MongoDB: MongoDBConfig{
			URI:      v.GetString("MONGODB_URI"),
			Database: v.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(v.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     v.GetString("REDIS_HOST"),
			Port:     v.GetString("REDIS_PORT"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:     v.GetString("SESSION_SECRET"),
			CookieName: v.GetString("SESSION_COOKIE_NAME"),
			TTL:        time.Duration(v.GetInt("SESSION_TTL_MINUTES")) * time.Minute,
		},
		RateLimit: RateLimitConfig{
			Enabled:       v.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      v.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         v.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: v.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
		Auth: AuthConfig{
			RequireLogin: v.GetBool("AUTH_REQUIRE_LOGIN"),
			BcryptCost:   v.GetInt("AUTH_BCRYPT_COST"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings. Outside production a missing session
// secret is replaced by a random one, so sessions do not survive restarts.
func (c *Config) Validate() error {
	if c.Session.Secret == "" {
		if c.Production() {
			return fmt.Errorf("SESSION_SECRET is required in production")
		}
		b := make([]byte, 32)
		if _, err := rand.Read(b); err != nil {
			return fmt.Errorf("generate session secret: %w", err)
		}
		c.Session.Secret = hex.EncodeToString(b)
	}
	if c.Production() && c.MongoDB.URI == "" {
		return fmt.Errorf("MONGODB_URI is required in production")
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("AUTH_BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		c.CORS.AllowedOrigins = []string{"http://localhost:3000"}
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("SERVER_REQUEST_TIMEOUT must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
