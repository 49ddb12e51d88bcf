// Package auth resolves the request identity and runs the named login
// strategies. The browser holds only a signed cookie with a session id; the
// session itself lives in the sessions store.
package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/models"
	"github.com/quizzer/quizzer-api/internal/sessions"
	"github.com/quizzer/quizzer-api/internal/users"
	"github.com/quizzer/quizzer-api/pkg/logger"
	"github.com/quizzer/quizzer-api/pkg/metrics"
)

const (
	// ContextUserKey holds the authenticated *models.User in the gin context.
	ContextUserKey = "auth.user"

	sessionKeyID = "sid"
)

var (
	ErrUnknownStrategy    = errors.New("unknown authentication strategy")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Strategy verifies the request and returns the user it identifies.
type Strategy interface {
	Authenticate(c *gin.Context) (*models.User, error)
}

// UserLookup loads the user a session points to.
type UserLookup interface {
	Get(ctx context.Context, id string) (*models.User, error)
}

type Authenticator struct {
	strategies map[string]Strategy
	sessions   *sessions.Service
	users      UserLookup
	ttl        time.Duration
}

func NewAuthenticator(s *sessions.Service, u UserLookup, ttl time.Duration) *Authenticator {
	return &Authenticator{strategies: map[string]Strategy{}, sessions: s, users: u, ttl: ttl}
}

// Use registers a strategy under name, replacing any previous one.
func (a *Authenticator) Use(name string, s Strategy) {
	a.strategies[name] = s
}

// Authenticate returns a middleware running the named strategy. On success the
// user is logged in and the chain continues; on failure the request is aborted.
func (a *Authenticator) Authenticate(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := a.strategies[name]
		if !ok {
			logger.Errorf("authenticate: %v %q", ErrUnknownStrategy, name)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": ErrUnknownStrategy.Error()})
			return
		}
		u, err := s.Authenticate(c)
		if err != nil {
			metrics.AuthAttempts.WithLabelValues(name, "failure").Inc()
			status := failureStatus(err)
			if status == http.StatusInternalServerError {
				logger.Errorf("authenticate %s: %v", name, err)
				c.AbortWithStatusJSON(status, gin.H{"error": "authentication failed"})
				return
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}
		if err := a.Login(c, u); err != nil {
			logger.Errorf("login %s: %v", name, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
			return
		}
		metrics.AuthAttempts.WithLabelValues(name, "success").Inc()
		c.Next()
	}
}

func failureStatus(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredentials):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, users.ErrEmailTaken):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Login starts a new session for u, replacing the one in the cookie if any.
func (a *Authenticator) Login(c *gin.Context, u *models.User) error {
	ctx := c.Request.Context()
	id, err := a.sessions.CreateSession(ctx, u.ID.Hex(), a.ttl)
	if err != nil {
		return err
	}
	sess := ginsessions.Default(c)
	if old, ok := sess.Get(sessionKeyID).(string); ok && old != "" {
		_ = a.sessions.Delete(ctx, old)
	}
	sess.Set(sessionKeyID, id)
	if err := sess.Save(); err != nil {
		return err
	}
	c.Set(ContextUserKey, u)
	return nil
}

// Logout ends the current session. Anonymous requests are a no-op.
func (a *Authenticator) Logout(c *gin.Context) error {
	sess := ginsessions.Default(c)
	var err error
	if id, ok := sess.Get(sessionKeyID).(string); ok {
		err = a.sessions.Delete(c.Request.Context(), id)
	}
	sess.Clear()
	if serr := sess.Save(); err == nil {
		err = serr
	}
	c.Set(ContextUserKey, (*models.User)(nil))
	return err
}

// Identify loads the session user, when there is one, into the gin context.
// It never rejects a request.
func (a *Authenticator) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := ginsessions.Default(c)
		id, _ := sess.Get(sessionKeyID).(string)
		if id == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()
		s, err := a.sessions.Resolve(ctx, id)
		if err != nil {
			logger.Warnf("session lookup failed: %v", err)
			c.Next()
			return
		}
		if s == nil {
			sess.Delete(sessionKeyID)
			_ = sess.Save()
			c.Next()
			return
		}
		u, err := a.users.Get(ctx, s.UserID)
		if err != nil {
			logger.Warnf("session user lookup failed: %v", err)
		} else if u != nil {
			c.Set(ContextUserKey, u)
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated user or nil.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}
