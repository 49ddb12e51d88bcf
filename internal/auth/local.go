package auth

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/models"
	"github.com/quizzer/quizzer-api/internal/users"
)

const (
	StrategyLocalLogin  = "local-login"
	StrategyLocalSignup = "local-signup"
)

// Credentials accepted by the local strategies, as JSON or form fields.
type Credentials struct {
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required"`
}

func bindCredentials(c *gin.Context) (Credentials, error) {
	var cr Credentials
	if err := c.ShouldBind(&cr); err != nil {
		return cr, fmt.Errorf("%w: %v", ErrMissingCredentials, err)
	}
	return cr, nil
}

type localLogin struct{ users *users.Service }

func (s localLogin) Authenticate(c *gin.Context) (*models.User, error) {
	cr, err := bindCredentials(c)
	if err != nil {
		return nil, err
	}
	return s.users.Verify(c.Request.Context(), cr.Email, cr.Password)
}

type localSignup struct{ users *users.Service }

func (s localSignup) Authenticate(c *gin.Context) (*models.User, error) {
	cr, err := bindCredentials(c)
	if err != nil {
		return nil, err
	}
	return s.users.Register(c.Request.Context(), cr.Email, cr.Password)
}

// UseLocal registers the local-login and local-signup strategies.
func (a *Authenticator) UseLocal(u *users.Service) {
	a.Use(StrategyLocalLogin, localLogin{users: u})
	a.Use(StrategyLocalSignup, localSignup{users: u})
}
