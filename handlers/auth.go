package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/auth"
	"github.com/quizzer/quizzer-api/pkg/logger"
)

func (h *Handler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, welcomeMessage)
}

// CurrentUser writes the session user, or null for anonymous requests.
func (h *Handler) CurrentUser(c *gin.Context) {
	c.JSON(http.StatusOK, auth.CurrentUser(c))
}

func (h *Handler) LoggedIn(c *gin.Context) {
	if u := auth.CurrentUser(c); u != nil {
		c.JSON(http.StatusOK, u)
		return
	}
	c.String(http.StatusOK, loggedOutPayload)
}

func (h *Handler) SignupPage(c *gin.Context) {
	c.String(http.StatusOK, signupMessage)
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c); err != nil {
		// the cookie is cleared either way
		logger.Warnf("logout: %v", err)
	}
	c.Redirect(http.StatusFound, "/")
}
