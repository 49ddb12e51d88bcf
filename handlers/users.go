package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/questions"
)

func (h *Handler) Users(c *gin.Context) {
	list, err := h.users.List(c.Request.Context())
	if err != nil {
		respondStoreError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// User responds with null rather than 404 for unknown ids.
func (h *Handler) User(c *gin.Context) {
	u, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, "get user", err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) UserQuestions(c *gin.Context) {
	list, err := h.questions.Find(c.Request.Context(), questions.Filter{UserID: c.Param("id")})
	if err != nil {
		respondStoreError(c, "list user questions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}
