package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/questions"
	"github.com/quizzer/quizzer-api/internal/tags"
)

// ProfileTags lists the distinct tags of the profile owner's questions.
func (h *Handler) ProfileTags(c *gin.Context) {
	h.writeTagsOr404(c, "list profile tags", questions.Filter{UserID: c.Param("u_id")})
}

func (h *Handler) Tags(c *gin.Context) {
	h.writeTagsOr404(c, "list tags", questions.Filter{})
}

func (h *Handler) QuestionsByTag(c *gin.Context) {
	h.writeQuestionsOr404(c, "list questions by tag", questions.Filter{Tag: tags.Normalize(c.Param("tag"))})
}

func (h *Handler) writeTagsOr404(c *gin.Context, op string, f questions.Filter) {
	list, err := h.questions.DistinctTags(c.Request.Context(), f)
	if err != nil {
		respondStoreError(c, op, err)
		return
	}
	if len(list) == 0 {
		c.JSON(http.StatusNotFound, noDataMessage)
		return
	}
	c.JSON(http.StatusOK, list)
}
