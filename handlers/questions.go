package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/models"
	"github.com/quizzer/quizzer-api/internal/questions"
	"github.com/quizzer/quizzer-api/internal/tags"
	"github.com/quizzer/quizzer-api/pkg/metrics"
)

var (
	errOwnerMismatch = errors.New("user_id does not match the profile")
	errEmptyUpdate   = errors.New("no fields to update")
	errBlankField    = errors.New("tag, name and answer must not be empty")
)

// CreateQuestionRequest is the body of POST /profile/:u_id/questions.
// user_id is optional; when present it must equal the path owner.
type CreateQuestionRequest struct {
	Name         string   `json:"name" form:"name" binding:"required"`
	Tag          string   `json:"tag" form:"tag" binding:"required"`
	Answer       string   `json:"answer" form:"answer" binding:"required"`
	WrongOptions []string `json:"wrongOptions" form:"wrongOptions"`
	UserID       string   `json:"user_id" form:"user_id"`
}

// UpdateQuestionRequest carries the fields of a partial update; absent fields
// are left untouched. Present text fields must not be empty.
type UpdateQuestionRequest struct {
	Tag          *string  `json:"tag" form:"tag"`
	Name         *string  `json:"name" form:"name"`
	Answer       *string  `json:"answer" form:"answer"`
	WrongOptions []string `json:"wrongOptions" form:"wrongOptions"`
}

func (r UpdateQuestionRequest) hasBlankField() bool {
	for _, p := range []*string{r.Tag, r.Name, r.Answer} {
		if p != nil && *p == "" {
			return true
		}
	}
	return false
}

// DeleteQuestionRequest selects the question to remove. UserID defaults to
// the profile in the path. net/http does not parse form bodies on DELETE, so
// form callers pass id and user_id in the query string.
type DeleteQuestionRequest struct {
	ID     string `json:"id" form:"id" binding:"required"`
	UserID string `json:"user_id" form:"user_id"`
}

func (h *Handler) ProfileQuestions(c *gin.Context) {
	list, err := h.questions.Find(c.Request.Context(), questions.Filter{UserID: c.Param("u_id")})
	if err != nil {
		respondStoreError(c, "list profile questions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ProfileQuestionsByTag(c *gin.Context) {
	f := questions.Filter{UserID: c.Param("u_id"), Tag: tags.Normalize(c.Param("tag"))}
	h.writeQuestionsOr404(c, "list profile questions by tag", f)
}

func (h *Handler) ProfileQuestion(c *gin.Context) {
	q, err := h.questions.FindOne(c.Request.Context(), questions.Filter{ID: c.Param("id"), UserID: c.Param("u_id")})
	if err != nil {
		respondStoreError(c, "get profile question", err)
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, noQuestionFound)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) CreateQuestion(c *gin.Context) {
	owner := c.Param("u_id")
	var req CreateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.UserID != "" && req.UserID != owner {
		respondBadRequest(c, errOwnerMismatch)
		return
	}
	q := &models.Question{
		UserID:       owner,
		Tag:          tags.Normalize(req.Tag),
		Name:         tags.Normalize(req.Name),
		Answer:       tags.Normalize(req.Answer),
		WrongOptions: req.WrongOptions,
	}
	created, err := h.questions.Create(c.Request.Context(), q)
	if err != nil {
		respondStoreError(c, "create question", err)
		return
	}
	if created == nil {
		c.JSON(http.StatusBadRequest, invalidRequest)
		return
	}
	metrics.QuestionWrites.WithLabelValues("create").Inc()
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) UpdateQuestion(c *gin.Context) {
	var req UpdateQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.hasBlankField() {
		respondBadRequest(c, errBlankField)
		return
	}
	u := questions.Update{Name: req.Name, Answer: req.Answer, WrongOptions: req.WrongOptions}
	if req.Tag != nil {
		tag := tags.Normalize(*req.Tag)
		u.Tag = &tag
	}
	if u.Empty() {
		respondBadRequest(c, errEmptyUpdate)
		return
	}
	f := questions.Filter{ID: c.Param("id"), UserID: c.Param("u_id")}
	q, err := h.questions.FindOneAndUpdate(c.Request.Context(), f, u)
	if err != nil {
		respondStoreError(c, "update question", err)
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, noQuestionFound)
		return
	}
	metrics.QuestionWrites.WithLabelValues("update").Inc()
	c.JSON(http.StatusOK, q)
}

// DeleteQuestion responds with the removed question, or null when nothing
// matched so repeated deletes are not errors.
func (h *Handler) DeleteQuestion(c *gin.Context) {
	var req DeleteQuestionRequest
	if err := c.ShouldBind(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if req.UserID == "" {
		req.UserID = c.Param("u_id")
	}
	q, err := h.questions.FindOneAndRemove(c.Request.Context(), questions.Filter{ID: req.ID, UserID: req.UserID})
	if err != nil {
		respondStoreError(c, "delete question", err)
		return
	}
	if q != nil {
		metrics.QuestionWrites.WithLabelValues("delete").Inc()
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) Questions(c *gin.Context) {
	list, err := h.questions.Find(c.Request.Context(), questions.Filter{})
	if err != nil {
		respondStoreError(c, "list questions", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) Question(c *gin.Context) {
	q, err := h.questions.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondStoreError(c, "get question", err)
		return
	}
	if q == nil {
		c.JSON(http.StatusNotFound, noDataMessage)
		return
	}
	c.JSON(http.StatusOK, q)
}

func (h *Handler) writeQuestionsOr404(c *gin.Context, op string, f questions.Filter) {
	list, err := h.questions.Find(c.Request.Context(), f)
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
