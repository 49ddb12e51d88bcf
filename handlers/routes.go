// Package handlers binds the quiz route table to gin. Handlers validate the
// request, build one repository call and translate its result to JSON.
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/quizzer/quizzer-api/internal/auth"
	"github.com/quizzer/quizzer-api/internal/config"
	"github.com/quizzer/quizzer-api/internal/questions"
	"github.com/quizzer/quizzer-api/internal/users"
	"github.com/quizzer/quizzer-api/pkg/middleware"
)

const (
	welcomeMessage   = "Welcome to the Quizzer API!"
	signupMessage    = "This is the signup page...Please proceed to POST!"
	noDataMessage    = "No data found!"
	noQuestionFound  = "Oops! No question found here."
	invalidRequest   = "Invalid request."
	loggedOutPayload = "0"
)

// Handler holds the collaborators shared by all routes.
type Handler struct {
	cfg       *config.Config
	questions questions.Repository
	users     *users.Service
	auth      *auth.Authenticator
}

func NewHandler(cfg *config.Config, q questions.Repository, u *users.Service, a *auth.Authenticator) *Handler {
	return &Handler{cfg: cfg, questions: q, users: u, auth: a}
}

// Register attaches the route table. The authenticator's Identify middleware
// must already be in the chain.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/", h.Home)
	r.POST("/login", h.auth.Authenticate(auth.StrategyLocalLogin), h.CurrentUser)
	r.GET("/loggedin", h.LoggedIn)
	r.GET("/signup", h.SignupPage)
	r.POST("/signup", h.auth.Authenticate(auth.StrategyLocalSignup), h.CurrentUser)
	r.POST("/logout", h.Logout)
	r.GET("/profile", h.CurrentUser)

	profile := r.Group("/profile/:u_id")
	if h.cfg != nil && h.cfg.Auth.RequireLogin {
		profile.Use(middleware.RequireLogin())
	}
	profile.GET("/tags", h.ProfileTags)
	profile.GET("/tags/:tag", h.ProfileQuestionsByTag)
	profile.GET("/questions", h.ProfileQuestions)
	profile.POST("/questions", h.CreateQuestion)
	profile.GET("/questions/:id", h.ProfileQuestion)
	profile.PUT("/questions/:id", h.UpdateQuestion)
	profile.DELETE("/questions", h.DeleteQuestion)

	r.GET("/tags", h.Tags)
	r.GET("/tags/:tag", h.QuestionsByTag)
	r.GET("/questions", h.Questions)
	r.GET("/questions/:id", h.Question)
	r.GET("/users", h.Users)
	r.GET("/users/:id", h.User)
	r.GET("/users/:id/questions", h.UserQuestions)
}
