package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	ginsessions "github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/quizzer/quizzer-api/internal/auth"
	"github.com/quizzer/quizzer-api/internal/config"
	"github.com/quizzer/quizzer-api/internal/models"
	"github.com/quizzer/quizzer-api/internal/questions"
	"github.com/quizzer/quizzer-api/internal/sessions"
	"github.com/quizzer/quizzer-api/internal/users"
	"github.com/quizzer/quizzer-api/pkg/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	router    *gin.Engine
	questions questions.Repository
	users     *users.Service
}

func newTestServer(t *testing.T, cfg *config.Config, repo questions.Repository) *testServer {
	t.Helper()
	if cfg == nil {
		cfg = &config.Config{}
	}
	if repo == nil {
		repo = questions.NewMemoryRepository()
	}
	userSvc := users.NewService(users.NewMemoryUserRepository())
	userSvc.SetHashCost(bcrypt.MinCost)
	a := auth.NewAuthenticator(sessions.NewService(sessions.NewMemoryRepository()), userSvc, time.Hour)
	a.UseLocal(userSvc)

	r := gin.New()
	r.Use(ginsessions.Sessions("quizzer_test", cookie.NewStore([]byte("handlers-test-secret"))))
	r.Use(a.Identify())
	NewHandler(cfg, repo, userSvc, a).Register(r)

	return &testServer{router: r, questions: repo, users: userSvc}
}

func (s *testServer) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) doForm(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) seed(t *testing.T, userID, tag, name string) *models.Question {
	t.Helper()
	q, err := s.questions.Create(context.Background(), &models.Question{UserID: userID, Tag: tag, Name: name, Answer: "A"})
	require.NoError(t, err)
	return q
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestStaticRoutes(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to the Quizzer API!", decode[string](t, w))

	w = s.do(http.MethodGet, "/signup", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "This is the signup page...Please proceed to POST!", w.Body.String())

	w = s.do(http.MethodGet, "/loggedin", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "0", w.Body.String())

	w = s.do(http.MethodGet, "/profile", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestSessionRoutes(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodPost, "/signup", `{"email":"learner@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	created := decode[models.User](t, w)
	assert.Equal(t, "learner@example.com", created.Email)
	cookies := w.Result().Cookies()

	w = s.do(http.MethodGet, "/loggedin", "", cookies...)
	assert.Equal(t, created.ID, decode[models.User](t, w).ID)

	w = s.do(http.MethodGet, "/profile", "", cookies...)
	assert.Equal(t, created.ID, decode[models.User](t, w).ID)

	w = s.do(http.MethodPost, "/signup", `{"email":"learner@example.com","password":"other"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.do(http.MethodPost, "/logout", "", cookies...)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = s.do(http.MethodGet, "/loggedin", "", cookies...)
	assert.Equal(t, "0", w.Body.String())

	w = s.do(http.MethodPost, "/login", `{"email":"learner@example.com","password":"bad"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(http.MethodPost, "/login", `{"email":"learner@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, created.ID, decode[models.User](t, w).ID)
}

func TestCreateQuestionNormalizesAndLists(t *testing.T) {
	s := newTestServer(t, nil, nil)
	before := testutil.ToFloat64(metrics.QuestionWrites.WithLabelValues("create"))

	w := s.do(http.MethodPost, "/profile/u1/questions",
		`{"name":"math","tag":"algebra","answer":"x=2","wrongOptions":["x=1","x=3"],"user_id":"u1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	q := decode[models.Question](t, w)
	assert.False(t, q.ID.IsZero())
	assert.Equal(t, "u1", q.UserID)
	assert.Equal(t, "Algebra", q.Tag)
	assert.Equal(t, "Math", q.Name)
	assert.Equal(t, "X=2", q.Answer)
	assert.Equal(t, []string{"x=1", "x=3"}, q.WrongOptions)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.QuestionWrites.WithLabelValues("create"))-before)

	w = s.do(http.MethodGet, "/profile/u1/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.Question](t, w)
	require.Len(t, list, 1)
	assert.Equal(t, q.ID, list[0].ID)

	w = s.do(http.MethodGet, "/profile/u2/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestCreateQuestionValidation(t *testing.T) {
	s := newTestServer(t, nil, nil)

	cases := map[string]string{
		"missing answer": `{"name":"math","tag":"algebra"}`,
		"missing name":   `{"tag":"algebra","answer":"x"}`,
		"missing tag":    `{"name":"math","answer":"x"}`,
		"owner mismatch": `{"name":"math","tag":"algebra","answer":"x","user_id":"someone-else"}`,
		"malformed":      `{"name":`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/profile/u1/questions", body)
			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}

	list, err := s.questions.Find(context.Background(), questions.Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

type nilCreateRepo struct {
	*questions.MemoryRepository
}

func (nilCreateRepo) Create(context.Context, *models.Question) (*models.Question, error) {
	return nil, nil
}

func TestCreateQuestionWithoutResult(t *testing.T) {
	s := newTestServer(t, nil, nilCreateRepo{questions.NewMemoryRepository()})
	w := s.do(http.MethodPost, "/profile/u1/questions", `{"name":"n","tag":"t","answer":"a"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request.", decode[string](t, w))
}

func TestGetQuestion(t *testing.T) {
	s := newTestServer(t, nil, nil)
	q := s.seed(t, "u1", "Algebra", "Math")

	w := s.do(http.MethodGet, "/questions/"+q.ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, q.ID, decode[models.Question](t, w).ID)

	for _, id := range []string{"5f1d7f3e9d3b2a1c0b0a0908", "not-a-hex-id"} {
		w = s.do(http.MethodGet, "/questions/"+id, "")
		require.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "No data found!", decode[string](t, w))
	}

	w = s.do(http.MethodGet, "/profile/u1/questions/"+q.ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)

	// another owner's path does not see the question
	w = s.do(http.MethodGet, "/profile/u2/questions/"+q.ID.Hex(), "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Oops! No question found here.", decode[string](t, w))
}

func TestUpdateQuestion(t *testing.T) {
	s := newTestServer(t, nil, nil)
	q := s.seed(t, "u1", "Algebra", "Math")
	path := "/profile/u1/questions/" + q.ID.Hex()

	w := s.do(http.MethodPut, path, `{"tag":"gEOMETRY","wrongOptions":["a","b"]}`)
	require.Equal(t, http.StatusOK, w.Code)
	got := decode[models.Question](t, w)
	assert.Equal(t, "Geometry", got.Tag)
	assert.Equal(t, "Math", got.Name)
	assert.Equal(t, []string{"a", "b"}, got.WrongOptions)

	w = s.do(http.MethodPut, path, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	for _, body := range []string{`{"tag":""}`, `{"name":"","answer":"x"}`, `{"answer":""}`} {
		w = s.do(http.MethodPut, path, body)
		assert.Equal(t, http.StatusBadRequest, w.Code, body)
	}
	w = s.do(http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Geometry"}, decode[[]string](t, w))

	w = s.doForm(http.MethodPut, path, "name=Trig&wrongOptions=c")
	require.Equal(t, http.StatusOK, w.Code)
	got = decode[models.Question](t, w)
	assert.Equal(t, "Trig", got.Name)
	assert.Equal(t, "Geometry", got.Tag)
	assert.Equal(t, []string{"c"}, got.WrongOptions)

	w = s.doForm(http.MethodPut, path, "tag=")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPut, "/profile/u2/questions/"+q.ID.Hex(), `{"name":"Stolen"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Oops! No question found here.", decode[string](t, w))

	stored, err := s.questions.FindByID(context.Background(), q.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "Trig", stored.Name)
	assert.Equal(t, "Geometry", stored.Tag)
}

func TestDeleteQuestionTwice(t *testing.T) {
	s := newTestServer(t, nil, nil)
	q := s.seed(t, "u1", "Algebra", "Math")
	keep := s.seed(t, "u1", "Algebra", "Other")
	body := fmt.Sprintf(`{"id":%q,"user_id":"u1"}`, q.ID.Hex())

	w := s.do(http.MethodDelete, "/profile/u1/questions", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, q.ID, decode[models.Question](t, w).ID)

	w = s.do(http.MethodDelete, "/profile/u1/questions", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	list, err := s.questions.Find(context.Background(), questions.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ID)

	// user_id defaults to the profile owner
	w = s.do(http.MethodDelete, "/profile/u1/questions", fmt.Sprintf(`{"id":%q}`, keep.ID.Hex()))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, keep.ID, decode[models.Question](t, w).ID)

	w = s.do(http.MethodDelete, "/profile/u1/questions", `{"user_id":"u1"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteQuestionByQuery(t *testing.T) {
	s := newTestServer(t, nil, nil)
	q := s.seed(t, "u1", "Algebra", "Math")

	w := s.do(http.MethodDelete, "/profile/u1/questions?id="+q.ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, q.ID, decode[models.Question](t, w).ID)

	w = s.do(http.MethodDelete, "/profile/u1/questions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTags(t *testing.T) {
	s := newTestServer(t, nil, nil)

	w := s.do(http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No data found!", decode[string](t, w))

	s.seed(t, "u1", "Algebra", "One")
	s.seed(t, "u1", "Algebra", "Two")
	s.seed(t, "u2", "Algebra", "Three")
	s.seed(t, "u2", "History", "Four")

	w = s.do(http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Algebra", "History"}, decode[[]string](t, w))

	w = s.do(http.MethodGet, "/profile/u1/tags", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Algebra"}, decode[[]string](t, w))

	w = s.do(http.MethodGet, "/profile/u3/tags", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodGet, "/tags/aLGEBRA", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Question](t, w), 3)

	w = s.do(http.MethodGet, "/profile/u2/tags/algebra", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Question](t, w), 1)

	w = s.do(http.MethodGet, "/profile/u2/tags/physics", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "No data found!", decode[string](t, w))

	w = s.do(http.MethodGet, "/tags/physics", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUsersRoutes(t *testing.T) {
	s := newTestServer(t, nil, nil)
	u, err := s.users.Register(context.Background(), "owner@example.com", "pw")
	require.NoError(t, err)
	s.seed(t, u.ID.Hex(), "Algebra", "Mine")
	s.seed(t, "someone", "Algebra", "Theirs")

	w := s.do(http.MethodGet, "/users", "")
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]models.User](t, w)
	require.Len(t, list, 1)
	assert.NotContains(t, w.Body.String(), "password")

	w = s.do(http.MethodGet, "/users/"+u.ID.Hex(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "owner@example.com", decode[models.User](t, w).Email)

	w = s.do(http.MethodGet, "/users/5f1d7f3e9d3b2a1c0b0a0908", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())

	w = s.do(http.MethodGet, "/users/"+u.ID.Hex()+"/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	qs := decode[[]models.Question](t, w)
	require.Len(t, qs, 1)
	assert.Equal(t, "Mine", qs[0].Name)

	w = s.do(http.MethodGet, "/questions", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Question](t, w), 2)
}

type failingRepo struct {
	questions.Repository
	err error
}

func (f failingRepo) Find(context.Context, questions.Filter) ([]*models.Question, error) {
	return nil, f.err
}

func (f failingRepo) FindByID(context.Context, string) (*models.Question, error) {
	return nil, f.err
}

func (f failingRepo) DistinctTags(context.Context, questions.Filter) ([]string, error) {
	return nil, f.err
}

func TestStoreErrors(t *testing.T) {
	s := newTestServer(t, nil, failingRepo{err: errors.New("connection reset")})
	for _, path := range []string{"/questions", "/questions/abc", "/tags", "/profile/u1/questions"} {
		w := s.do(http.MethodGet, path, "")
		require.Equal(t, http.StatusInternalServerError, w.Code, path)
		assert.Equal(t, map[string]string{"error": "connection reset"}, decode[map[string]string](t, w))
	}

	s = newTestServer(t, nil, failingRepo{err: fmt.Errorf("find: %w", context.DeadlineExceeded)})
	w := s.do(http.MethodGet, "/tags", "")
	require.Equal(t, http.StatusGatewayTimeout, w.Code)
	assert.Equal(t, map[string]string{"error": "request timed out"}, decode[map[string]string](t, w))
}

func TestRequireLoginSwitch(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.RequireLogin = true
	s := newTestServer(t, cfg, nil)

	w := s.do(http.MethodGet, "/profile/u1/questions", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// unguarded routes stay public
	w = s.do(http.MethodGet, "/questions", "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(http.MethodPost, "/signup", `{"email":"g@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/profile/u1/questions", "", w.Result().Cookies()...)
	assert.Equal(t, http.StatusOK, w.Code)
}
