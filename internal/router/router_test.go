package router

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/team-task-api/internal/config"
	"github.com/yukikurage/team-task-api/internal/dto"
	"github.com/yukikurage/team-task-api/internal/middleware"
	"github.com/yukikurage/team-task-api/internal/observability"
	"github.com/yukikurage/team-task-api/internal/repository"
	"github.com/yukikurage/team-task-api/internal/testutil"
	"github.com/yukikurage/team-task-api/internal/token"
)

type testServer struct {
	engine *gin.Engine
	now    time.Time
}

func newTestServer(t *testing.T, limiter middleware.Limiter) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logrus.New()
	log.SetOutput(io.Discard)

	srv := &testServer{now: time.Now()}
	tokens := token.NewService("router-secret", 10*time.Minute).WithClock(func() time.Time { return srv.now })

	srv.engine = New(Dependencies{
		Config: &config.Config{
			MemberLookupConcurrency: 4,
			RequestTimeout:          5 * time.Second,
		},
		Logger:  log,
		Store:   repository.NewGormStore(testutil.NewTestDB(t)),
		Tokens:  tokens,
		Metrics: observability.NewMetrics(),
		Health:  observability.NewHealthChecker(time.Second),
		Limiter: limiter,
	})
	return srv
}

func (s *testServer) call(t *testing.T, method, path, bearer string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	return w
}

func (s *testServer) signup(t *testing.T, email, username, password string) string {
	t.Helper()

	w := s.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "username": username, "password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = s.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)
	return login.Token
}

func TestRegisterAndLoginScenario(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "username": "alice", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = srv.call(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "a@x.com", "username": "alice2", "password": "pw2",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"CONFLICT"`)

	w = srv.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, w.Code)
	var login dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	w = srv.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "a@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = srv.call(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)

	srv.now = srv.now.Add(11 * time.Minute)
	w = srv.call(t, http.MethodGet, "/api/auth/me", login.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPersonalTaskStatusScenario(t *testing.T) {
	srv := newTestServer(t, nil)
	tokenA := srv.signup(t, "a@x.com", "alice", "pw1")
	tokenB := srv.signup(t, "b@x.com", "bob", "pw2")

	w := srv.call(t, http.MethodPost, "/api/tasks/personal/create", tokenA, map[string]string{"name": "T"})
	require.Equal(t, http.StatusCreated, w.Code)
	var created dto.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = srv.call(t, http.MethodPut, "/api/tasks/status/"+created.ID, tokenB, map[string]string{"status": "done"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = srv.call(t, http.MethodPut, "/api/tasks/status/"+created.ID, tokenA, map[string]string{"status": "done"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.call(t, http.MethodGet, "/api/tasks/personal/list", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []dto.TaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "done", tasks[0].Status)
}

func TestTeamAndGroupTaskFlow(t *testing.T) {
	srv := newTestServer(t, nil)
	tokenA := srv.signup(t, "a@x.com", "alice", "pw1")
	tokenB := srv.signup(t, "b@x.com", "bob", "pw2")

	w := srv.call(t, http.MethodGet, "/api/teams/users/search?q=bo", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hits []dto.MemberDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &hits))
	require.Len(t, hits, 1)
	bobID := hits[0].ID

	w = srv.call(t, http.MethodPost, "/api/teams/create", tokenA, map[string]any{
		"name": "Core", "description": "core team", "members": []string{bobID},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var team dto.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &team))

	w = srv.call(t, http.MethodGet, "/api/teams/list", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var teams []dto.TeamDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &teams))
	require.Len(t, teams, 1)
	assert.Len(t, teams[0].Members, 2)

	w = srv.call(t, http.MethodPost, "/api/tasks/group/create", tokenA, map[string]any{
		"name": "Ship it", "group_id": team.ID, "assigned_user_id": bobID, "status": "pending",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var task dto.CreatedResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	w = srv.call(t, http.MethodGet, "/api/tasks/list/"+team.ID, tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var groupTasks []dto.GroupTaskDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &groupTasks))
	require.Len(t, groupTasks, 1)
	require.NotNil(t, groupTasks[0].AssignedUsername)
	assert.Equal(t, "bob", *groupTasks[0].AssignedUsername)

	// bob may move the status but not edit or delete
	assert.Equal(t, http.StatusOK, srv.call(t, http.MethodPut, "/api/tasks/status/"+task.ID, tokenB, map[string]string{"status": "doing"}).Code)
	assert.Equal(t, http.StatusForbidden, srv.call(t, http.MethodPut, "/api/tasks/actualizar/"+task.ID, tokenB, map[string]string{"name": "x"}).Code)
	assert.Equal(t, http.StatusForbidden, srv.call(t, http.MethodDelete, "/api/tasks/eliminar/"+task.ID, tokenB, nil).Code)
	assert.Equal(t, http.StatusOK, srv.call(t, http.MethodDelete, "/api/tasks/eliminar/"+task.ID, tokenA, nil).Code)

	assert.Equal(t, http.StatusForbidden, srv.call(t, http.MethodDelete, "/api/teams/"+team.ID, tokenB, nil).Code)
	assert.Equal(t, http.StatusOK, srv.call(t, http.MethodDelete, "/api/teams/"+team.ID, tokenA, nil).Code)
}

func TestDeleteOwnAccountScenario(t *testing.T) {
	srv := newTestServer(t, nil)
	tokenA := srv.signup(t, "a@x.com", "alice", "pw1")

	w := srv.call(t, http.MethodGet, "/api/auth/me", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))

	w = srv.call(t, http.MethodDelete, "/api/users/delete/"+me.ID, tokenA, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"INVALID_INPUT"`)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	srv := newTestServer(t, nil)

	for _, path := range []string{"/api/tasks/list", "/api/teams/list", "/api/users", "/api/auth/me"} {
		w := srv.call(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	}
}

func TestAuthRoutesAreRateLimited(t *testing.T) {
	srv := newTestServer(t, middleware.NewMemoryLimiter(2, time.Minute))

	for i := 0; i < 2; i++ {
		w := srv.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@x.com", "password": "p"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}

	w := srv.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@x.com", "password": "p"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// logout is not throttled
	assert.Equal(t, http.StatusOK, srv.call(t, http.MethodPost, "/api/auth/logout", "", nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newTestServer(t, nil)

	w := srv.call(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	srv.call(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "x@x.com", "password": "p"})

	w = srv.call(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "teamtask_http_requests_total")
	assert.Contains(t, w.Body.String(), `teamtask_auth_events_total{event="login",outcome="failure"} 1`)
}
