package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/focusplan/internal/constants"
	"github.com/julianstephens/focusplan/internal/models"
	"github.com/julianstephens/focusplan/internal/planner"
	"github.com/julianstephens/focusplan/internal/scheduler"
	"github.com/julianstephens/focusplan/internal/storage"
	"github.com/julianstephens/focusplan/internal/storage/sqlite"
)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *sqlite.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := sqlite.NewStore(filepath.Join(t.TempDir(), "focusplan.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SetSetting(constants.SettingTimezone, "UTC"))

	n := 0
	sched := scheduler.New(
		scheduler.WithClock(func() time.Time { return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC) }),
		scheduler.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		}),
	)
	svc := planner.New(store, sched, planner.WithLookup(func(string) (string, bool) { return "", false }))

	h := NewHandler(store, svc)
	ids := 0
	h.newID = func() string {
		ids++
		return fmt.Sprintf("obj-%d", ids)
	}
	return &testServer{t: t, router: NewRouter(RouterConfig{Handler: h}), store: store}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func requireError(t *testing.T, rec *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	require.Equal(t, status, rec.Code, rec.Body.String())
	env := decode[ErrorEnvelope](t, rec)
	require.Equal(t, code, env.Error.Code)
	require.NotEmpty(t, env.Error.Message)
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthcheck", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", rec.Body.String())
}

func TestCategoriesAndAppointments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/categories", map[string]interface{}{"name": "Math", "color": "#ff0000", "preferred_start_hour": 9})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	cat := decode[models.Category](t, rec)
	require.Equal(t, "Math", cat.Name)

	requireError(t, s.do(http.MethodPost, "/categories", map[string]interface{}{"color": "#fff"}), http.StatusBadRequest, "bad_request")
	requireError(t, s.do(http.MethodPost, "/categories", map[string]interface{}{"name": "Late", "preferred_end_hour": 30}), http.StatusBadRequest, "bad_request")

	cats := decode[[]models.Category](t, s.do(http.MethodGet, "/categories", nil))
	require.Len(t, cats, 1)

	lecture := map[string]interface{}{
		"title":       "Lecture",
		"category_id": cat.ID,
		"start_time":  "2025-03-10T09:00:00Z",
		"end_time":    "2025-03-10T10:30:00Z",
	}
	rec = s.do(http.MethodPost, "/appointments", lecture)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[models.Appointment](t, rec)

	unknownCat := map[string]interface{}{
		"title":       "Lab",
		"category_id": "missing",
		"start_time":  "2025-03-11T09:00:00Z",
		"end_time":    "2025-03-11T10:00:00Z",
	}
	requireError(t, s.do(http.MethodPost, "/appointments", unknownCat), http.StatusNotFound, "not_found")

	backwards := map[string]interface{}{
		"title":      "Lab",
		"start_time": "2025-03-11T10:00:00Z",
		"end_time":   "2025-03-11T09:00:00Z",
	}
	requireError(t, s.do(http.MethodPost, "/appointments", backwards), http.StatusBadRequest, "invalid_input")

	lecture["title"] = "Moved lecture"
	lecture["end_time"] = "2025-03-10T11:00:00Z"
	rec = s.do(http.MethodPut, "/appointments/"+appt.ID, lecture)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requireError(t, s.do(http.MethodPut, "/appointments/nope", lecture), http.StatusNotFound, "not_found")

	appts := decode[[]models.Appointment](t, s.do(http.MethodGet, "/appointments", nil))
	require.Len(t, appts, 1)
	require.Equal(t, "Moved lecture", appts[0].Title)
	require.True(t, appts[0].End.Equal(time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)))

	require.Equal(t, http.StatusNoContent, s.do(http.MethodDelete, "/appointments/"+appt.ID, nil).Code)
	requireError(t, s.do(http.MethodDelete, "/appointments/"+appt.ID, nil), http.StatusNotFound, "not_found")
}

func TestPlanAndComplete(t *testing.T) {
	s := newTestServer(t)

	body := map[string]interface{}{
		"title":                      "Essay",
		"estimated_difficulty":       3,
		"estimated_duration_minutes": 100,
		"due_date":                   "2025-03-14",
		"priority":                   2,
		"transition_buffer_minutes":  5,
	}

	rec := s.do(http.MethodPost, "/tasks/plan?dry_run=true", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Empty(t, decode[[]models.Task](t, s.do(http.MethodGet, "/tasks", nil)))

	rec = s.do(http.MethodPost, "/tasks/plan", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	plan := decode[models.PlanResult](t, rec)
	require.Len(t, plan.Sessions, 4)
	require.Len(t, plan.Subtasks, 4)
	require.Equal(t, "2025-03-14", plan.Task.DueDate)

	detail := decode[TaskDetail](t, s.do(http.MethodGet, "/tasks/"+plan.Task.ID, nil))
	require.Equal(t, plan.Task.ID, detail.Task.ID)
	require.Len(t, detail.FocusSessions, 4)
	require.Len(t, detail.Subtasks, 4)

	rec = s.do(http.MethodPost, "/subtasks/"+detail.Subtasks[0].ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, 25, decode[models.Task](t, rec).CompletionPercent)

	rec = s.do(http.MethodPost, "/focus-sessions/"+detail.FocusSessions[0].ID+"/complete", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	requireError(t, s.do(http.MethodPost, "/focus-sessions/nope/complete", nil), http.StatusNotFound, "not_found")
	requireError(t, s.do(http.MethodPost, "/subtasks/nope/complete", nil), http.StatusNotFound, "not_found")

	stats := decode[storage.Stats](t, s.do(http.MethodGet, "/stats", nil))
	require.Equal(t, storage.Stats{Tasks: 1, FocusSessions: 4, CompletedSessions: 1}, stats)
}

func TestPlanErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   map[string]interface{}
		status int
		code   string
	}{
		{
			name:   "bad due date",
			body:   map[string]interface{}{"title": "Essay", "estimated_difficulty": 3, "estimated_duration_minutes": 50, "due_date": "Friday"},
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "missing due date",
			body:   map[string]interface{}{"title": "Essay", "estimated_difficulty": 3, "estimated_duration_minutes": 50},
			status: http.StatusBadRequest,
			code:   "bad_request",
		},
		{
			name:   "difficulty out of range",
			body:   map[string]interface{}{"title": "Essay", "estimated_difficulty": 9, "estimated_duration_minutes": 50, "due_date": "2025-03-14"},
			status: http.StatusBadRequest,
			code:   "invalid_input",
		},
		{
			name:   "unknown category",
			body:   map[string]interface{}{"title": "Essay", "estimated_difficulty": 3, "estimated_duration_minutes": 50, "due_date": "2025-03-14", "category_id": "missing"},
			status: http.StatusNotFound,
			code:   "not_found",
		},
		{
			name:   "already overdue",
			body:   map[string]interface{}{"title": "Essay", "estimated_difficulty": 3, "estimated_duration_minutes": 50, "due_date": "2025-03-01"},
			status: http.StatusUnprocessableEntity,
			code:   "infeasible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			requireError(t, s.do(http.MethodPost, "/tasks/plan", tt.body), tt.status, tt.code)
		})
	}

	s := newTestServer(t)
	requireError(t, s.do(http.MethodGet, "/tasks/missing", nil), http.StatusNotFound, "not_found")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/tasks/plan", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}
