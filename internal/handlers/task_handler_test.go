package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhub/internal/models"
	"taskhub/internal/pdf"
	"taskhub/internal/priority"
	"taskhub/internal/services"
)

type fakeTaskService struct {
	tasks    map[int64]models.Task
	nextID   int64
	schedule priority.ScheduleResult
}

func newFakeTaskService() *fakeTaskService {
	return &fakeTaskService{tasks: map[int64]models.Task{}, nextID: 1}
}

func (s *fakeTaskService) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	if task.Status == "" {
		task.Status = models.StatusPending
	}
	task.ID = s.nextID
	s.nextID++
	s.tasks[task.ID] = *task
	return task, nil
}

func (s *fakeTaskService) GetByID(_ context.Context, id, userID int64) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	cp := t
	return &cp, nil
}

func (s *fakeTaskService) ListByPriority(_ context.Context, userID int64, _, _ int, now time.Time) ([]priority.ScoredTask, error) {
	var all []models.Task
	for _, t := range s.tasks {
		if t.UserID == userID {
			all = append(all, t)
		}
	}
	return priority.SortByScore(all, now), nil
}

func (s *fakeTaskService) Update(_ context.Context, id, userID int64, updateData *models.Task) (*models.Task, error) {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, nil
	}
	updateData.ID = id
	updateData.UserID = userID
	s.tasks[id] = *updateData
	cp := *updateData
	return &cp, nil
}

func (s *fakeTaskService) Delete(_ context.Context, id, userID int64) error {
	t, ok := s.tasks[id]
	if !ok || t.UserID != userID {
		return sql.ErrNoRows
	}
	delete(s.tasks, id)
	return nil
}

func (s *fakeTaskService) Schedule(_ context.Context, _ int64, _, _ time.Time) (priority.ScheduleResult, error) {
	return s.schedule, nil
}

type fakeUserService struct {
	user models.User
}

func (s *fakeUserService) Register(_ context.Context, _ *models.User, _ string) error { return nil }
func (s *fakeUserService) GetByID(_ context.Context, _ int64) (*models.User, error) {
	cp := s.user
	return &cp, nil
}
func (s *fakeUserService) GetByEmail(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}
func (s *fakeUserService) UpdateProfile(_ context.Context, _ *models.User) error { return nil }
func (s *fakeUserService) UpdateTelegramLink(_ context.Context, _, _ int64, _ bool) error {
	return nil
}
func (s *fakeUserService) StoreRefresh(_ context.Context, _ int64, _ string, _ time.Time) error {
	return nil
}
func (s *fakeUserService) RotateRefresh(_ context.Context, _, _ string, _ time.Time) (*models.User, error) {
	return nil, nil
}
func (s *fakeUserService) GetByRefreshToken(_ context.Context, _ string) (*models.User, error) {
	return nil, nil
}

type fakeReportGen struct{}

func (g *fakeReportGen) GenerateSchedule(_ pdf.ScheduleData) ([]byte, error) {
	return []byte("%PDF-1.4 stub"), nil
}

var _ services.TaskService = (*fakeTaskService)(nil)
var _ services.UserService = (*fakeUserService)(nil)

func taskTestRouter(svc *fakeTaskService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	users := &fakeUserService{user: models.User{ID: 1, FullName: "Test User", Priority: 4}}
	h := NewTaskHandler(svc, users, &fakeReportGen{})

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", int64(1)) })
	r.POST("/tasks", h.Create)
	r.GET("/tasks", h.List)
	r.GET("/tasks/schedule", h.Schedule)
	r.GET("/tasks/schedule/pdf", h.SchedulePDF)
	r.GET("/tasks/:id", h.GetByID)
	r.PUT("/tasks/:id", h.Update)
	r.DELETE("/tasks/:id", h.Delete)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestTaskCreateUsesProfileDefaultPriority(t *testing.T) {
	svc := newFakeTaskService()
	r := taskTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "pay rent"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Priority, "profile default applies when priority is unset")
	assert.Equal(t, models.StatusPending, got.Status)
	assert.Equal(t, int64(1), got.UserID)
}

func TestTaskCreateRejectsInvalidStatus(t *testing.T) {
	r := taskTestRouter(newFakeTaskService())

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "x", "status": "paused"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskCreateRejectsBadDueDate(t *testing.T) {
	r := taskTestRouter(newFakeTaskService())

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "x", "due_date": "03/15/2026"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskCreateRejectsOutOfRangePriority(t *testing.T) {
	r := taskTestRouter(newFakeTaskService())

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "x", "priority": 9})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskCreateParsesDueDateAsMidnightUTC(t *testing.T) {
	svc := newFakeTaskService()
	r := taskTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "x", "due_date": "2026-03-15"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var got models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.NotNil(t, got.DueDate)
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), got.DueDate.UTC())
}

func TestTaskGetByIDNotFound(t *testing.T) {
	r := taskTestRouter(newFakeTaskService())

	w := doJSON(t, r, http.MethodGet, "/tasks/123", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTaskUpdatePartialFields(t *testing.T) {
	svc := newFakeTaskService()
	r := taskTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "draft", "priority": 2, "description": "keep me"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPut, "/tasks/1", gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got models.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.Equal(t, "draft", got.Title, "unset fields keep their values")
	assert.Equal(t, "keep me", got.Description)
	assert.Equal(t, 2, got.Priority)
}

func TestTaskDelete(t *testing.T) {
	svc := newFakeTaskService()
	r := taskTestRouter(svc)

	w := doJSON(t, r, http.MethodPost, "/tasks", gin.H{"title": "temp"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/tasks/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/tasks/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestScheduleRequiresWindow(t *testing.T) {
	r := taskTestRouter(newFakeTaskService())

	w := doJSON(t, r, http.MethodGet, "/tasks/schedule", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/tasks/schedule?start_date=2026-03-02", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleReturnsResult(t *testing.T) {
	svc := newFakeTaskService()
	svc.schedule = priority.ScheduleResult{
		Tasks:           []priority.ScheduledTask{},
		TotalDuration:   3,
		UtilizationRate: 0.375,
	}
	r := taskTestRouter(svc)

	w := doJSON(t, r, http.MethodGet, "/tasks/schedule?start_date=2026-03-02&end_date=2026-03-03", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var got priority.ScheduleResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.InDelta(t, 3.0, got.TotalDuration, 1e-9)
	assert.InDelta(t, 0.375, got.UtilizationRate, 1e-9)
}

func TestSchedulePDFDownload(t *testing.T) {
	r := taskTestRouter(newFakeTaskService())

	w := doJSON(t, r, http.MethodGet, "/tasks/schedule/pdf?start_date=2026-03-02&end_date=2026-03-03", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "schedule_2026-03-02.pdf")
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
}
