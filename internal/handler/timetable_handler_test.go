package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deptsched/timetable-api/internal/models"
	"github.com/deptsched/timetable-api/internal/service"
	"github.com/deptsched/timetable-api/internal/timetable"
	"github.com/deptsched/timetable-api/pkg/config"
	appErrors "github.com/deptsched/timetable-api/pkg/errors"
)

type memoryStore struct {
	week    models.WeekSchedule
	flat    []models.ClassRecord
	names   map[string]string
	faculty []models.Faculty
}

func (m *memoryStore) SaveGeneration(ctx context.Context, week models.WeekSchedule, flat []models.ClassRecord, faculty []models.Faculty) error {
	m.week = week
	m.flat = flat
	m.faculty = faculty
	m.names = make(map[string]string, len(faculty))
	for _, member := range faculty {
		m.names[member.ID] = member.Name
	}
	return nil
}

func (m *memoryStore) WeekSchedule(ctx context.Context) (models.WeekSchedule, error) {
	if m.week == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return m.week, nil
}

func (m *memoryStore) FlatRecords(ctx context.Context) ([]models.ClassRecord, error) {
	if m.flat == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return m.flat, nil
}

func (m *memoryStore) FacultyNames(ctx context.Context) (map[string]string, error) {
	if m.names == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return m.names, nil
}

func (m *memoryStore) FacultyList(ctx context.Context) ([]models.Faculty, error) {
	if m.faculty == nil {
		return nil, appErrors.ErrCacheMiss
	}
	return m.faculty, nil
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func newTimetableTestHandler(store *memoryStore) *TimetableHandler {
	defaults := config.GeneratorConfig{
		StartTime:         "09:00",
		EndTime:           "14:15",
		PeriodMinutes:     60,
		BreakMinutes:      15,
		BreakAfterPeriods: 2,
		RoomPolicy:        "dual_pool",
	}
	svc := service.NewTimetableService(timetable.NewEngine(zap.NewNop()), store, nil, defaults, zap.NewNop())
	return NewTimetableHandler(svc)
}

func generatePayload() map[string]interface{} {
	return map[string]interface{}{
		"sections": []string{"A", "B"},
		"faculty": []map[string]interface{}{
			{"id": "fac-001", "name": "Dr. Rao"},
			{"id": "fac-002", "name": "Prof. Iyer"},
		},
		"subjects": []map[string]interface{}{
			{"name": "Programming", "hasLab": true},
			{"name": "DBMS"},
		},
		"theoryRooms": []string{"R101", "R102"},
		"labRooms":    []string{"L201", "L202"},
	}
}

func postJSON(t *testing.T, handler gin.HandlerFunc, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	handler(c)
	return rec
}

func getRequest(handler gin.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	handler(c)
	return rec
}

func TestTimetableHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memoryStore{}
	handler := newTimetableTestHandler(store)

	rec := postJSON(t, handler.Generate, "/timetable/generate", generatePayload())
	assert.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Nil(t, env.Error)

	var res struct {
		Week    models.WeekSchedule `json:"week"`
		RunID   string              `json:"runId"`
		Records []json.RawMessage   `json:"records"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.NotEmpty(t, res.RunID)
	assert.Len(t, res.Week, 5)
	assert.NotEmpty(t, res.Records)
	assert.NotNil(t, store.week)
}

func TestTimetableHandlerGenerateBadJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableTestHandler(&memoryStore{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader([]byte("{not json")))
	c.Request.Header.Set("Content-Type", "application/json")
	handler.Generate(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTimetableHandlerGenerateMissingSubjects(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableTestHandler(&memoryStore{})

	payload := generatePayload()
	delete(payload, "subjects")
	rec := postJSON(t, handler.Generate, "/timetable/generate", payload)

	assert.Equal(t, http.StatusPreconditionFailed, rec.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NotNil(t, env.Error)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, env.Error.Code)
}

func TestTimetableHandlerCurrentNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newTimetableTestHandler(&memoryStore{})

	rec := getRequest(handler.Current, "/timetable")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTimetableHandlerCurrentAfterGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memoryStore{}
	handler := newTimetableTestHandler(store)

	rec := postJSON(t, handler.Generate, "/timetable/generate", generatePayload())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getRequest(handler.Current, "/timetable")
	assert.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var week models.WeekSchedule
	require.NoError(t, json.Unmarshal(env.Data, &week))
	assert.Len(t, week, 5)
}

func TestTimetableHandlerConflictsAndWorkloads(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := &memoryStore{}
	handler := newTimetableTestHandler(store)

	rec := postJSON(t, handler.Generate, "/timetable/generate", generatePayload())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = getRequest(handler.Conflicts, "/timetable/conflicts")
	assert.Equal(t, http.StatusOK, rec.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var conflicts struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &conflicts))
	assert.Zero(t, conflicts.Count)

	rec = getRequest(handler.Workloads, "/timetable/workloads")
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	var rows []struct {
		TeacherID string `json:"teacherId"`
		Hours     int    `json:"hours"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "fac-001", rows[0].TeacherID)
}
