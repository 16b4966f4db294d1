package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/opencampus/timetable-api/internal/dto"
	appErrors "github.com/opencampus/timetable-api/pkg/errors"
)

type schedulerRunnerMock struct {
	captured    dto.RunScheduleRequest
	runResult   *dto.ScheduleRunResponse
	runErr      error
	latestErr   error
	clearedTerm string
	exportBody  []byte
	exportType  string
}

func (m *schedulerRunnerMock) Run(ctx context.Context, req dto.RunScheduleRequest) (*dto.ScheduleRunResponse, error) {
	m.captured = req
	if m.runErr != nil {
		return nil, m.runErr
	}
	if m.runResult != nil {
		return m.runResult, nil
	}
	return &dto.ScheduleRunResponse{RunID: "run-1", TermID: req.TermID, Success: true}, nil
}

func (m *schedulerRunnerMock) EnqueueRun(ctx context.Context, req dto.RunScheduleRequest) (*dto.EnqueueRunResponse, error) {
	m.captured = req
	return &dto.EnqueueRunResponse{RunID: "run-1", TermID: req.TermID, Status: "queued"}, nil
}

func (m *schedulerRunnerMock) LatestRun(ctx context.Context, termID string) (*dto.ScheduleRunResponse, error) {
	if m.latestErr != nil {
		return nil, m.latestErr
	}
	return &dto.ScheduleRunResponse{RunID: "run-1", TermID: termID}, nil
}

func (m *schedulerRunnerMock) ClearTerm(ctx context.Context, termID string) error {
	m.clearedTerm = termID
	return nil
}

func (m *schedulerRunnerMock) ExportTimetable(ctx context.Context, termID, format string) ([]byte, string, error) {
	return m.exportBody, m.exportType, nil
}

func TestSchedulerHandlerRunSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerRunnerMock{}
	handler := &SchedulerHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/runs", bytes.NewReader([]byte(`{"termId":"term-1","commit":true}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Run(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "term-1", mockSvc.captured.TermID)
	require.True(t, mockSvc.captured.Commit)
}

func TestSchedulerHandlerRunInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &SchedulerHandler{service: &schedulerRunnerMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/runs", bytes.NewReader([]byte(`{"termId":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Run(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSchedulerHandlerRunPreconditionFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerRunnerMock{runErr: appErrors.ErrNoSections}
	handler := &SchedulerHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/runs", bytes.NewReader([]byte(`{"termId":"term-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Run(c)

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestSchedulerHandlerRunAsyncAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerRunnerMock{}
	handler := &SchedulerHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodPost, "/schedule/runs/async", bytes.NewReader([]byte(`{"termId":"term-1"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.RunAsync(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	require.Equal(t, "term-1", mockSvc.captured.TermID)
}

func TestSchedulerHandlerLatestRunNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerRunnerMock{latestErr: appErrors.Clone(appErrors.ErrNotFound, "no run result available for this term")}
	handler := &SchedulerHandler{service: mockSvc}

	router := gin.New()
	router.GET("/schedule/runs/:term", handler.LatestRun)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedule/runs/term-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSchedulerHandlerClearTerm(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerRunnerMock{}
	handler := &SchedulerHandler{service: mockSvc}

	router := gin.New()
	router.DELETE("/schedule/runs/:term", handler.Clear)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/schedule/runs/term-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "term-1", mockSvc.clearedTerm)
}

func TestSchedulerHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &schedulerRunnerMock{exportBody: []byte("Section,Classroom\n"), exportType: "text/csv"}
	handler := &SchedulerHandler{service: mockSvc}

	router := gin.New()
	router.GET("/schedule/runs/:term/export", handler.Export)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedule/runs/term-1/export", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "timetable-term-1.csv")
}

func TestSchedulerHandlerExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &SchedulerHandler{service: &schedulerRunnerMock{}}

	router := gin.New()
	router.GET("/schedule/runs/:term/export", handler.Export)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/schedule/runs/term-1/export?format=xlsx", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
