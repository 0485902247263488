package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/daybook/core/internal/adapters/filestore"
	"github.com/daybook/core/internal/application/exchange"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

type testValidator struct {
	validate *validator.Validate
}

func (v *testValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newTestBridge(t *testing.T) (*echo.Echo, ports.Backend) {
	t.Helper()

	backend, err := filestore.New(filepath.Join(t.TempDir(), "daybook.json"), logger.NewNop())
	require.NoError(t, err)

	e := echo.New()
	e.Validator = &testValidator{validate: validator.New()}

	app := config.AppConfig{Name: "Daybook", Version: "1.0.0"}
	ex := exchange.NewService(backend, logger.NewNop())
	NewBridgeHandler(backend.Tasks(), ex, app, logger.NewNop()).Register(e.Group("/bridge"))

	return e, backend
}

func invoke(t *testing.T, e *echo.Echo, op, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/bridge/"+op, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestBridgeGetAllTasksEmpty(t *testing.T) {
	e, _ := newTestBridge(t)

	rec := invoke(t, e, "get-all-tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, "[]", rec.Body.String())
}

func TestBridgeAddTask(t *testing.T) {
	e, backend := newTestBridge(t)

	rec := invoke(t, e, "add-task", `{"title":"Ship it","priority":"high"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var task entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	require.NotEmpty(t, task.ID)
	require.Equal(t, "Ship it", task.Title)
	require.Equal(t, entities.PriorityHigh, task.Priority)

	require.Len(t, backend.Tasks().GetAll(context.Background()), 1)
}

func TestBridgeAddTaskRejectsMissingTitle(t *testing.T) {
	e, _ := newTestBridge(t)

	rec := invoke(t, e, "add-task", `{"priority":"low"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBridgeUpdateTask(t *testing.T) {
	e, backend := newTestBridge(t)

	task, err := backend.Tasks().Add(context.Background(), entities.TaskFormData{Title: "Before"})
	require.NoError(t, err)

	rec := invoke(t, e, "update-task", `{"id":"`+task.ID+`","patch":{"title":"After","completed":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var updated entities.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, "After", updated.Title)
	require.True(t, updated.Completed)
}

func TestBridgeUpdateUnknownTaskAnswersNull(t *testing.T) {
	e, _ := newTestBridge(t)

	rec := invoke(t, e, "update-task", `{"id":"missing","patch":{"completed":true}}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestBridgeDeleteTask(t *testing.T) {
	e, backend := newTestBridge(t)

	task, err := backend.Tasks().Add(context.Background(), entities.TaskFormData{Title: "Doomed"})
	require.NoError(t, err)

	rec := invoke(t, e, "delete-task", `{"id":"`+task.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))

	rec = invoke(t, e, "delete-task", `{"id":"`+task.ID+`"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "false", strings.TrimSpace(rec.Body.String()))
}

func TestBridgeSaveAllAndClear(t *testing.T) {
	e, backend := newTestBridge(t)

	rec := invoke(t, e, "save-all-tasks", `[{"id":"t1","title":"one","createdAt":"2025-06-01T00:00:00Z","updatedAt":"2025-06-01T00:00:00Z"}]`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
	require.Len(t, backend.Tasks().GetAll(context.Background()), 1)

	rec = invoke(t, e, "clear-tasks", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "true", strings.TrimSpace(rec.Body.String()))
	require.Empty(t, backend.Tasks().GetAll(context.Background()))
}

func TestBridgeAppInfo(t *testing.T) {
	e, _ := newTestBridge(t)

	rec := invoke(t, e, "get-app-version", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"version":"1.0.0"}`, rec.Body.String())

	rec = invoke(t, e, "get-platform", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var platform map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &platform))
	require.NotEmpty(t, platform["platform"])
}

func TestBridgeExportImportRoundTrip(t *testing.T) {
	e, backend := newTestBridge(t)

	_, err := backend.Tasks().Add(context.Background(), entities.TaskFormData{Title: "Export me"})
	require.NoError(t, err)

	rec := invoke(t, e, "export-data", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc exchange.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Tasks, 1)
	require.NotNil(t, doc.Settings)

	// Importing the same export back merges a second copy.
	rec = invoke(t, e, "import-data", rec.Body.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var summary exchange.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	require.Equal(t, 1, summary.Tasks.Imported)
	require.True(t, summary.Tasks.Saved)

	require.Len(t, backend.Tasks().GetAll(context.Background()), 2)
}

func TestBridgeShowNotification(t *testing.T) {
	e, _ := newTestBridge(t)

	rec := invoke(t, e, "show-notification", `{"title":"Reminder","body":"Stand up"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())

	rec = invoke(t, e, "show-notification", `{}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
