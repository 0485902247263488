// Package http exposes the shell bridge: the fixed set of operations the
// desktop shell invokes on the core. Each operation is a POST under
// /bridge and mirrors the forgiving storage contract: reads answer with
// plain collections, destructive calls answer with a bare boolean, and
// only add-task reports a real error status.
package http

import (
	"net/http"
	"runtime"

	"github.com/labstack/echo/v4"

	"github.com/daybook/core/internal/application/exchange"
	"github.com/daybook/core/internal/domain/entities"
	"github.com/daybook/core/internal/infrastructure/config"
	"github.com/daybook/core/internal/infrastructure/logger"
	"github.com/daybook/core/internal/ports"
)

// BridgeHandler serves the shell bridge operations.
type BridgeHandler struct {
	tasks    ports.TaskStorage
	exchange *exchange.Service
	app      config.AppConfig
	logger   *logger.Logger
}

// NewBridgeHandler creates a bridge handler over the given storage.
func NewBridgeHandler(tasks ports.TaskStorage, ex *exchange.Service, app config.AppConfig, log *logger.Logger) *BridgeHandler {
	return &BridgeHandler{
		tasks:    tasks,
		exchange: ex,
		app:      app,
		logger:   log.WithComponent("bridge"),
	}
}

// Register mounts every bridge operation under the given group. The list
// is fixed; the bridge exposes nothing else.
func (h *BridgeHandler) Register(g *echo.Group) {
	g.POST("/get-all-tasks", h.GetAllTasks)
	g.POST("/save-all-tasks", h.SaveAllTasks)
	g.POST("/add-task", h.AddTask)
	g.POST("/update-task", h.UpdateTask)
	g.POST("/delete-task", h.DeleteTask)
	g.POST("/clear-tasks", h.ClearTasks)
	g.POST("/get-app-version", h.GetAppVersion)
	g.POST("/get-platform", h.GetPlatform)
	g.POST("/export-data", h.ExportData)
	g.POST("/import-data", h.ImportData)
	g.POST("/show-notification", h.ShowNotification)
}

// GetAllTasks answers with the full task collection. Storage trouble
// surfaces as an empty list, never an error status.
func (h *BridgeHandler) GetAllTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tasks.GetAll(c.Request().Context()))
}

// SaveAllTasks replaces the whole collection and answers true or false.
func (h *BridgeHandler) SaveAllTasks(c echo.Context) error {
	var tasks []entities.Task
	if err := c.Bind(&tasks); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task list")
	}
	if tasks == nil {
		tasks = []entities.Task{}
	}
	return c.JSON(http.StatusOK, h.tasks.SaveAll(c.Request().Context(), tasks))
}

// AddTask creates a task from form data. This is the one operation that
// reports failure as an error status.
func (h *BridgeHandler) AddTask(c echo.Context) error {
	var form entities.TaskFormData
	if err := c.Bind(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid task data")
	}
	if err := c.Validate(&form); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.tasks.Add(c.Request().Context(), form)
	if err != nil {
		h.logger.WithError(err).Errorw("add task failed", "title", form.Title)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not save task")
	}
	return c.JSON(http.StatusOK, task)
}

// UpdateTaskRequest carries a task patch addressed by id.
type UpdateTaskRequest struct {
	ID    string             `json:"id" validate:"required"`
	Patch entities.TaskPatch `json:"patch"`
}

// UpdateTask patches one task. An unknown id answers with a JSON null
// body, the same shape a failed write produces.
func (h *BridgeHandler) UpdateTask(c echo.Context) error {
	var req UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid update request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.tasks.Update(c.Request().Context(), req.ID, req.Patch))
}

// DeleteTaskRequest addresses a task by id.
type DeleteTaskRequest struct {
	ID string `json:"id" validate:"required"`
}

// DeleteTask removes one task and answers true or false.
func (h *BridgeHandler) DeleteTask(c echo.Context) error {
	var req DeleteTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid delete request")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return c.JSON(http.StatusOK, h.tasks.Delete(c.Request().Context(), req.ID))
}

// ClearTasks drops the whole collection and answers true or false.
func (h *BridgeHandler) ClearTasks(c echo.Context) error {
	return c.JSON(http.StatusOK, h.tasks.Clear(c.Request().Context()))
}

// GetAppVersion answers with the configured application version.
func (h *BridgeHandler) GetAppVersion(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"version": h.app.Version})
}

// GetPlatform answers with the host platform identifier.
func (h *BridgeHandler) GetPlatform(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"platform": runtime.GOOS})
}

// ExportData answers with a full interchange document.
func (h *BridgeHandler) ExportData(c echo.Context) error {
	return c.JSON(http.StatusOK, h.exchange.Export(c.Request().Context()))
}

// ImportData merges an interchange document and answers with the
// per-collection summary.
func (h *BridgeHandler) ImportData(c echo.Context) error {
	var doc exchange.Document
	if err := c.Bind(&doc); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid import document")
	}
	return c.JSON(http.StatusOK, h.exchange.Import(c.Request().Context(), doc))
}

// NotificationRequest carries the title and body of a notification.
type NotificationRequest struct {
	Title string `json:"title" validate:"required"`
	Body  string `json:"body"`
}

// ShowNotification records a notification request. The core has no
// display surface; the shell reads the log or handles delivery itself.
func (h *BridgeHandler) ShowNotification(c echo.Context) error {
	var req NotificationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid notification")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.logger.Infow("notification requested", "title", req.Title, "body", req.Body)
	return c.JSON(http.StatusOK, map[string]bool{"ok": true})
}
