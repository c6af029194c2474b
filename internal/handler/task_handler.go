package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mrjaiswar/task-app/internal/auth"
	apperrors "github.com/mrjaiswar/task-app/internal/errors"
	"github.com/mrjaiswar/task-app/internal/repository"
	"github.com/mrjaiswar/task-app/internal/service"
)

// TaskHandler handles task endpoints. The owner for every operation is the
// authenticated user from the request context, never request data.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new task handler.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// Create godoc
// @Summary Create a task
// @Description Creates a task owned by the caller. A client-supplied owner field is ignored.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.TaskCreate true "Task fields"
// @Success 201 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	var req service.TaskCreate
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	task, err := h.taskService.Create(c.Request().Context(), auth.CurrentUser(c).ID, req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, task)
}

// List godoc
// @Summary List the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param completed query bool false "Filter by completion state"
// @Param sortBy query string false "Sort as field:asc or field:desc"
// @Param limit query int false "Page size"
// @Param skip query int false "Page offset"
// @Success 200 {array} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	opts, err := parseListOptions(c)
	if err != nil {
		return httpError(err)
	}

	tasks, err := h.taskService.List(c.Request().Context(), auth.CurrentUser(c).ID, opts)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get godoc
// @Summary Get one of the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	task, err := h.taskService.GetByID(c.Request().Context(), auth.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Update godoc
// @Summary Update one of the caller's tasks
// @Description Partial update over description and completed. Any other field rejects the whole request.
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Param request body service.TaskUpdate true "Fields to update"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *TaskHandler) Update(c echo.Context) error {
	var update service.TaskUpdate
	if err := bindStrict(c, &update); err != nil {
		return httpError(err)
	}

	task, err := h.taskService.Update(c.Request().Context(), auth.CurrentUser(c).ID, c.Param("id"), update)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

// Delete godoc
// @Summary Delete one of the caller's tasks
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Task ID"
// @Success 200 {object} model.Task
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c echo.Context) error {
	task, err := h.taskService.Delete(c.Request().Context(), auth.CurrentUser(c).ID, c.Param("id"))
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, task)
}

func parseListOptions(c echo.Context) (repository.ListOptions, error) {
	var opts repository.ListOptions

	if raw := c.QueryParam("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			return opts, fmt.Errorf("%w: completed must be true or false", apperrors.ErrValidation)
		}
		opts.Completed = &completed
	}

	if raw := c.QueryParam("sortBy"); raw != "" {
		field, direction, _ := strings.Cut(raw, ":")
		opts.SortField = field
		opts.SortDesc = direction == "desc"
	}

	if raw := c.QueryParam("limit"); raw != "" {
		limit, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || limit < 0 {
			return opts, fmt.Errorf("%w: limit must be a non-negative integer", apperrors.ErrValidation)
		}
		opts.Limit = limit
	}

	if raw := c.QueryParam("skip"); raw != "" {
		skip, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || skip < 0 {
			return opts, fmt.Errorf("%w: skip must be a non-negative integer", apperrors.ErrValidation)
		}
		opts.Skip = skip
	}

	return opts, nil
}
