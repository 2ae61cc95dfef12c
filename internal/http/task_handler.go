package http

import (
	"fmt"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"

	dto "task-assignment.com/task-assignment/internal/data_models"
	middleware "task-assignment.com/task-assignment/internal/http/middlewares"
	"task-assignment.com/task-assignment/internal/http/validators"
	"task-assignment.com/task-assignment/internal/services"
)

func (h *Handler) ListTasks(c echo.Context) error {
	var q dto.TaskListQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	userID, err := validators.ParseOptionalID(q.UserID)
	if err != nil {
		return err
	}

	tasks, err := h.tasks.ListTasks(c.Request().Context(), middleware.CurrentUser(c), services.TaskFilter{
		Code:      q.TaskID,
		UserID:    userID,
		Status:    q.Status,
		Period:    q.TimePeriod,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.TaskListResponse{
		Count: len(tasks),
		Tasks: dto.NewTaskSummaries(tasks),
	})
}

func (h *Handler) ListEditRequests(c echo.Context) error {
	tasks, err := h.tasks.ListEditRequests(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.TaskListResponse{
		Count: len(tasks),
		Tasks: dto.NewTaskSummaries(tasks),
	})
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	userID, err := validators.ValidateCreateTaskRequest(&req)
	if err != nil {
		return err
	}
	uploads, err := h.readUploads(c, "files")
	if err != nil {
		return err
	}

	task, err := h.tasks.CreateTask(c.Request().Context(), middleware.CurrentUser(c), services.CreateTaskInput{
		UserID:      userID,
		Description: req.Description,
		Deadline:    req.Deadline,
		Price:       req.Price,
		Files:       uploads,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.NewTaskSummary(*task))
}

func (h *Handler) SubmitTask(c echo.Context) error {
	uploads, err := h.readUploads(c, "files")
	if err != nil {
		return err
	}

	task, err := h.tasks.SubmitTask(c.Request().Context(), middleware.CurrentUser(c), c.Param("code"), uploads)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewTaskSummary(*task))
}

func (h *Handler) RequestEdit(c echo.Context) error {
	var req dto.RequestEditRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form payload")
	}
	uploads, err := h.readUploads(c, "files")
	if err != nil {
		return err
	}

	edit, err := h.tasks.RequestEdit(
		c.Request().Context(),
		middleware.CurrentUser(c),
		c.Param("code"),
		req.Instructions,
		uploads,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, edit)
}

func (h *Handler) SubmitEdit(c echo.Context) error {
	uploads, err := h.readUploads(c, "files")
	if err != nil {
		return err
	}

	edit, err := h.tasks.SubmitEdit(c.Request().Context(), middleware.CurrentUser(c), c.Param("code"), uploads)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, edit)
}

func (h *Handler) TaskDetail(c echo.Context) error {
	task, err := h.tasks.GetTaskDetail(c.Request().Context(), middleware.CurrentUser(c), c.Param("code"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.NewTaskDetail(task))
}

func (h *Handler) Download(c echo.Context) error {
	download, err := h.tasks.OpenFile(
		c.Request().Context(),
		middleware.CurrentUser(c),
		c.Param("file_type"),
		c.Param("filename"),
	)
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(filepath.Ext(download.Filename))
	if contentType == "" {
		contentType = http.DetectContentType(download.Data)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", download.Filename))
	return c.Blob(http.StatusOK, contentType, download.Data)
}
