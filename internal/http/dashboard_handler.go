package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-assignment.com/task-assignment/internal/data_models"
	middleware "task-assignment.com/task-assignment/internal/http/middlewares"
	"task-assignment.com/task-assignment/internal/reporting"
	"task-assignment.com/task-assignment/internal/services"
)

func (h *Handler) Dashboard(c echo.Context) error {
	var q dto.DashboardQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}

	actor := middleware.CurrentUser(c)
	dash, err := h.dashboards.Build(c.Request().Context(), services.ScopeFor(actor), reporting.Request{
		Period:    q.TimePeriod,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.NewDashboardResponse(dash, actor.IsAdmin()))
}

func (h *Handler) Profile(c echo.Context) error {
	profile, err := h.users.Profile(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, profile)
}
