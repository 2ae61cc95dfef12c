package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	dto "task-assignment.com/task-assignment/internal/data_models"
	middleware "task-assignment.com/task-assignment/internal/http/middlewares"
	"task-assignment.com/task-assignment/internal/http/validators"
	"task-assignment.com/task-assignment/internal/services"
)

func (h *Handler) ListUsers(c echo.Context) error {
	users, err := h.users.ListUsers(c.Request().Context(), middleware.CurrentUser(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"count": len(users),
		"users": users,
	})
}

func (h *Handler) AddUser(c echo.Context) error {
	var req dto.CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := validators.ValidateCreateUserRequest(&req); err != nil {
		return err
	}

	user, err := h.users.AddUser(c.Request().Context(), middleware.CurrentUser(c), services.NewUserInput{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Mobile,
		Expertise: req.Expertise,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) ResetPassword(c echo.Context) error {
	id, err := validators.ParseID(c.Param("id"))
	if err != nil {
		return err
	}
	var req dto.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}

	if err := h.users.ResetPassword(c.Request().Context(), middleware.CurrentUser(c), id, req.NewPassword, req.ConfirmPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password has been reset."})
}

func (h *Handler) DeleteUser(c echo.Context) error {
	id, err := validators.ParseID(c.Param("id"))
	if err != nil {
		return err
	}
	if err := h.users.DeleteUser(c.Request().Context(), middleware.CurrentUser(c), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
