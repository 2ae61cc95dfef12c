package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	dto "task-assignment.com/task-assignment/internal/data_models"
	middleware "task-assignment.com/task-assignment/internal/http/middlewares"
	"task-assignment.com/task-assignment/internal/http/validators"
	"task-assignment.com/task-assignment/internal/logging"
)

func (h *Handler) Login(c echo.Context) error {
	var req dto.LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}
	if err := validators.ValidateLoginRequest(&req); err != nil {
		return err
	}

	user, err := h.users.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		logging.Logger.WithField("email", req.Email).Info("login rejected")
		return err
	}

	token, claims, err := h.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return err
	}

	logging.Logger.WithFields(logrus.Fields{"user": user.ID, "token": claims.ID}).Info("login")
	return c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	})
}

func (h *Handler) Logout(c echo.Context) error {
	claims := middleware.CurrentClaims(c)
	if err := h.revoker.Revoke(c.Request().Context(), claims.ID, claims.ExpiresAt.Time); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "You have been logged out successfully."})
}

func (h *Handler) ChangePassword(c echo.Context) error {
	var req dto.ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request payload")
	}

	err := h.users.ChangePassword(
		c.Request().Context(),
		middleware.CurrentUser(c),
		req.CurrentPassword,
		req.NewPassword,
		req.ConfirmPassword,
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "Password changed successfully!"})
}
