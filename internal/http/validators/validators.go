package validators

import (
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	dto "task-assignment.com/task-assignment/internal/data_models"
)

func ValidateLoginRequest(r *dto.LoginRequest) error {
	if strings.TrimSpace(r.Email) == "" || r.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "email and password are required")
	}
	return nil
}

func ValidateCreateUserRequest(r *dto.CreateUserRequest) error {
	if strings.TrimSpace(r.Name) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(r.Email)); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "a valid email is required")
	}
	if r.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "password is required")
	}
	return nil
}

func ValidateCreateTaskRequest(r *dto.CreateTaskRequest) (uint, error) {
	id, err := ParseID(r.UserID)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "user_id must be a positive integer")
	}
	return id, nil
}

// ParseID parses a positive numeric identifier.
func ParseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// ParseOptionalID is ParseID for filters, where an empty value means no
// filter and "all" is accepted as a synonym for empty.
func ParseOptionalID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "all" {
		return nil, nil
	}
	id, err := ParseID(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "user_id must be a positive integer")
	}
	return &id, nil
}
