package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"task-assignment.com/task-assignment/internal/auth"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	"task-assignment.com/task-assignment/internal/services"
)

type Handler struct {
	tasks          *services.TaskService
	dashboards     *services.DashboardService
	users          *services.UserService
	issuer         *auth.TokenIssuer
	revoker        auth.Revoker
	maxUploadBytes int64
}

func NewHandler(
	tasks *services.TaskService,
	dashboards *services.DashboardService,
	users *services.UserService,
	issuer *auth.TokenIssuer,
	revoker auth.Revoker,
	maxUploadBytes int64,
) *Handler {
	return &Handler{
		tasks:          tasks,
		dashboards:     dashboards,
		users:          users,
		issuer:         issuer,
		revoker:        revoker,
		maxUploadBytes: maxUploadBytes,
	}
}

// ErrorHandler renders service errors with the status their kind maps to.
// Anything unexpected is logged and reported as a bare internal error.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		status := apperrors.StatusCode(err)
		if status >= http.StatusInternalServerError {
			logging.Logger.WithError(err).WithField("path", c.Path()).Error("request failed")
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"message": apperrors.Message(err)})
	}
}

// readUploads collects the files posted under field. A request that is not
// multipart carries no files.
func (h *Handler) readUploads(c echo.Context, field string) ([]services.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}

	headers := form.File[field]
	uploads := make([]services.Upload, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > h.maxUploadBytes {
			return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s is too large", fh.Filename))
		}
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		data, err := io.ReadAll(io.LimitReader(f, h.maxUploadBytes))
		_ = f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, services.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}
