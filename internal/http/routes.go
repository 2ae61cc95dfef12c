package http

import (
	"time"

	"github.com/labstack/echo/v4"

	"task-assignment.com/task-assignment/internal/auth"
	middleware "task-assignment.com/task-assignment/internal/http/middlewares"
)

func Register(
	e *echo.Echo,
	h *Handler,
	issuer *auth.TokenIssuer,
	revoker auth.Revoker,
	users middleware.UserLookup,
	rateLimitPerMinute int,
) {
	e.HTTPErrorHandler = ErrorHandler(e)
	e.Use(middleware.RateLimiter(rateLimitPerMinute, time.Minute))

	e.POST("/login", h.Login)

	authed := middleware.Authenticate(issuer, revoker, users)
	e.POST("/logout", h.Logout, authed)
	e.POST("/password", h.ChangePassword, authed)
	e.GET("/dashboard", h.Dashboard, authed)
	e.GET("/profile", h.Profile, authed)
	e.GET("/tasks", h.ListTasks, authed)
	e.GET("/edits", h.ListEditRequests, authed)
	e.POST("/tasks/:code/submit", h.SubmitTask, authed)
	e.POST("/edits/:code/submit", h.SubmitEdit, authed)
	e.GET("/api/tasks/:code", h.TaskDetail, authed)
	e.GET("/download/:file_type/:filename", h.Download, authed)

	admin := e.Group("/admin", authed, middleware.RequireAdmin)
	admin.GET("/users", h.ListUsers)
	admin.POST("/users", h.AddUser)
	admin.POST("/users/:id/reset-password", h.ResetPassword)
	admin.DELETE("/users/:id", h.DeleteUser)
	admin.POST("/tasks", h.CreateTask)
	admin.POST("/tasks/:code/edits", h.RequestEdit)
}
