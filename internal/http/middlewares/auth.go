package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"task-assignment.com/task-assignment/internal/auth"
	apperrors "task-assignment.com/task-assignment/internal/errors"
	"task-assignment.com/task-assignment/internal/logging"
	model "task-assignment.com/task-assignment/internal/models"
)

const (
	userKey   = "auth.user"
	claimsKey = "auth.claims"
)

type UserLookup interface {
	FindByID(ctx context.Context, id uint) (*model.User, error)
}

// Authenticate requires a valid, unrevoked bearer token and loads the user it
// was issued to.
func Authenticate(issuer *auth.TokenIssuer, revoker auth.Revoker, users UserLookup) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := issuer.Parse(strings.TrimSpace(token))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}

			ctx := c.Request().Context()
			revoked, err := revoker.IsRevoked(ctx, claims.ID)
			if err != nil {
				logging.Logger.WithError(err).Error("token revocation check failed")
				return echo.NewHTTPError(http.StatusServiceUnavailable, "authentication unavailable")
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, "token has been revoked")
			}

			userID, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
			}
			user, err := users.FindByID(ctx, userID)
			if errors.Is(err, apperrors.ErrUserNotFound) {
				return echo.NewHTTPError(http.StatusUnauthorized, "account no longer exists")
			}
			if err != nil {
				return err
			}

			c.Set(userKey, user)
			c.Set(claimsKey, claims)
			return next(c)
		}
	}
}

func RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user := CurrentUser(c)
		if user == nil || !user.IsAdmin() {
			return apperrors.ErrAdminRequired
		}
		return next(c)
	}
}

func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userKey).(*model.User)
	return user
}

func CurrentClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(claimsKey).(*auth.Claims)
	return claims
}
