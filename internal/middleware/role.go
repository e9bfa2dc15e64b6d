package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
)

// RequireLogin redirects anonymous visitors to the login page.  It
// assumes SessionAuth ran earlier in the chain.
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return c.Redirect(http.StatusFound, paths.Login)
			}
			return next(c)
		}
	}
}

// RequireAdmin restricts a route to admins and superusers.  Everyone
// else is bounced to the login page with an unauthorized notice.
func RequireAdmin() echo.MiddlewareFunc {
	return requireRole(func(u *model.User) bool {
		return u.IsSuperuser || u.Role == model.RoleAdmin
	})
}

// RequireChurchMember restricts a route to church-member accounts.
func RequireChurchMember() echo.MiddlewareFunc {
	return requireRole(func(u *model.User) bool {
		return u.Role == model.RoleChurchMember
	})
}

func requireRole(allowed func(*model.User) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			u := CurrentUser(c)
			if u == nil || !allowed(u) {
				AddFlash(c, "error", "You are not authorized to access this page.")
				return c.Redirect(http.StatusFound, paths.Login)
			}
			return next(c)
		}
	}
}
