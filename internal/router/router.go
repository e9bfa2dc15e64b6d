package router // router defines how HTTP routes are registered for the application

import (
	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/handler"
	"github.com/mwakyusa/parish-management/internal/paths"
)

// RegisterRoutes registers routes that carry no session requirement on
// the provided Echo instance: the health check and the static and
// media file trees.
func RegisterRoutes(e *echo.Echo, h *handler.HealthHandler, staticDir, mediaDir string) {
	// Load balancers and monitoring probe this endpoint to verify the
	// service is up and can reach its database.
	e.GET("/healthz", h.Healthz)

	// Stylesheets and uploaded profile pictures are served straight from
	// disk.  Both prefixes are excluded from last-path tracking.
	e.Static(paths.StaticPrefix, staticDir)
	e.Static(paths.MediaPrefix, mediaDir)
}

// RegisterAuth registers the account entry points: login at both the
// site root and its canonical path, logout, and the two-step signup
// and password-reset flows.  None of these routes require a session;
// logout tolerates anonymous visitors by simply redirecting.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, req *handler.AccountRequestHandler, rst *handler.PasswordResetHandler) {
	// The site root and the bare /accounts/ prefix are aliases for the
	// login page.
	e.GET(paths.RootLogin, a.ShowLogin)
	e.POST(paths.RootLogin, a.Login)
	e.GET(paths.AccountsRoot, a.ShowLogin)
	e.POST(paths.AccountsRoot, a.Login)

	e.GET(paths.Login, a.ShowLogin)
	e.POST(paths.Login, a.Login)
	e.GET(paths.Logout, a.Logout)

	e.GET(paths.RequestAccount, req.Show)
	e.POST(paths.RequestAccount, req.Submit)

	e.GET(paths.ForgotPassword, rst.Show)
	e.POST(paths.ForgotPassword, rst.Submit)
}
