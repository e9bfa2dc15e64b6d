package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
)

// HistoryUpdater is the slice of the login-history ledger the tracker
// writes through.
type HistoryUpdater interface {
	LatestForUser(ctx context.Context, userID uint64) (model.LoginHistory, error)
	UpdateLastPath(ctx context.Context, historyID uint64, path string) error
}

// TrackLastPath remembers where an authenticated user was, so the next
// login or refresh can return them there.  A qualifying response
// writes the request path into the session under last_visited_path and
// onto the newest login-history row of the user.
//
// The work is registered as a Response.Before hook: at that point the
// final status code is known but headers have not been flushed, so the
// session cookie can still be written.  A request qualifies when all
// of the following hold: an authenticated user, method GET, status in
// [200,400), a non-empty path outside /static/ and /media/, and a path
// not in the ignored set.
//
// The tracker must never turn a successful response into an error:
// every failure inside the hook is swallowed (the one place in the
// codebase where suppression is allowed).
func TrackLastPath(histories HistoryUpdater) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Response().Before(func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("lastpath: suppressed panic: %v", r)
					}
				}()
				recordLastPath(c, histories)
			})
			return next(c)
		}
	}
}

func recordLastPath(c echo.Context, histories HistoryUpdater) {
	u := CurrentUser(c)
	req := c.Request()
	path := req.URL.Path
	status := c.Response().Status

	if u == nil ||
		req.Method != http.MethodGet ||
		status < 200 || status >= 400 ||
		path == "" ||
		strings.HasPrefix(path, paths.StaticPrefix) ||
		strings.HasPrefix(path, paths.MediaPrefix) ||
		paths.IsIgnored(path) {
		return
	}

	// Save in the session for post-login redirection.
	if sess, err := session.Get(SessionName, c); err == nil {
		sess.Values[LastPathKey] = path
		_ = sess.Save(req, c.Response())
	}

	// Update the newest login row, but only when the path changed so
	// repeated GETs to the same page cost at most one write.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	lh, err := histories.LatestForUser(ctx, u.ID)
	if err != nil {
		return
	}
	if lh.LastVisitedPath == nil || *lh.LastVisitedPath != path {
		_ = histories.UpdateLastPath(ctx, lh.ID, path)
	}
}
