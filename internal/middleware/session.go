package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"encoding/gob"
	"time"

	"github.com/labstack/echo-contrib/session" // echo bridge to gorilla cookie sessions
	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/utils"
)

// Session cookie layout.  The cookie carries two values: the signed
// session token that proves who the user is, and the last visited path
// maintained by the tracker.  Flash messages ride along via gorilla's
// flash mechanism.
const (
	SessionName     = "pms_session"
	sessionTokenKey = "token"
	LastPathKey     = "last_visited_path"

	userContextKey = "user"
)

// Flash is a one-shot message shown on the next rendered page.  Kind
// is "success" or "error".
type Flash struct {
	Kind string
	Text string
}

func init() {
	// gorilla/sessions serializes flash values with gob.
	gob.Register(Flash{})
}

// UserLoader is the slice of the identity store the session middleware
// needs.
type UserLoader interface {
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// SessionAuth resolves the authenticated user for a request, if any.
// It reads the session token from the cookie session, validates the
// signature and expiry, loads the user and compares the credential
// fingerprint so that sessions minted before a password change stop
// authenticating.  The middleware never rejects a request itself;
// route guards decide what anonymous visitors may see.
func SessionAuth(tokenSecret string, users UserLoader) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if sess, err := session.Get(SessionName, c); err == nil {
				if raw, ok := sess.Values[sessionTokenKey].(string); ok && raw != "" {
					if uid, fp, err := utils.ParseSessionToken(tokenSecret, raw); err == nil {
						ctx, cancel := context.WithTimeout(c.Request().Context(), 3*time.Second)
						u, err := users.GetByID(ctx, uid)
						cancel()
						if err == nil && utils.CredentialFingerprint(u.PasswordHash) == fp {
							c.Set(userContextKey, &u)
						}
					}
				}
			}
			return next(c)
		}
	}
}

// CurrentUser returns the authenticated user of the request, or nil.
func CurrentUser(c echo.Context) *model.User {
	if u, ok := c.Get(userContextKey).(*model.User); ok {
		return u
	}
	return nil
}

// SetCurrentUser stores the user on the request context.  Used by the
// login handler after establishing a session and by tests.
func SetCurrentUser(c echo.Context, u *model.User) {
	c.Set(userContextKey, u)
}

// EstablishSession writes a fresh session token into the cookie
// session.  Called on login and when a password change rotates the
// token.
func EstablishSession(c echo.Context, token string) error {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return err
	}
	sess.Values[sessionTokenKey] = token
	return sess.Save(c.Request(), c.Response())
}

// ClearSession flushes the session entirely: values are dropped and
// the cookie is expired.
func ClearSession(c echo.Context) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return
	}
	for k := range sess.Values {
		delete(sess.Values, k)
	}
	sess.Options.MaxAge = -1
	_ = sess.Save(c.Request(), c.Response())
}

// SessionString reads a string value from the session, "" when absent.
func SessionString(c echo.Context, key string) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}
	v, _ := sess.Values[key].(string)
	return v
}

// PopSessionString reads and removes a string value from the session
// in one step, so a remembered path cannot cause a loop on the next
// request.
func PopSessionString(c echo.Context, key string) string {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return ""
	}
	v, _ := sess.Values[key].(string)
	if _, present := sess.Values[key]; present {
		delete(sess.Values, key)
		_ = sess.Save(c.Request(), c.Response())
	}
	return v
}

// AddFlash queues a one-shot message for the next rendered page.
func AddFlash(c echo.Context, kind, text string) {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return
	}
	sess.AddFlash(Flash{Kind: kind, Text: text})
	_ = sess.Save(c.Request(), c.Response())
}

// TakeFlashes drains the queued flash messages.
func TakeFlashes(c echo.Context) []Flash {
	sess, err := session.Get(SessionName, c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) > 0 {
		_ = sess.Save(c.Request(), c.Response()) // persist the drain
	}
	out := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			out = append(out, f)
		}
	}
	return out
}
