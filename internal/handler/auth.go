package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/config"
	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
	"github.com/mwakyusa/parish-management/internal/queue"
	"github.com/mwakyusa/parish-management/internal/utils"
	"github.com/mwakyusa/parish-management/internal/view"
)

const dbTimeout = 5 * time.Second

// AuthHandler owns the login and logout flows.
type AuthHandler struct {
	Cfg       config.Config
	Users     UserStore
	Members   MemberStore
	Histories HistoryStore

	// PublishEvent is called after a successful login.  Nil or failing
	// publishers never affect the request outcome.
	PublishEvent EventPublisher
}

func NewAuthHandler(cfg config.Config, users UserStore, members MemberStore, histories HistoryStore, publish EventPublisher) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Members: members, Histories: histories, PublishEvent: publish}
}

// authenticateUser verifies an identifier/password pair.  The
// identifier is tried as an email first and as a username second, and
// any failure (no such user, wrong password) yields nil so callers
// cannot distinguish which part failed.
func authenticateUser(ctx context.Context, users UserStore, identifier, password string) *model.User {
	u, err := users.GetByEmail(ctx, identifier)
	if err != nil {
		if u, err = users.GetByUsername(ctx, identifier); err != nil {
			return nil
		}
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil
	}
	return &u
}

// occupationOf returns the leader occupation of the user's linked
// member, or "" when the user is not linked or holds no leadership.
func occupationOf(ctx context.Context, members MemberStore, u *model.User) string {
	if u.ChurchMemberID == nil {
		return ""
	}
	l, err := members.LeaderFor(ctx, *u.ChurchMemberID)
	if err != nil {
		return ""
	}
	return l.Occupation
}

// ShowLogin renders the sign-in page.  Already-authenticated visitors
// are sent to their remembered path when one is safe, otherwise to
// their role's dashboard.
func (h *AuthHandler) ShowLogin(c echo.Context) error {
	if u := mw.CurrentUser(c); u != nil {
		if lp := paths.SafeLastPath(c.Request().URL.Path, mw.SessionString(c, mw.LastPathKey)); lp != "" {
			return c.Redirect(http.StatusFound, lp)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		defer cancel()
		return c.Redirect(http.StatusFound, paths.PostLoginTarget(u, occupationOf(ctx, h.Members, u)))
	}
	// Drop any stale remembered path so it cannot leak into a later
	// session on this browser.
	mw.PopSessionString(c, mw.LastPathKey)
	return view.Render(c, http.StatusOK, "login", map[string]interface{}{
		"Flashes": mw.TakeFlashes(c),
	})
}

// Login handles the sign-in form post.
func (h *AuthHandler) Login(c echo.Context) error {
	identifier := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")

	fail := func(msg string) error {
		mw.PopSessionString(c, mw.LastPathKey)
		return view.Render(c, http.StatusOK, "login", map[string]interface{}{
			"Error":    msg,
			"Username": identifier,
			"Flashes":  mw.TakeFlashes(c),
		})
	}

	if identifier == "" || password == "" {
		return fail("Invalid username/email or password.")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	u := authenticateUser(ctx, h.Users, identifier, password)
	if u == nil {
		return fail("Invalid username/email or password.")
	}

	// Church-member accounts only sign in while their member record is
	// Active.  Superusers bypass the check entirely.
	if !u.IsSuperuser && u.Role == model.RoleChurchMember {
		active := false
		if u.ChurchMemberID != nil {
			if m, err := h.Members.GetByID(ctx, *u.ChurchMemberID); err == nil && m.Status == model.MemberActive {
				active = true
			}
		}
		if !active {
			return fail("Your account is inactive. Contact admin for assistance.")
		}
	}

	tok, err := utils.NewSessionToken(h.Cfg.TokenSecret, u, h.Cfg.SessionTTLMin)
	if err != nil {
		return err
	}
	if err := mw.EstablishSession(c, tok.Token); err != nil {
		return err
	}
	mw.SetCurrentUser(c, u)

	ip := utils.ClientIP(c.Request())
	if _, err := h.Histories.Append(ctx, u.ID, ip, c.Request().UserAgent()); err != nil {
		return err
	}

	if h.PublishEvent != nil {
		_ = h.PublishEvent(ctx, queue.AccountEvent{
			Kind:       queue.KindLoginRecorded,
			UserID:     u.ID,
			Username:   u.Username,
			IPAddress:  ip,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	if lp := paths.SafeLastPath(c.Request().URL.Path, mw.PopSessionString(c, mw.LastPathKey)); lp != "" {
		return c.Redirect(http.StatusFound, lp)
	}
	return c.Redirect(http.StatusFound, paths.PostLoginTarget(u, occupationOf(ctx, h.Members, u)))
}

// Logout purges the user's login history, flushes the session and
// returns to the login page.
func (h *AuthHandler) Logout(c echo.Context) error {
	u := mw.CurrentUser(c)
	if u != nil {
		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		defer cancel()
		if err := h.Histories.DeleteForUser(ctx, u.ID); err != nil {
			return err
		}
	}
	mw.ClearSession(c)
	return c.Redirect(http.StatusFound, paths.Login)
}
