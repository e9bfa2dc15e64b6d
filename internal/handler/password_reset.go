package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/config"
	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
	"github.com/mwakyusa/parish-management/internal/queue"
	"github.com/mwakyusa/parish-management/internal/repository"
	"github.com/mwakyusa/parish-management/internal/utils"
	"github.com/mwakyusa/parish-management/internal/view"
)

// PasswordResetHandler drives the two-step credential reset: prove
// membership by ID, then pick a new username and password.  There is
// no email round-trip; the member registry is the trust anchor.
type PasswordResetHandler struct {
	Cfg          config.Config
	Users        UserStore
	Members      MemberStore
	PublishEvent EventPublisher
}

func NewPasswordResetHandler(cfg config.Config, users UserStore, members MemberStore, publish EventPublisher) *PasswordResetHandler {
	return &PasswordResetHandler{Cfg: cfg, Users: users, Members: members, PublishEvent: publish}
}

// Show renders step one of the reset form.
func (h *PasswordResetHandler) Show(c echo.Context) error {
	return view.Render(c, http.StatusOK, "forgot_password", map[string]interface{}{
		"MemberIDValid": false,
		"Flashes":       mw.TakeFlashes(c),
	})
}

// Submit dispatches on the pressed button, falling back to step one.
func (h *PasswordResetHandler) Submit(c echo.Context) error {
	switch {
	case formHas(c, "validate_id"):
		return h.validateID(c)
	case formHas(c, "submit_reset"):
		return h.resetCredentials(c)
	default:
		return h.Show(c)
	}
}

// lookupAccount resolves the posted member ID to the member row and
// its linked user account.  Either miss renders step one with the
// appropriate message and done=true.
func (h *PasswordResetHandler) lookupAccount(ctx context.Context, c echo.Context, memberID string) (model.ChurchMember, model.User, bool, error) {
	step1 := func(msg string) error {
		mw.AddFlash(c, "error", msg)
		return view.Render(c, http.StatusOK, "forgot_password", map[string]interface{}{
			"MemberIDValid": false,
			"MemberID":      memberID,
			"Flashes":       mw.TakeFlashes(c),
		})
	}

	m, err := h.Members.GetByMemberID(ctx, memberID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ChurchMember{}, model.User{}, true,
				step1("The system does not identify you. Please contact the admin at " + adminContact + ".")
		}
		return model.ChurchMember{}, model.User{}, true, err
	}

	u, err := h.Users.GetByMemberLink(ctx, m.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.ChurchMember{}, model.User{}, true,
				step1("This member does not have an account. Please request an account first.")
		}
		return model.ChurchMember{}, model.User{}, true, err
	}
	return m, u, false, nil
}

func (h *PasswordResetHandler) validateID(c echo.Context) error {
	memberID := strings.TrimSpace(c.FormValue("member_id"))
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, u, done, err := h.lookupAccount(ctx, c, memberID)
	if done {
		return err
	}

	msg := fmt.Sprintf("Well done, we identify you as %s. Previous Username: %s. Previous Password: (Hidden for security reasons). Fill the form below to set new credentials.",
		m.FullName, u.Username)
	return view.Render(c, http.StatusOK, "forgot_password", map[string]interface{}{
		"MemberIDValid":  true,
		"MemberID":       m.MemberID,
		"DisplayMessage": msg,
		"Flashes":        mw.TakeFlashes(c),
	})
}

func (h *PasswordResetHandler) resetCredentials(c echo.Context) error {
	memberID := strings.TrimSpace(c.FormValue("member_id"))
	newUsername := strings.TrimSpace(c.FormValue("new_username"))
	newPassword := c.FormValue("new_password")
	confirm := c.FormValue("confirm_password")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, u, done, err := h.lookupAccount(ctx, c, memberID)
	if done {
		return err
	}

	fieldErrors := map[string]string{}
	if newUsername == "" {
		fieldErrors["new_username"] = "This field is required."
	}
	if newPassword == "" {
		fieldErrors["new_password"] = "This field is required."
	} else if newPassword != confirm {
		fieldErrors["confirm_password"] = "Passwords do not match."
	}

	renderStep2 := func() error {
		return view.Render(c, http.StatusOK, "forgot_password", map[string]interface{}{
			"MemberIDValid": true,
			"MemberID":      m.MemberID,
			"FormUsername":  newUsername,
			"FieldErrors":   fieldErrors,
			"Flashes":       mw.TakeFlashes(c),
		})
	}
	if len(fieldErrors) > 0 {
		return renderStep2()
	}

	hash, err := utils.HashPassword(newPassword, h.Cfg.BcryptCost)
	if err != nil {
		return err
	}
	if err := h.Users.UpdateCredentials(ctx, u.ID, newUsername, hash); err != nil {
		if errors.Is(err, repository.ErrUsernameExists) {
			fieldErrors["new_username"] = "This username is already taken."
			return renderStep2()
		}
		return err
	}

	if h.PublishEvent != nil {
		_ = h.PublishEvent(ctx, queue.AccountEvent{
			Kind:       queue.KindPasswordReset,
			UserID:     u.ID,
			Username:   newUsername,
			MemberID:   m.MemberID,
			FullName:   m.FullName,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	mw.AddFlash(c, "success", fmt.Sprintf("Password reset successfully for %s. You can now log in.", m.FullName))
	return c.Redirect(http.StatusFound, paths.Login)
}
