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
	"github.com/mwakyusa/parish-management/internal/view"
)

// adminContact is shown to visitors whose member ID the registry does
// not recognize.
const adminContact = "+255767972343"

// AccountRequestHandler drives the two-step self-service signup: the
// visitor first proves they are a registered church member by ID, then
// chooses credentials for the new account.
type AccountRequestHandler struct {
	Cfg          config.Config
	Users        UserStore
	Members      MemberStore
	PublishEvent EventPublisher
}

func NewAccountRequestHandler(cfg config.Config, users UserStore, members MemberStore, publish EventPublisher) *AccountRequestHandler {
	return &AccountRequestHandler{Cfg: cfg, Users: users, Members: members, PublishEvent: publish}
}

// formHas reports whether the posted form carries the named key at
// all.  The two-step forms use the submit button's name to signal
// which step was posted.
func formHas(c echo.Context, key string) bool {
	form, err := c.FormParams()
	if err != nil {
		return false
	}
	_, ok := form[key]
	return ok
}

// Show renders step one of the signup form.
func (h *AccountRequestHandler) Show(c echo.Context) error {
	return view.Render(c, http.StatusOK, "request_account", map[string]interface{}{
		"MemberIDValid": false,
		"Flashes":       mw.TakeFlashes(c),
	})
}

// Submit dispatches the post to the step named by the pressed button.
// A post carrying neither button falls back to step one.
func (h *AccountRequestHandler) Submit(c echo.Context) error {
	switch {
	case formHas(c, "validate_id"):
		return h.validateID(c)
	case formHas(c, "submit_account"):
		return h.createAccount(c)
	default:
		return h.Show(c)
	}
}

// lookupMember resolves a posted member ID.  On failure it renders
// step one with the standard not-recognized message and returns
// done=true so the caller stops.
func (h *AccountRequestHandler) lookupMember(ctx context.Context, c echo.Context, memberID string) (model.ChurchMember, bool, error) {
	m, err := h.Members.GetByMemberID(ctx, memberID)
	if err == nil {
		return m, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.ChurchMember{}, true, err
	}
	mw.AddFlash(c, "error", "The system does not identify you. Please contact the admin at "+adminContact+".")
	return model.ChurchMember{}, true, view.Render(c, http.StatusOK, "request_account", map[string]interface{}{
		"MemberIDValid": false,
		"MemberID":      memberID,
		"Flashes":       mw.TakeFlashes(c),
	})
}

func (h *AccountRequestHandler) validateID(c echo.Context) error {
	memberID := strings.TrimSpace(c.FormValue("member_id"))
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, done, err := h.lookupMember(ctx, c, memberID)
	if done {
		return err
	}

	msg := fmt.Sprintf("Well done, we identify you as %s.", m.FullName)
	if l, err := h.Members.LeaderFor(ctx, m.ID); err == nil {
		msg = fmt.Sprintf("You are a leader: %s (%s).", l.Occupation, m.FullName)
	}

	email := ""
	if m.Email != nil {
		email = *m.Email
	}
	return view.Render(c, http.StatusOK, "request_account", map[string]interface{}{
		"MemberIDValid":  true,
		"MemberID":       m.MemberID,
		"Email":          email,
		"DisplayMessage": msg,
		"Flashes":        mw.TakeFlashes(c),
	})
}

func (h *AccountRequestHandler) createAccount(c echo.Context) error {
	memberID := strings.TrimSpace(c.FormValue("member_id"))
	email := strings.TrimSpace(c.FormValue("email"))
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	m, done, err := h.lookupMember(ctx, c, memberID)
	if done {
		return err
	}

	fieldErrors := map[string]string{}
	if username == "" {
		fieldErrors["username"] = "This field is required."
	}
	if password == "" {
		fieldErrors["password"] = "This field is required."
	} else if password != confirm {
		fieldErrors["confirm_password"] = "Passwords do not match."
	}

	renderStep2 := func() error {
		return view.Render(c, http.StatusOK, "request_account", map[string]interface{}{
			"MemberIDValid": true,
			"MemberID":      m.MemberID,
			"Email":         email,
			"FormUsername":  username,
			"FieldErrors":   fieldErrors,
			"Flashes":       mw.TakeFlashes(c),
		})
	}
	if len(fieldErrors) > 0 {
		return renderStep2()
	}

	var emailPtr *string
	if email != "" {
		emailPtr = &email
	}
	u := &model.User{
		Username:       username,
		Email:          emailPtr,
		PhoneNumber:    m.PhoneNumber,
		Role:           model.RoleChurchMember,
		ChurchMemberID: &m.ID,
		AgreedToTerms:  true,
	}
	if _, err := h.Users.Create(ctx, u, password, h.Cfg.BcryptCost); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			fieldErrors["username"] = "This username is already taken."
		case errors.Is(err, repository.ErrPhoneExists), errors.Is(err, repository.ErrMemberLinked):
			fieldErrors["member_id"] = "This member already has an account."
		default:
			return err
		}
		return renderStep2()
	}

	if h.PublishEvent != nil {
		_ = h.PublishEvent(ctx, queue.AccountEvent{
			Kind:       queue.KindAccountCreated,
			UserID:     u.ID,
			Username:   u.Username,
			MemberID:   m.MemberID,
			FullName:   m.FullName,
			OccurredAt: time.Now().UTC().Format(time.RFC3339),
		})
	}

	mw.AddFlash(c, "success", fmt.Sprintf("Account successfully created for %s. You can now log in.", m.FullName))
	return c.Redirect(http.StatusFound, paths.Login)
}
