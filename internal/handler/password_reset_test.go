package handler

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
	"github.com/mwakyusa/parish-management/internal/queue"
	"github.com/mwakyusa/parish-management/internal/utils"
)

func resetServer(users *fakeUsers, members *fakeMembers, rec *eventRecorder) *echo.Echo {
	h := NewPasswordResetHandler(testConfig(), users, members, rec.publish)
	e := newTestServer()
	e.GET(paths.ForgotPassword, h.Show)
	e.POST(paths.ForgotPassword, h.Submit)
	return e
}

func TestForgotPasswordUnknownID(t *testing.T) {
	e := resetServer(&fakeUsers{}, registryMembers(), &eventRecorder{})

	rec := postForm(e, paths.ForgotPassword, url.Values{"member_id": {"PMS-404"}, "validate_id": {"1"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		"The system does not identify you. Please contact the admin at +255767972343.")
}

func TestForgotPasswordMemberWithoutAccount(t *testing.T) {
	e := resetServer(&fakeUsers{}, registryMembers(), &eventRecorder{})

	rec := postForm(e, paths.ForgotPassword, url.Values{"member_id": {"PMS-005"}, "validate_id": {"1"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(),
		"This member does not have an account. Please request an account first.")
}

func TestForgotPasswordShowsPreviousUsername(t *testing.T) {
	users := &fakeUsers{users: []model.User{{
		ID: 2, Username: "old_neema", Role: model.RoleChurchMember, ChurchMemberID: uintptr64(5),
	}}}
	e := resetServer(users, registryMembers(), &eventRecorder{})

	rec := postForm(e, paths.ForgotPassword, url.Values{"member_id": {"PMS-005"}, "validate_id": {"1"}})

	body := rec.Body.String()
	assert.Contains(t, body, "Previous Username: old_neema.")
	assert.Contains(t, body, "(Hidden for security reasons)")
	assert.NotContains(t, body, "old password")
}

func TestForgotPasswordResetSuccess(t *testing.T) {
	users := &fakeUsers{users: []model.User{{
		ID: 2, Username: "old_neema", Role: model.RoleChurchMember, ChurchMemberID: uintptr64(5),
	}}}
	events := &eventRecorder{}
	e := resetServer(users, registryMembers(), events)

	rec := postForm(e, paths.ForgotPassword, url.Values{
		"member_id":        {"PMS-005"},
		"new_username":     {"fresh_neema"},
		"new_password":     {"brand-new"},
		"confirm_password": {"brand-new"},
		"submit_reset":     {"1"},
	})

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, paths.Login, rec.Header().Get("Location"))

	assert.Equal(t, uint64(2), users.credsUserID)
	assert.Equal(t, "fresh_neema", users.credsUsername)
	assert.True(t, utils.VerifyPassword(users.credsHash, "brand-new"),
		"the stored hash must verify against the new password")

	require.Len(t, events.events, 1)
	assert.Equal(t, queue.KindPasswordReset, events.events[0].Kind)
}

func TestForgotPasswordMismatch(t *testing.T) {
	users := &fakeUsers{users: []model.User{{
		ID: 2, Username: "old_neema", Role: model.RoleChurchMember, ChurchMemberID: uintptr64(5),
	}}}
	e := resetServer(users, registryMembers(), &eventRecorder{})

	rec := postForm(e, paths.ForgotPassword, url.Values{
		"member_id":        {"PMS-005"},
		"new_username":     {"fresh_neema"},
		"new_password":     {"one"},
		"confirm_password": {"two"},
		"submit_reset":     {"1"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Passwords do not match.")
	assert.Zero(t, users.credsUserID, "credentials stay untouched on a failed reset")
}
