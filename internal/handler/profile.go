package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/config"
	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
	"github.com/mwakyusa/parish-management/internal/repository"
	"github.com/mwakyusa/parish-management/internal/utils"
	"github.com/mwakyusa/parish-management/internal/view"
)

// ProfileHandler covers the profile-picture surface and the admin
// self-service pages.
type ProfileHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewProfileHandler(cfg config.Config, users UserStore) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Users: users}
}

// UploadPicture returns the upload page handler for one role's
// dashboard.  GET renders the form; POST stores the file and returns
// to the given dashboard.  The camera capture input wins over the
// plain file input when both are present.
func (h *ProfileHandler) UploadPicture(dashboardPath string) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return view.Render(c, http.StatusOK, "upload_picture", map[string]interface{}{
				"Flashes": mw.TakeFlashes(c),
			})
		}
		u := mw.CurrentUser(c)

		fh, err := c.FormFile("cameraInput")
		if err != nil {
			fh, err = c.FormFile("fileInput")
		}
		if err != nil {
			mw.AddFlash(c, "error", "No file uploaded. Please select a file and try again.")
			return view.Render(c, http.StatusOK, "upload_picture", map[string]interface{}{
				"Flashes": mw.TakeFlashes(c),
			})
		}

		rel, err := h.storePicture(u.ID, fh)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
		defer cancel()
		if err := h.Users.SetProfilePicture(ctx, u.ID, &rel); err != nil {
			return err
		}
		u.ProfilePicture = &rel

		mw.AddFlash(c, "success", "Profile picture uploaded successfully!")
		return c.Redirect(http.StatusFound, dashboardPath)
	}
}

// storePicture writes the upload under MEDIA_DIR/profile_pictures and
// returns the public /media/ path.  File names are prefixed with the
// user ID and a timestamp so concurrent uploads never collide.
func (h *ProfileHandler) storePicture(userID uint64, fh *multipart.FileHeader) (string, error) {
	dir := filepath.Join(h.Cfg.MediaDir, "profile_pictures")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	name := fmt.Sprintf("%d_%d%s", userID, time.Now().UnixNano(), filepath.Ext(fh.Filename))

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return paths.MediaPrefix + "profile_pictures/" + name, nil
}

// RemovePicture deletes the current profile picture.  The endpoint is
// JSON because the dashboards call it from script.
func (h *ProfileHandler) RemovePicture(c echo.Context) error {
	if c.Request().Method != http.MethodPost {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request"})
	}
	u := mw.CurrentUser(c)
	if u.ProfilePicture == nil || *u.ProfilePicture == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "No profile picture found"})
	}

	// Best effort: a missing file on disk must not keep the database
	// pointing at it.
	onDisk := filepath.Join(h.Cfg.MediaDir, strings.TrimPrefix(*u.ProfilePicture, paths.MediaPrefix))
	_ = os.Remove(onDisk)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Users.SetProfilePicture(ctx, u.ID, nil); err != nil {
		return err
	}
	u.ProfilePicture = nil
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

// SuperuserDetail shows the admin's own account details.
func (h *ProfileHandler) SuperuserDetail(c echo.Context) error {
	u := mw.CurrentUser(c)
	email := "N/A"
	if u.Email != nil && *u.Email != "" {
		email = *u.Email
	}
	pic := ""
	if u.ProfilePicture != nil {
		pic = *u.ProfilePicture
	}
	return view.Render(c, http.StatusOK, "superuser_detail", map[string]interface{}{
		"Username":       u.Username,
		"Email":          email,
		"PhoneNumber":    u.PhoneNumber,
		"Role":           u.Role,
		"CreatedAt":      u.CreatedAt.Format("2006-01-02 15:04"),
		"ProfilePicture": pic,
		"Flashes":        mw.TakeFlashes(c),
	})
}

// AdminUpdate is the admin self-edit form.  A successful password
// change rotates the session token in place so the current session
// survives while every other session dies.
func (h *ProfileHandler) AdminUpdate(c echo.Context) error {
	u := mw.CurrentUser(c)

	if c.Request().Method != http.MethodPost {
		return h.renderAdminUpdate(c, u.Username, emailOrEmpty(u), u.PhoneNumber, u.Role, nil)
	}

	username := strings.TrimSpace(c.FormValue("username"))
	email := strings.TrimSpace(c.FormValue("email"))
	phone := strings.TrimSpace(c.FormValue("phone_number"))
	role := c.FormValue("role")
	password := c.FormValue("password")
	confirm := c.FormValue("confirm_password")

	fieldErrors := map[string]string{}
	if username == "" {
		fieldErrors["username"] = "This field is required."
	}
	if !model.ValidPhone(phone) {
		fieldErrors["phone_number"] = "Phone number must be in the format +255XXXXXXXXX."
	}
	if password != "" && password != confirm {
		fieldErrors["confirm_password"] = "Passwords do not match."
	}
	if len(fieldErrors) > 0 {
		return h.renderAdminUpdate(c, username, email, phone, role, fieldErrors)
	}

	updated := *u
	updated.Username = username
	updated.PhoneNumber = phone
	updated.Role = role
	updated.Email = nil
	if email != "" {
		updated.Email = &email
	}

	newHash := ""
	if password != "" {
		var err error
		if newHash, err = utils.HashPassword(password, h.Cfg.BcryptCost); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.Users.UpdateAdminProfile(ctx, &updated, newHash); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameExists):
			fieldErrors["username"] = "This username is already taken."
		case errors.Is(err, repository.ErrPhoneExists):
			fieldErrors["phone_number"] = "This phone number is already in use."
		case errors.Is(err, model.ErrMemberLinkRequired):
			fieldErrors["role"] = "CHURCH_MEMBER users must be linked to a valid member."
		case errors.Is(err, model.ErrInvalidPhone):
			fieldErrors["phone_number"] = "Phone number must be in the format +255XXXXXXXXX."
		default:
			return err
		}
		return h.renderAdminUpdate(c, username, email, phone, role, fieldErrors)
	}

	*u = updated
	if newHash != "" {
		// The credential fingerprint changed; reissue the token so this
		// session keeps working.
		if tok, err := utils.NewSessionToken(h.Cfg.TokenSecret, u, h.Cfg.SessionTTLMin); err == nil {
			_ = mw.EstablishSession(c, tok.Token)
		}
	}

	mw.AddFlash(c, "success", "Profile updated successfully!")
	return c.Redirect(http.StatusFound, paths.SuperuserDetail)
}

func (h *ProfileHandler) renderAdminUpdate(c echo.Context, username, email, phone, role string, fieldErrors map[string]string) error {
	return view.Render(c, http.StatusOK, "admin_update", map[string]interface{}{
		"Username":    username,
		"Email":       email,
		"PhoneNumber": phone,
		"Role":        role,
		"FieldErrors": fieldErrors,
		"Flashes":     mw.TakeFlashes(c),
	})
}

func emailOrEmpty(u *model.User) string {
	if u.Email != nil {
		return *u.Email
	}
	return ""
}
