package handler

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/paths"
	"github.com/mwakyusa/parish-management/internal/utils"
)

func profileContext(t *testing.T, method, path string, body *bytes.Buffer, contentType string, u *model.User) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := newTestServer()
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	mw.SetCurrentUser(c, u)
	return c, rec
}

func TestRemovePictureRejectsGet(t *testing.T) {
	h := NewProfileHandler(testConfig(), &fakeUsers{})
	c, rec := profileContext(t, http.MethodGet, "/accounts/remove_profile_picture/", nil, "",
		&model.User{ID: 1, ProfilePicture: strptr("/media/profile_pictures/1_x.png")})

	require.NoError(t, h.RemovePicture(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid request"}`, rec.Body.String())
}

func TestRemovePictureWithoutPicture(t *testing.T) {
	h := NewProfileHandler(testConfig(), &fakeUsers{})
	c, rec := profileContext(t, http.MethodPost, "/accounts/remove_profile_picture/", nil, "",
		&model.User{ID: 1})

	require.NoError(t, h.RemovePicture(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"No profile picture found"}`, rec.Body.String())
}

func TestRemovePictureSuccess(t *testing.T) {
	cfg := testConfig()
	cfg.MediaDir = t.TempDir()

	// Put a real file where the handler expects it.
	dir := filepath.Join(cfg.MediaDir, "profile_pictures")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	onDisk := filepath.Join(dir, "1_x.png")
	require.NoError(t, os.WriteFile(onDisk, []byte("img"), 0o644))

	users := &fakeUsers{}
	h := NewProfileHandler(cfg, users)
	u := &model.User{ID: 1, ProfilePicture: strptr("/media/profile_pictures/1_x.png")}
	c, rec := profileContext(t, http.MethodPost, "/accounts/remove_profile_picture/", nil, "", u)

	require.NoError(t, h.RemovePicture(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())

	assert.Equal(t, 1, users.pictureCalls)
	assert.Nil(t, users.picturePath, "the database column is cleared")
	assert.Nil(t, u.ProfilePicture)
	assert.NoFileExists(t, onDisk)
}

func TestUploadPictureStoresFileAndRedirects(t *testing.T) {
	cfg := testConfig()
	cfg.MediaDir = t.TempDir()
	users := &fakeUsers{}
	h := NewProfileHandler(cfg, users)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("fileInput", "me.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake-png-bytes"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	u := &model.User{ID: 7}
	c, rec := profileContext(t, http.MethodPost, "/accounts/upload_profile_picture/", &body, w.FormDataContentType(), u)

	require.NoError(t, h.UploadPicture(paths.AdminDashboard)(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, paths.AdminDashboard, rec.Header().Get("Location"))

	require.NotNil(t, users.picturePath)
	assert.True(t, strings.HasPrefix(*users.picturePath, "/media/profile_pictures/7_"))
	assert.True(t, strings.HasSuffix(*users.picturePath, ".png"))

	onDisk := filepath.Join(cfg.MediaDir, strings.TrimPrefix(*users.picturePath, "/media/"))
	data, err := os.ReadFile(onDisk)
	require.NoError(t, err)
	assert.Equal(t, "fake-png-bytes", string(data))
}

func TestUploadPictureWithoutFileReRenders(t *testing.T) {
	cfg := testConfig()
	cfg.MediaDir = t.TempDir()
	users := &fakeUsers{}
	h := NewProfileHandler(cfg, users)

	form := url.Values{}
	c, rec := profileContext(t, http.MethodPost, "/accounts/upload_profile_picture/",
		bytes.NewBufferString(form.Encode()), echo.MIMEApplicationForm, &model.User{ID: 7})

	require.NoError(t, h.UploadPicture(paths.AdminDashboard)(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, users.pictureCalls)
}

func TestAdminUpdateRejectsBadPhone(t *testing.T) {
	h := NewProfileHandler(testConfig(), &fakeUsers{})
	form := url.Values{
		"username":     {"admin"},
		"phone_number": {"0767972343"},
		"role":         {model.RoleAdmin},
	}
	c, rec := profileContext(t, http.MethodPost, paths.AdminUpdate,
		bytes.NewBufferString(form.Encode()), echo.MIMEApplicationForm,
		&model.User{ID: 1, Role: model.RoleAdmin, IsSuperuser: true})

	require.NoError(t, h.AdminUpdate(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Phone number must be in the format +255XXXXXXXXX.")
}

func TestAdminUpdateSuccess(t *testing.T) {
	users := &fakeUsers{}
	h := NewProfileHandler(testConfig(), users)
	form := url.Values{
		"username":     {"renamed"},
		"email":        {"admin@parish.tz"},
		"phone_number": {"+255767972343"},
		"role":         {model.RoleAdmin},
	}
	u := &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin, IsSuperuser: true, PhoneNumber: "+255700000009"}
	c, rec := profileContext(t, http.MethodPost, paths.AdminUpdate,
		bytes.NewBufferString(form.Encode()), echo.MIMEApplicationForm, u)

	require.NoError(t, h.AdminUpdate(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, paths.SuperuserDetail, rec.Header().Get("Location"))

	require.NotNil(t, users.adminUpdated)
	assert.Equal(t, "renamed", users.adminUpdated.Username)
	assert.Equal(t, "+255767972343", users.adminUpdated.PhoneNumber)
	assert.Equal(t, "renamed", u.Username, "the in-request user reflects the saved state")
}

func TestAdminUpdatePasswordChangeStoresNewHash(t *testing.T) {
	users := &fakeUsers{}
	h := NewProfileHandler(testConfig(), users)
	form := url.Values{
		"username":         {"admin"},
		"phone_number":     {"+255767972343"},
		"role":             {model.RoleAdmin},
		"password":         {"new-pass"},
		"confirm_password": {"new-pass"},
	}
	u := &model.User{ID: 1, Username: "admin", Role: model.RoleAdmin, IsSuperuser: true,
		PhoneNumber: "+255767972343", PasswordHash: mustHash(t, "old-pass")}
	c, rec := profileContext(t, http.MethodPost, paths.AdminUpdate,
		bytes.NewBufferString(form.Encode()), echo.MIMEApplicationForm, u)

	require.NoError(t, h.AdminUpdate(c))
	assert.Equal(t, http.StatusFound, rec.Code)
	require.NotNil(t, users.adminUpdated)
	assert.True(t, utils.VerifyPassword(users.adminUpdated.PasswordHash, "new-pass"))
	assert.False(t, utils.VerifyPassword(users.adminUpdated.PasswordHash, "old-pass"))
}

func TestSuperuserDetailRendersAccount(t *testing.T) {
	h := NewProfileHandler(testConfig(), &fakeUsers{})
	c, rec := profileContext(t, http.MethodGet, paths.SuperuserDetail, nil, "",
		&model.User{ID: 1, Username: "admin", Role: model.RoleAdmin, PhoneNumber: "+255767972343"})

	require.NoError(t, h.SuperuserDetail(c))
	body := rec.Body.String()
	assert.Contains(t, body, "admin")
	assert.Contains(t, body, "N/A", "missing email renders as N/A")
	assert.Contains(t, body, "+255767972343")
}
