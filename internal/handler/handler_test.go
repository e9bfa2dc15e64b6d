package handler

// Shared fakes and helpers for the handler tests.  Handlers talk to
// the small store interfaces, so the fakes here are plain in-memory
// structs that record calls.

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mwakyusa/parish-management/internal/config"
	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/model"
	"github.com/mwakyusa/parish-management/internal/queue"
	"github.com/mwakyusa/parish-management/internal/utils"
)

type fakeUsers struct {
	users []model.User

	createErr    error
	created      []model.User
	createdPlain string

	credsUserID   uint64
	credsUsername string
	credsHash     string
	credsErr      error

	adminUpdated   *model.User
	adminUpdateErr error

	pictureCalls int
	picturePath  *string
}

func (f *fakeUsers) find(pred func(model.User) bool) (model.User, error) {
	for _, u := range f.users {
		if pred(u) {
			return u, nil
		}
	}
	return model.User{}, sql.ErrNoRows
}

func (f *fakeUsers) Create(ctx context.Context, u *model.User, plain string, cost int) (uint64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	if err := u.ApplyRoleRules(); err != nil {
		return 0, err
	}
	hash, err := utils.HashPassword(plain, bcrypt.MinCost)
	if err != nil {
		return 0, err
	}
	u.PasswordHash = hash
	u.ID = uint64(len(f.users)+len(f.created)) + 100
	f.created = append(f.created, *u)
	f.createdPlain = plain
	return u.ID, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return f.find(func(u model.User) bool { return u.ID == id })
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return f.find(func(u model.User) bool { return u.Username == username })
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return f.find(func(u model.User) bool { return u.Email != nil && *u.Email == email })
}

func (f *fakeUsers) GetByMemberLink(ctx context.Context, churchMemberID uint64) (model.User, error) {
	return f.find(func(u model.User) bool {
		return u.ChurchMemberID != nil && *u.ChurchMemberID == churchMemberID
	})
}

func (f *fakeUsers) UpdateCredentials(ctx context.Context, userID uint64, username, passwordHash string) error {
	if f.credsErr != nil {
		return f.credsErr
	}
	f.credsUserID = userID
	f.credsUsername = username
	f.credsHash = passwordHash
	return nil
}

func (f *fakeUsers) UpdateAdminProfile(ctx context.Context, u *model.User, newHash string) error {
	if f.adminUpdateErr != nil {
		return f.adminUpdateErr
	}
	if err := u.ApplyRoleRules(); err != nil {
		return err
	}
	if newHash != "" {
		u.PasswordHash = newHash
	}
	cp := *u
	f.adminUpdated = &cp
	return nil
}

func (f *fakeUsers) SetProfilePicture(ctx context.Context, userID uint64, path *string) error {
	f.pictureCalls++
	f.picturePath = path
	return nil
}

type fakeMembers struct {
	members []model.ChurchMember
	leaders map[uint64]model.Leader
}

func (f *fakeMembers) GetByMemberID(ctx context.Context, memberID string) (model.ChurchMember, error) {
	for _, m := range f.members {
		if m.MemberID == memberID {
			return m, nil
		}
	}
	return model.ChurchMember{}, sql.ErrNoRows
}

func (f *fakeMembers) GetByID(ctx context.Context, id uint64) (model.ChurchMember, error) {
	for _, m := range f.members {
		if m.ID == id {
			return m, nil
		}
	}
	return model.ChurchMember{}, sql.ErrNoRows
}

func (f *fakeMembers) LeaderFor(ctx context.Context, churchMemberID uint64) (model.Leader, error) {
	if l, ok := f.leaders[churchMemberID]; ok {
		return l, nil
	}
	return model.Leader{}, sql.ErrNoRows
}

type fakeHistoryStore struct {
	appended []uint64
	lastIP   string
	deleted  []uint64
}

func (f *fakeHistoryStore) Append(ctx context.Context, userID uint64, ip, userAgent string) (uint64, error) {
	f.appended = append(f.appended, userID)
	f.lastIP = ip
	return uint64(len(f.appended)), nil
}

func (f *fakeHistoryStore) DeleteForUser(ctx context.Context, userID uint64) error {
	f.deleted = append(f.deleted, userID)
	return nil
}

type fakeYears struct {
	calls int
	years []int
	err   error
}

func (f *fakeYears) EnsureCurrent(ctx context.Context, year int) error {
	f.calls++
	f.years = append(f.years, year)
	return f.err
}

type fakeNews struct {
	items    []model.NewsItem
	liked    bool
	likeErr  error
	comments []string
}

func (f *fakeNews) ListPublic(ctx context.Context) ([]model.NewsItem, error) { return f.items, nil }

func (f *fakeNews) ToggleLike(ctx context.Context, newsID, userID uint64) (bool, error) {
	if f.likeErr != nil {
		return false, f.likeErr
	}
	f.liked = !f.liked
	return f.liked, nil
}

func (f *fakeNews) AddComment(ctx context.Context, newsID, userID uint64, content string) error {
	f.comments = append(f.comments, content)
	return nil
}

// eventRecorder captures published account events.
type eventRecorder struct{ events []queue.AccountEvent }

func (r *eventRecorder) publish(ctx context.Context, ev queue.AccountEvent) error {
	r.events = append(r.events, ev)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		TokenSecret:   "token-secret",
		SessionSecret: "session-secret",
		SessionTTLMin: 60,
		BcryptCost:    bcrypt.MinCost,
	}
}

// newTestServer builds an Echo instance with the cookie-session
// middleware installed, matching the production chain.
func newTestServer() *echo.Echo {
	e := echo.New()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("session-secret"))))
	return e
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	return postFormCookies(e, path, form, nil)
}

func postFormCookies(e *echo.Echo, path string, form url.Values, cookies []*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	req.RemoteAddr = "10.1.2.3:40000"
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// seedSessionPath primes a cookie session with a remembered path and
// returns the cookies a follow-up request needs to carry it.
func seedSessionPath(t *testing.T, e *echo.Echo, path string) []*http.Cookie {
	t.Helper()
	e.GET("/seed-path", func(c echo.Context) error {
		sess, err := session.Get(mw.SessionName, c)
		require.NoError(t, err)
		sess.Values[mw.LastPathKey] = path
		require.NoError(t, sess.Save(c.Request(), c.Response()))
		return c.NoContent(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/seed-path", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return latestCookies(rec.Result())
}

// latestCookies keeps only the newest Set-Cookie per name, the way a
// browser would store them.
func latestCookies(res *http.Response) []*http.Cookie {
	byName := map[string]*http.Cookie{}
	var order []string
	for _, ck := range res.Cookies() {
		if _, seen := byName[ck.Name]; !seen {
			order = append(order, ck.Name)
		}
		byName[ck.Name] = ck
	}
	out := make([]*http.Cookie, 0, len(order))
	for _, name := range order {
		out = append(out, byName[name])
	}
	return out
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := utils.HashPassword(plain, bcrypt.MinCost)
	require.NoError(t, err)
	return h
}

func strptr(s string) *string { return &s }

func uintptr64(v uint64) *uint64 { return &v }
