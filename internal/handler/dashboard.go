package handler

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/view"
)

// DashboardHandler renders the role dashboards.  It also owns the
// financial-year registry check, which runs lazily on the first
// dashboard view of each calendar year instead of on every request.
type DashboardHandler struct {
	Years   YearStore
	Members MemberStore

	mu          sync.Mutex
	checkedYear int
}

func NewDashboardHandler(years YearStore, members MemberStore) *DashboardHandler {
	return &DashboardHandler{Years: years, Members: members}
}

// ensureCurrentYear flips the year registry to the wall-clock year at
// most once per process per calendar year.  Failures are logged and
// retried on the next dashboard view; they never block the page.
func (h *DashboardHandler) ensureCurrentYear(ctx context.Context) {
	year := time.Now().Year()
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.checkedYear == year {
		return
	}
	if err := h.Years.EnsureCurrent(ctx, year); err != nil {
		log.Printf("dashboard: year registry update failed: %v", err)
		return
	}
	h.checkedYear = year
}

func (h *DashboardHandler) Admin(c echo.Context) error      { return h.page(c, "Admin Dashboard") }
func (h *DashboardHandler) Member(c echo.Context) error     { return h.page(c, "Member Dashboard") }
func (h *DashboardHandler) Pastor(c echo.Context) error     { return h.page(c, "Pastor Dashboard") }
func (h *DashboardHandler) Evangelist(c echo.Context) error { return h.page(c, "Evangelist Dashboard") }
func (h *DashboardHandler) Secretary(c echo.Context) error  { return h.page(c, "Secretary Dashboard") }
func (h *DashboardHandler) Accountant(c echo.Context) error { return h.page(c, "Accountant Dashboard") }

func (h *DashboardHandler) page(c echo.Context, title string) error {
	u := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	h.ensureCurrentYear(ctx)

	pic := ""
	if u.ProfilePicture != nil {
		pic = *u.ProfilePicture
	}
	return view.Render(c, http.StatusOK, "dashboard", map[string]interface{}{
		"Title":          title,
		"Username":       u.Username,
		"Role":           u.Role,
		"Occupation":     occupationOf(ctx, h.Members, u),
		"ProfilePicture": pic,
		"Flashes":        mw.TakeFlashes(c),
	})
}
