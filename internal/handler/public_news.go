package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	mw "github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/paths"
	"github.com/mwakyusa/parish-management/internal/view"
)

// NewsHandler serves the public news feed and the like/comment
// endpoints behind it.
type NewsHandler struct {
	News NewsStore
}

func NewNewsHandler(news NewsStore) *NewsHandler {
	return &NewsHandler{News: news}
}

// List renders the published news feed.  The route sits behind the
// response cache, so anonymous traffic rarely reaches the database.
func (h *NewsHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()

	items, err := h.News.ListPublic(ctx)
	if err != nil {
		return err
	}
	return view.Render(c, http.StatusOK, "news_list", map[string]interface{}{
		"Items":   items,
		"Flashes": mw.TakeFlashes(c),
	})
}

// ToggleLike flips the caller's like on a news item and reports the
// resulting state.
func (h *NewsHandler) ToggleLike(c echo.Context) error {
	newsID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid news id"})
	}
	u := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	liked, err := h.News.ToggleLike(ctx, newsID, u.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "liked": liked})
}

// AddComment appends a comment and returns to the feed.
func (h *NewsHandler) AddComment(c echo.Context) error {
	newsID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid news id"})
	}
	content := strings.TrimSpace(c.FormValue("content"))
	if content == "" {
		mw.AddFlash(c, "error", "Comment cannot be empty.")
		return c.Redirect(http.StatusFound, paths.PublicNewsList)
	}
	u := mw.CurrentUser(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
	defer cancel()
	if err := h.News.AddComment(ctx, newsID, u.ID, content); err != nil {
		return err
	}
	mw.AddFlash(c, "success", "Comment added.")
	return c.Redirect(http.StatusFound, paths.PublicNewsList)
}
