package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/handler"
	"github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/paths"
)

// RegisterNews registers the public news feed and its interaction
// endpoints.  The feed itself is anonymous and sits behind the Redis
// response cache; liking and commenting require a signed-in user.
func RegisterNews(e *echo.Echo, n *handler.NewsHandler, cache echo.MiddlewareFunc) {
	e.GET(paths.PublicNewsList, n.List, cache)

	g := e.Group("/news", middleware.RequireLogin())
	g.POST("/:id/like/", n.ToggleLike)
	g.POST("/:id/comment/", n.AddComment)
}
