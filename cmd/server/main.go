package main // Entry point package

import (
	"log"

	"github.com/gorilla/sessions"
	"github.com/joho/godotenv"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	"github.com/mwakyusa/parish-management/internal/config"
	"github.com/mwakyusa/parish-management/internal/database"
	"github.com/mwakyusa/parish-management/internal/handler"
	"github.com/mwakyusa/parish-management/internal/middleware"
	"github.com/mwakyusa/parish-management/internal/queue"
	"github.com/mwakyusa/parish-management/internal/repository"
	"github.com/mwakyusa/parish-management/internal/router"
	queuepublisher "github.com/mwakyusa/parish-management/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	users := repository.NewUserRepo(db)
	members := repository.NewMemberRepo(db)
	histories := repository.NewLoginHistoryRepo(db)
	years := repository.NewYearRepo(db)
	news := repository.NewNewsRepo(db)

	// Redis backs the public news-feed cache; the server runs fine
	// without it.
	rdb := config.NewRedisClient()
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	e.HideBanner = true
	e.Use(session.Middleware(sessions.NewCookieStore([]byte(cfg.SessionSecret))))
	e.Use(middleware.SessionAuth(cfg.TokenSecret, users))
	e.Use(middleware.TrackLastPath(histories))

	auth := handler.NewAuthHandler(cfg, users, members, histories, queuepublisher.PublishAccountEvent)
	request := handler.NewAccountRequestHandler(cfg, users, members, queuepublisher.PublishAccountEvent)
	reset := handler.NewPasswordResetHandler(cfg, users, members, queuepublisher.PublishAccountEvent)
	profile := handler.NewProfileHandler(cfg, users)
	dashboards := handler.NewDashboardHandler(years, members)
	newsHandler := handler.NewNewsHandler(news)

	router.RegisterRoutes(e, handler.NewHealthHandler(db), "static", cfg.MediaDir)
	router.RegisterAuth(e, auth, request, reset)
	router.RegisterAdmin(e, dashboards, profile)
	router.RegisterMember(e, dashboards, profile)
	router.RegisterNews(e, newsHandler, cacheMW)

	// The account-event consumer keeps its own connection and reconnect
	// loop; it never takes the server down.
	go func() {
		if err := queue.StartAccountConsumer(); err != nil {
			log.Printf("account-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
