package main

import (
	"context"
	"flag"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/raian-antunes/group-management-platform/internal/config"
	"github.com/raian-antunes/group-management-platform/internal/infra/cache"
	"github.com/raian-antunes/group-management-platform/internal/infra/database"
	"github.com/raian-antunes/group-management-platform/internal/infra/repository"
	"github.com/raian-antunes/group-management-platform/internal/present/rest"
	"github.com/raian-antunes/group-management-platform/internal/present/rest/middleware"
	"github.com/raian-antunes/group-management-platform/internal/service"
	"github.com/raian-antunes/group-management-platform/internal/telemetry"
	"github.com/raian-antunes/group-management-platform/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if conf.Server.EnableTrace {
		shutdown, err := telemetry.Setup(context.Background(), "groupd", conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown(context.Background())
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}

	err = database.MigratePostgres(db)
	if err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)

	var feedCache cache.Cache
	if conf.Server.MemcachedAddr != "" {
		feedCache = cache.NewMemcached(database.NewMemcached(conf.Server.MemcachedAddr))
	} else {
		feedCache = cache.NewLocal()
	}

	intentionRepo := repository.NewIntentionRepository(db)
	inviteRepo := repository.NewInviteRepository(db)
	userRepo := repository.NewUserRepository(db)
	announcementRepo := repository.NewAnnouncementRepository(db)

	authService := service.NewAuthService(conf.Session)
	signalService := service.NewSignalService(rdb)
	rateLimit := service.NewRateLimitService(rdb, 10, time.Minute)

	inviteUC := usecase.NewInviteUsecase(inviteRepo, intentionRepo, conf.Server.BaseURL)
	intentionUC := usecase.NewIntentionUsecase(intentionRepo, inviteUC)
	userUC := usecase.NewUserUsecase(userRepo, inviteUC)
	announcementUC := usecase.NewAnnouncementUsecase(announcementRepo, feedCache, signalService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	e := echo.New()
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("groupd"))
	}
	e.Use(authMiddleware.IdentifySession)
	e.Use(authMiddleware.GuardDashboard)

	handler := rest.NewHandler(
		conf.Session,
		intentionUC,
		inviteUC,
		userUC,
		announcementUC,
		authService,
		rateLimit,
		signalService,
	)
	handler.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(conf.Server.Bind))
}
