package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"todohub/internal/adapter/database"
	"todohub/internal/adapter/database/repository"
	httpadapter "todohub/internal/adapter/http"
	"todohub/internal/adapter/http/handler"
	"todohub/internal/adapter/notification"
	"todohub/internal/adapter/ws"
	"todohub/internal/core/service"
	"todohub/internal/worker"
	"todohub/pkg/auth"
	"todohub/pkg/config"
	"todohub/pkg/metrics"
)

func main() {
	cfg := config.Load()

	logger := newLogger(cfg)

	db, err := database.Open(database.Config{
		Driver:         cfg.DatabaseDriver,
		DSN:            cfg.DatabaseDSN,
		MigrationsPath: cfg.MigrationsPath,
		LogQueries:     cfg.LogQueries,
	}, logger)

	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}

	defer db.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	appMetrics := metrics.NewAppMetrics(registry)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appMetrics.StartSystemMetrics(ctx.Done())

	hub := ws.NewHub(logger, appMetrics)
	go hub.Run(ctx.Done())

	todoRepo := repository.NewTodoRepository(db)
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	tagRepo := repository.NewTagRepository(db)
	shareRepo := repository.NewShareRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	presetRepo := repository.NewPresetRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	jwt := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)

	todoService := service.NewTodoService(todoRepo, categoryRepo, tagRepo, logger)
	userService := service.NewUserService(userRepo, refreshRepo, jwt, logger)
	sharingService := service.NewSharingService(todoRepo, userRepo, shareRepo, activityRepo, hub, logger)
	commentService := service.NewCommentService(commentRepo, todoRepo, sharingService, logger)
	labelService := service.NewLabelService(categoryRepo, tagRepo, logger)
	presetService := service.NewPresetService(presetRepo, todoService, logger)

	sender := notification.NewLogSender(logger, hub)
	poller := worker.NewReminderPoller(todoRepo, userRepo, sender, logger, appMetrics, cfg.ReminderInterval)
	go poller.Run(ctx)

	router := httpadapter.NewRouter(cfg, jwt, hub, httpadapter.Handlers{
		Auth:    handler.NewAuthHandler(userService, logger),
		User:    handler.NewUserHandler(userService),
		Todo:    handler.NewTodoHandler(todoService, logger, appMetrics),
		Share:   handler.NewShareHandler(sharingService, logger, appMetrics),
		Comment: handler.NewCommentHandler(commentService),
		Label:   handler.NewLabelHandler(labelService),
		Preset:  handler.NewPresetHandler(presetService),
	}, logger, appMetrics, registry)

	server := httpadapter.NewServer(cfg.Port, router, logger)

	go func() {
		if err := server.Start(); err != nil {
			logger.Error().Err(err).Msg("http server failed")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("shutdown failed")
	}
}

func newLogger(cfg *config.AppConfig) zerolog.Logger {
	level := zerolog.InfoLevel

	if cfg.Environment == "development" {
		level = zerolog.DebugLevel
	}

	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}
