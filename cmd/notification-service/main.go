package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/config"
	"fulfillment/internal/event"
	"fulfillment/internal/infra"
	inframysql "fulfillment/internal/infra/mysql"
	"fulfillment/internal/notification/channel"
	"fulfillment/internal/notification/domain"
	notificationhttp "fulfillment/internal/notification/http"
	notificationmysql "fulfillment/internal/notification/repository/mysql"
	"fulfillment/internal/notification/services"
)

func main() {
	logger := infra.NewLogger("notification-service")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := inframysql.New(cfg.MySQL, &domain.Notification{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	repo := notificationmysql.NewNotificationRepository(db)
	sender := channel.NewWebhookSender(cfg.Notify.GatewayURL, cfg.Services.CallTimeout)
	service := services.NewNotificationService(repo, sender,
		cfg.Notify.MaxAttempts, cfg.Notify.RetryBase, cfg.Notify.RetryCap, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dispatcher := services.NewDispatcher(service, cfg.Notify.PollInterval, cfg.Notify.BatchSize, logger)
	go func() {
		if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("dispatcher stopped")
		}
	}()

	eventHandler := services.NewOrderEventHandler(service, logger)
	consumer, err := event.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange,
		"notification.order-events", eventHandler.Bindings(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init consumer")
	}
	defer consumer.Close()
	go func() {
		if err := consumer.Run(ctx, eventHandler.Handle); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("order event consumer stopped")
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	notificationhttp.NewHandler(service).RegisterRoutes(r)

	logger.Info().Str("port", cfg.HTTP.Port).Msg("starting notification service")
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
