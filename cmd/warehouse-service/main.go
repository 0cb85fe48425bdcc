package main

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/config"
	"fulfillment/internal/event"
	"fulfillment/internal/infra"
	inframysql "fulfillment/internal/infra/mysql"
	"fulfillment/internal/warehouse/domain"
	warehousehttp "fulfillment/internal/warehouse/http"
	warehousemysql "fulfillment/internal/warehouse/repository/mysql"
	"fulfillment/internal/warehouse/services"
)

func main() {
	logger := infra.NewLogger("warehouse-service")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := inframysql.New(cfg.MySQL, &domain.PickList{}, &domain.PickListItem{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	repo := warehousemysql.NewPickListRepository(db)
	service := services.NewWarehouseService(repo, logger)

	eventHandler := services.NewOrderEventHandler(service, logger)
	consumer, err := event.NewConsumer(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange,
		"warehouse.order-events", eventHandler.Bindings(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init consumer")
	}
	defer consumer.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		if err := consumer.Run(ctx, eventHandler.Handle); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("order event consumer stopped")
		}
	}()

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	warehousehttp.NewHandler(service).RegisterRoutes(r)

	logger.Info().Str("port", cfg.HTTP.Port).Msg("starting warehouse service")
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
