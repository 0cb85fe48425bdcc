package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"fulfillment/internal/config"
	"fulfillment/internal/event"
	"fulfillment/internal/infra"
	inframysql "fulfillment/internal/infra/mysql"
	"fulfillment/internal/inventory"
	"fulfillment/internal/order/domain"
	orderhttp "fulfillment/internal/order/http"
	ordermysql "fulfillment/internal/order/repository/mysql"
	"fulfillment/internal/order/services"
)

func main() {
	logger := infra.NewLogger("order-service")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := inframysql.New(cfg.MySQL, &domain.Order{}, &domain.OrderItem{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	taxRate, err := decimal.NewFromString(cfg.Order.TaxRate)
	if err != nil {
		logger.Fatal().Err(err).Str("tax_rate", cfg.Order.TaxRate).Msg("invalid tax rate")
	}

	publisher, err := event.NewPublisher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Exchange, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init publisher")
	}
	defer publisher.Close()

	repo := ordermysql.NewOrderRepository(db)
	gateway := inventory.NewClient(cfg.Services.InventoryURL, cfg.Services.CallTimeout)
	service := services.NewOrderService(repo, gateway, publisher, taxRate, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	orderhttp.NewHandler(service).RegisterRoutes(r)

	logger.Info().Str("port", cfg.HTTP.Port).Msg("starting order service")
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
