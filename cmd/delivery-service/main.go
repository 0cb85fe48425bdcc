package main

import (
	"os"

	"github.com/gin-gonic/gin"

	"fulfillment/internal/config"
	"fulfillment/internal/delivery/domain"
	deliveryhttp "fulfillment/internal/delivery/http"
	"fulfillment/internal/delivery/optimizer"
	deliverymysql "fulfillment/internal/delivery/repository/mysql"
	"fulfillment/internal/delivery/services"
	"fulfillment/internal/infra"
	inframysql "fulfillment/internal/infra/mysql"
)

func main() {
	logger := infra.NewLogger("delivery-service")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := inframysql.New(cfg.MySQL, &domain.DeliveryRoute{}, &domain.RouteStop{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	repo := deliverymysql.NewRouteRepository(db)
	opt := optimizer.NewClient(cfg.Services.OptimizerURL, cfg.Services.CallTimeout)
	service := services.NewDeliveryService(repo, opt, logger)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	deliveryhttp.NewHandler(service).RegisterRoutes(r)

	logger.Info().Str("port", cfg.HTTP.Port).Msg("starting delivery service")
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
