package main

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"fulfillment/internal/config"
	"fulfillment/internal/infra"
	inframysql "fulfillment/internal/infra/mysql"
	"fulfillment/internal/inventory/domain"
	inventoryhttp "fulfillment/internal/inventory/http"
	inventorymysql "fulfillment/internal/inventory/repository/mysql"
	"fulfillment/internal/inventory/services"
)

func main() {
	logger := infra.NewLogger("inventory-service")

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := inframysql.New(cfg.MySQL, &domain.Product{}, &domain.StockMovement{})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mysql")
	}

	repo := inventorymysql.NewProductRepository(db)
	service := services.NewInventoryService(repo, logger)

	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			DB:           cfg.Redis.DB,
			PoolSize:     100,
			MinIdleConns: 10,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		service.SetRedisClient(redisClient)
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	inventoryhttp.NewHandler(service).RegisterRoutes(r)

	logger.Info().Str("port", cfg.HTTP.Port).Msg("starting inventory service")
	if err := r.Run(":" + cfg.HTTP.Port); err != nil {
		logger.Fatal().Err(err).Msg("server stopped")
	}
}
