package app

import (
	"context"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"go-timeclock/internal/middleware"
	"go-timeclock/internal/shared/connection"
	"go-timeclock/internal/tenant"
)

// BuildApp wires infrastructure, middleware and modules onto the router.
// Each API instance serves one tenant shard, resolved once at startup;
// company isolation inside the shard is row-level.
func BuildApp(router *gin.Engine) error {
	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	gormDB, err := resolveShard(redisClient)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(20), 40))

	return registerModules(router, sqlDB, gormDB, redisClient)
}

// resolveShard goes through the tenant router when TENANT is set and
// falls back to the plain DB_* connection for single-shard deployments.
func resolveShard(redisClient *redis.Client) (*gorm.DB, error) {
	if slug := os.Getenv("TENANT"); slug != "" {
		router := tenant.NewResolver(tenant.EnvDirectory(), redisClient)
		return router.Resolve(context.Background(), slug)
	}

	return connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
}
