package handlers

import (
	"context"
	"time"

	"safetrade/internal/repositories/cache"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const healthTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	cache *cache.CacheService
	log   *zap.Logger
}

func NewHealthHandler(db *gorm.DB, cache *cache.CacheService, log *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, log: log}
}

// Check reports 503 when postgres is unreachable. Redis is optional and only degrades the status.
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), healthTimeout)
	defer cancel()

	status, code := "ok", fiber.StatusOK
	database := "connected"
	if err := h.pingDatabase(ctx); err != nil {
		h.log.Error("Health check: database unreachable", zap.Error(err))
		database, status, code = "disconnected", "unavailable", fiber.StatusServiceUnavailable
	}

	redis := "connected"
	if err := h.cache.HealthCheck(ctx); err != nil {
		h.log.Warn("Health check: redis unreachable", zap.Error(err))
		redis = "disconnected"
		if code == fiber.StatusOK {
			status = "degraded"
		}
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    status,
		"timestamp": time.Now().UTC(),
		"services": fiber.Map{
			"database": database,
			"redis":    redis,
		},
	})
}

// CacheStats exposes the redis pool counters.
func (h *HealthHandler) CacheStats(c *fiber.Ctx) error {
	pool := h.cache.GetStats()
	return c.JSON(fiber.Map{
		"pool_stats": fiber.Map{
			"hits":        pool.Hits,
			"misses":      pool.Misses,
			"timeouts":    pool.Timeouts,
			"total_conns": pool.TotalConns,
			"idle_conns":  pool.IdleConns,
			"stale_conns": pool.StaleConns,
		},
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
