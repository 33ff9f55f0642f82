package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// HealthHandler reports service and dependency health
type HealthHandler struct {
	db         *mongo.Database
	cache      *redis.Client
	modelReady bool
	version    string
}

// NewHealthHandler creates a new health handler. cache may be nil when
// Redis is not configured.
func NewHealthHandler(db *mongo.Database, cache *redis.Client, modelReady bool, version string) *HealthHandler {
	return &HealthHandler{db: db, cache: cache, modelReady: modelReady, version: version}
}

// Health handles GET /health. It always answers 200 with per-dependency
// statuses so orchestrators can keep the process alive while dependencies
// recover.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	components := gin.H{
		"database": h.databaseStatus(ctx),
		"cache":    h.cacheStatus(ctx),
		"model":    statusOf(h.modelReady),
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ok",
		"version":    h.version,
		"components": components,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /ready. It answers 503 until the database is reachable
// and the classification model is loaded.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbUp := h.databaseStatus(ctx) == "up"
	if !dbUp || !h.modelReady {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unavailable",
			"database": statusOf(dbUp),
			"model":    statusOf(h.modelReady),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (h *HealthHandler) databaseStatus(ctx context.Context) string {
	if h.db == nil {
		return "down"
	}
	if err := h.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		return "down"
	}
	return "up"
}

func (h *HealthHandler) cacheStatus(ctx context.Context) string {
	if h.cache == nil {
		return "disabled"
	}
	if err := h.cache.Ping(ctx).Err(); err != nil {
		return "down"
	}
	return "up"
}

func statusOf(up bool) string {
	if up {
		return "up"
	}
	return "down"
}
