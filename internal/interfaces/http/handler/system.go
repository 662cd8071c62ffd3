package handler

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	db        Pinger
	redis     Pinger
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. redis may be nil when the
// in-memory cache is in use.
func NewSystemHandler(name, version string, db, redis Pinger) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		db:        db,
		redis:     redis,
		startTime: time.Now(),
	}
}

// HealthResponse reports the state of the service and its dependencies
// @name HandlerHealthResponse
type HealthResponse struct {
	Status   string `json:"status" example:"healthy"`
	Database string `json:"database" example:"ok"`
	Redis    string `json:"redis" example:"disabled"`
	Time     string `json:"time" example:"2026-01-23T12:00:00Z"`
}

// Health godoc
// @ID           health
// @Summary      Health check
// @Description  Pings the database and Redis. Answers 503 when the database is down.
// @Tags         system
// @Produce      json
// @Success      200 {object} HealthResponse
// @Failure      503 {object} HealthResponse
// @Router       /health [get]
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	log := logger.FromContext(c.Request.Context())

	resp := HealthResponse{
		Status:   "healthy",
		Database: "ok",
		Redis:    "disabled",
		Time:     time.Now().UTC().Format(time.RFC3339),
	}
	status := http.StatusOK

	if err := h.db.Ping(ctx); err != nil {
		log.Warn("Health check failed", zap.String("dependency", "database"), zap.Error(err))
		resp.Status, resp.Database = "unhealthy", "error"
		status = http.StatusServiceUnavailable
	}
	if h.redis != nil {
		resp.Redis = "ok"
		if err := h.redis.Ping(ctx); err != nil {
			// reports and the token blacklist degrade; the API keeps serving
			log.Warn("Health check failed", zap.String("dependency", "redis"), zap.Error(err))
			resp.Redis = "error"
			if status == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}
	c.JSON(status, resp)
}

// SystemInfoResponse represents the system information response
// @name HandlerSystemInfoResponse
type SystemInfoResponse struct {
	Name      string `json:"name" example:"storefront"`
	Version   string `json:"version" example:"1.0.0"`
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"1h30m45s"`
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Get system information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// PingResponse represents the ping response
// @name HandlerPingResponse
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-01-23T12:00:00Z"`
}

// Ping godoc
// @ID           pingSystem
// @Summary      Ping the API
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}
