package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/medtrack/medrecord-api/internal/config"
	"github.com/medtrack/medrecord-api/internal/middleware"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

// Registrar is implemented by every entity handler.
type Registrar interface {
	RegisterRoutes(r *gin.RouterGroup)
}

// Handlers collects the entity handlers wired in main.
type Handlers struct {
	Patient      Registrar
	Doctor       Registrar
	Appointment  Registrar
	HealthData   Registrar
	Notification Registrar
	Organ        Registrar
	Analytics    Registrar
}

// New assembles the gin engine: ambient middleware, system endpoints and
// the versioned API. Organ routes sit behind a cache-control group because
// they serve near-static reference data.
func New(cfg *config.Config, log *logger.Logger, db *sqlx.DB, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestLogger(log),
		middleware.CORS(),
		middleware.Metrics(),
		middleware.RateLimit(cfg.Server.RateLimit, cfg.Server.RateBurst),
	)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/readyz", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	h.Patient.RegisterRoutes(api)
	h.Doctor.RegisterRoutes(api)
	h.Appointment.RegisterRoutes(api)
	h.HealthData.RegisterRoutes(api)
	h.Notification.RegisterRoutes(api)
	h.Analytics.RegisterRoutes(api)

	cached := api.Group("", middleware.CacheControl(5*time.Minute))
	h.Organ.RegisterRoutes(cached)

	return engine
}
