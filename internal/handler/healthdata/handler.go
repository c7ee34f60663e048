package healthdata

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/service/health"
	"github.com/medtrack/medrecord-api/pkg/httputil"
)

type Handler struct {
	service *health.Service
}

func NewHandler(service *health.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	data := r.Group("/health-data")
	{
		data.POST("", h.Record)
		data.GET("/:id", h.Get)
		data.PUT("/:id", h.Update)
		data.DELETE("/:id", h.Delete)
	}

	patients := r.Group("/patients/:id")
	{
		patients.GET("/health-data", h.History)
		patients.GET("/health-status", h.Status)
		patients.GET("/health-trends", h.Trends)
		patients.GET("/health-alerts", h.Alerts)
		patients.POST("/simulate-health-data", h.Simulate)
	}
}

func (h *Handler) Record(c *gin.Context) {
	var req model.CreateHealthReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	reading, err := h.service.RecordReading(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, reading)
}

func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	reading, err := h.service.GetReading(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, reading)
}

func (h *Handler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	var req model.UpdateHealthReadingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	reading, err := h.service.UpdateReading(c.Request.Context(), id, &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, reading)
}

func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	if err := h.service.DeleteReading(c.Request.Context(), id); err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"deleted": true})
}

func (h *Handler) History(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))

	readings, err := h.service.History(c.Request.Context(), id, days, limit)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, readings)
}

func (h *Handler) Status(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	status, err := h.service.Status(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, status)
}

func (h *Handler) Trends(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}
	kind, err := model.ParseMetricKind(c.Query("metric"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	points, err := h.service.Trends(c.Request.Context(), id, kind, days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, gin.H{"metric": kind, "unit": kind.Unit(), "points": points})
}

func (h *Handler) Alerts(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	alerts, err := h.service.Alerts(c.Request.Context(), id, days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, alerts)
}

func (h *Handler) Simulate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	created, err := h.service.Simulate(c.Request.Context(), id, days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithCreated(c, gin.H{"created": created})
}
