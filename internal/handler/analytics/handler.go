package analytics

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/service/analytics"
	"github.com/medtrack/medrecord-api/pkg/httputil"
)

type Handler struct {
	service *analytics.Service
}

func NewHandler(service *analytics.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	group := r.Group("/analytics")
	{
		group.GET("/dashboard", h.Dashboard)
		group.GET("/critical-alerts", h.CriticalAlerts)
		group.GET("/population", h.Population)
		group.GET("/bookings", h.Bookings)
		group.GET("/patients/:id", h.PatientAnalytics)
		group.GET("/patients/:id/risk", h.RiskAssessment)
		group.GET("/trends/:metric", h.MetricTrends)
	}
}

func (h *Handler) PatientAnalytics(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	report, err := h.service.PatientAnalytics(c.Request.Context(), id, days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}

func (h *Handler) RiskAssessment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithValidationError(c, err)
		return
	}

	assessment, err := h.service.RiskAssessment(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, assessment)
}

func (h *Handler) MetricTrends(c *gin.Context) {
	kind := model.MetricKind(c.Param("metric"))
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	var patientID *uuid.UUID
	if raw := c.Query("patient_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithValidationError(c, err)
			return
		}
		patientID = &id
	}

	report, err := h.service.MetricTrendReport(c.Request.Context(), kind, days, patientID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, report)
}

func (h *Handler) Dashboard(c *gin.Context) {
	overview, err := h.service.DashboardOverview(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, overview)
}

func (h *Handler) CriticalAlerts(c *gin.Context) {
	hours, _ := strconv.Atoi(c.DefaultQuery("hours", "24"))

	alerts, err := h.service.CriticalAlerts(c.Request.Context(), hours)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, alerts)
}

func (h *Handler) Population(c *gin.Context) {
	stats, err := h.service.PopulationStatistics(c.Request.Context())
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}

func (h *Handler) Bookings(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))

	stats, err := h.service.BookingStatistics(c.Request.Context(), days)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}
	httputil.RespondWithSuccess(c, stats)
}
