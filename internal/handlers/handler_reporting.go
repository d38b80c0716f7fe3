package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/dto"
	"github.com/sahelexpress/colis_backend/internal/middleware"
)

// reportingHandler handles HTTP requests related to reconciliation reports
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

// newReportingHandler creates a new reportingHandler
func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reconciliation reports
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reportingGroup := rg.Group("/reports")
	{
		reportingGroup.GET("/point-de-caisse", h.getPointDeCaisse)
		reportingGroup.GET("/grandes-lignes", h.getGrandesLignes)
		reportingGroup.GET("/reconciliation-agences", h.getAgencyReconciliation)
	}
}

const queryDateLayout = "2006-01-02"

// parseDateQuery reads a YYYY-MM-DD query parameter, falling back to the
// given default when absent. Reports operate on dates, not instants.
func parseDateQuery(c *gin.Context, name string, fallback time.Time) (time.Time, bool) {
	raw := c.DefaultQuery(name, fallback.Format(queryDateLayout))
	parsed, err := time.Parse(queryDateLayout, raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " date format. Use YYYY-MM-DD"})
		return time.Time{}, false
	}
	return parsed, true
}

// getPointDeCaisse godoc
// @Summary Daily close of a register
// @Description Totals a register's inflows and outflows for one day and reports its running balance
// @Tags reports
// @Produce json
// @Param registerID query string true "Register ID"
// @Param day query string false "Report day (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.PointDeCaisseResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/point-de-caisse [get]
func (h *reportingHandler) getPointDeCaisse(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	registerID := c.Query("registerID")
	if registerID == "" {
		logger.Warn("Register ID missing for point de caisse")
		c.JSON(http.StatusBadRequest, gin.H{"error": "registerID query parameter required"})
		return
	}

	day, ok := parseDateQuery(c, "day", time.Now())
	if !ok {
		return
	}

	logger = logger.With(slog.String("register_id", registerID), slog.String("day", day.Format(queryDateLayout)))
	logger.Info("Received request for point de caisse")

	report, err := h.reportingService.PointDeCaisse(c.Request.Context(), registerID, day)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger.Info("Point de caisse generated", slog.Int("movement_count", report.MovementCount))
	c.JSON(http.StatusOK, dto.ToPointDeCaisseResponse(report))
}

// getGrandesLignes godoc
// @Summary Period summary of a register
// @Description Totals a register's movements per kind over a date range, with opening and closing balances
// @Tags reports
// @Produce json
// @Param registerID query string true "Register ID"
// @Param from query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.GrandesLignesResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Register not found"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/grandes-lignes [get]
func (h *reportingHandler) getGrandesLignes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	registerID := c.Query("registerID")
	if registerID == "" {
		logger.Warn("Register ID missing for grandes lignes")
		c.JSON(http.StatusBadRequest, gin.H{"error": "registerID query parameter required"})
		return
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	from, ok := parseDateQuery(c, "from", firstOfMonth)
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", now)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("register_id", registerID),
		slog.String("from", from.Format(queryDateLayout)),
		slog.String("to", to.Format(queryDateLayout)),
	)
	logger.Info("Received request for grandes lignes")

	report, err := h.reportingService.GrandesLignes(c.Request.Context(), registerID, from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger.Info("Grandes lignes generated")
	c.JSON(http.StatusOK, dto.ToGrandesLignesResponse(report))
}

// getAgencyReconciliation godoc
// @Summary Agency payment reconciliation
// @Description Groups validated payments by agency over a date range
// @Tags reports
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)" default(first day of current month)
// @Param to query string false "End date (YYYY-MM-DD)" default(current date)
// @Success 200 {object} dto.AgencyReconciliationResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate report"
// @Security BearerAuth
// @Router /reports/reconciliation-agences [get]
func (h *reportingHandler) getAgencyReconciliation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	from, ok := parseDateQuery(c, "from", firstOfMonth)
	if !ok {
		return
	}
	to, ok := parseDateQuery(c, "to", now)
	if !ok {
		return
	}

	logger = logger.With(
		slog.String("from", from.Format(queryDateLayout)),
		slog.String("to", to.Format(queryDateLayout)),
	)
	logger.Info("Received request for agency reconciliation")

	report, err := h.reportingService.AgencyReconciliation(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, logger, err, "Failed to generate report")
		return
	}

	logger.Info("Agency reconciliation generated", slog.Int("agency_count", len(report.Rows)))
	c.JSON(http.StatusOK, dto.ToAgencyReconciliationResponse(report))
}
