package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/internal/service"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
	"github.com/scanpoint/attendance-api/pkg/response"
)

// ReportHandler exposes the read-only reporting surface.
type ReportHandler struct {
	reports *service.ReportService
}

// NewReportHandler constructs ReportHandler.
func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

func invalidDateError(raw string) error {
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
}

func parseDateQuery(c *gin.Context, key string) (time.Time, bool, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Time{}, false, nil
	}
	date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, false, invalidDateError(raw)
	}
	return date, true, nil
}

// Stats godoc
// @Summary Attendance stats for one day
// @Tags Reports
// @Produce json
// @Param date query string false "Calendar day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	date, _, err := parseDateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	stats, err := h.reports.Stats(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// ByGrade godoc
// @Summary Per-grade attendance for one day
// @Tags Reports
// @Produce json
// @Param date query string false "Calendar day (YYYY-MM-DD), defaults to today"
// @Success 200 {object} response.Envelope
// @Router /reports/by-grade [get]
func (h *ReportHandler) ByGrade(c *gin.Context) {
	date, _, err := parseDateQuery(c, "date")
	if err != nil {
		response.Error(c, err)
		return
	}
	rows, err := h.reports.ByGrade(c.Request.Context(), date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rows, nil)
}

// Daily godoc
// @Summary Recent-days attendance trend
// @Tags Reports
// @Produce json
// @Param days query int false "Days of history"
// @Success 200 {object} response.Envelope
// @Router /reports/daily [get]
func (h *ReportHandler) Daily(c *gin.Context) {
	days := 0
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			days = parsed
		}
	}
	trend, err := h.reports.Daily(c.Request.Context(), days)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, trend, nil)
}

// Export godoc
// @Summary Export filtered attendance as CSV or PDF
// @Tags Reports
// @Produce text/csv
// @Param dateFrom query string false "Range start (YYYY-MM-DD)"
// @Param dateTo query string false "Range end (YYYY-MM-DD)"
// @Param grade query string false "Filter by grade"
// @Param section query string false "Filter by section"
// @Param format query string false "csv (default) or pdf"
// @Success 200 {file} file
// @Router /reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	filter := models.AttendanceFilter{
		Grade:   c.Query("grade"),
		Section: c.Query("section"),
	}
	if from, ok, err := parseDateQuery(c, "dateFrom"); err != nil {
		response.Error(c, err)
		return
	} else if ok {
		filter.DateFrom = &from
	}
	if to, ok, err := parseDateQuery(c, "dateTo"); err != nil {
		response.Error(c, err)
		return
	} else if ok {
		filter.DateTo = &to
	}

	stamp := time.Now().Format("2006-01-02")
	if c.DefaultQuery("format", "csv") == "pdf" {
		payload, err := h.reports.ExportPDF(c.Request.Context(), filter)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-report-%s.pdf"`, stamp))
		c.Data(http.StatusOK, "application/pdf", payload)
		return
	}

	payload, err := h.reports.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-report-%s.csv"`, stamp))
	c.Data(http.StatusOK, "text/csv", payload)
}
