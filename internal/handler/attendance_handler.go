package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/internal/service"
	"github.com/scanpoint/attendance-api/pkg/response"
)

// AttendanceHandler exposes attendance listing endpoints.
type AttendanceHandler struct {
	attendance *service.AttendanceService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(attendance *service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendance: attendance}
}

// List godoc
// @Summary List attendance records
// @Tags Attendance
// @Produce json
// @Param date query string false "Calendar day (YYYY-MM-DD)"
// @Param grade query string false "Filter by grade"
// @Param section query string false "Filter by section"
// @Param studentName query string false "Filter by student name substring"
// @Param limit query int false "Max rows"
// @Success 200 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /attendance [get]
func (h *AttendanceHandler) List(c *gin.Context) {
	filter := models.AttendanceFilter{
		Grade:       c.Query("grade"),
		Section:     c.Query("section"),
		StudentName: strings.TrimSpace(c.Query("studentName")),
	}
	if raw := c.Query("date"); raw != "" {
		date, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			response.Error(c, invalidDateError(raw))
			return
		}
		filter.Date = &date
	}
	if raw := c.Query("limit"); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}

	records, err := h.attendance.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, records, nil)
}
