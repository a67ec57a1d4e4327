package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/scanpoint/attendance-api/internal/service"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
	"github.com/scanpoint/attendance-api/pkg/response"
)

type scanner interface {
	Scan(ctx context.Context, req service.ScanRequest) (*service.ScanResult, error)
}

// ScanHandler exposes the attendance scan entry point.
type ScanHandler struct {
	scans scanner
}

// NewScanHandler constructs a ScanHandler.
func NewScanHandler(scans scanner) *ScanHandler {
	return &ScanHandler{scans: scans}
}

// Scan godoc
// @Summary Mark attendance for a scanned LRN
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body service.ScanRequest true "Scan payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Router /attendance/scan [post]
func (h *ScanHandler) Scan(c *gin.Context) {
	var req service.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.scans.Scan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, statusFor(result.Outcome), result, nil)
}

// statusFor maps terminal scan outcomes to HTTP statuses. AlreadyScanned is a
// normal terminal state, not a failure, and answers 200 with the identity.
func statusFor(outcome service.ScanOutcome) int {
	switch outcome {
	case service.ScanBadFormat:
		return http.StatusBadRequest
	case service.ScanNotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}
