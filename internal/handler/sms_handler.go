package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/scanpoint/attendance-api/internal/service"
	"github.com/scanpoint/attendance-api/pkg/config"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
	"github.com/scanpoint/attendance-api/pkg/response"
)

// SMSHandler exposes operator endpoints for the notification transport.
type SMSHandler struct {
	cfg      config.SMSConfig
	notifier *service.NotifierService
}

// NewSMSHandler constructs SMSHandler.
func NewSMSHandler(cfg config.SMSConfig, notifier *service.NotifierService) *SMSHandler {
	return &SMSHandler{cfg: cfg, notifier: notifier}
}

// Config godoc
// @Summary Show SMS configuration with masked credentials
// @Tags SMS
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /sms/config [get]
func (h *SMSHandler) Config(c *gin.Context) {
	response.JSON(c, http.StatusOK, gin.H{
		"provider":    h.cfg.Provider,
		"enabled":     h.cfg.Enabled,
		"sender_name": h.cfg.SenderName,
		"api_key":     mask(h.cfg.APIKey),
	}, nil)
}

type testSendRequest struct {
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// Test godoc
// @Summary Send a test notification
// @Tags SMS
// @Accept json
// @Produce json
// @Param payload body testSendRequest true "Destination"
// @Success 200 {object} response.Envelope
// @Router /sms/test [post]
func (h *SMSHandler) Test(c *gin.Context) {
	var req testSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "phone number is required"))
		return
	}

	result, err := h.notifier.TestSend(c.Request.Context(), req.PhoneNumber)
	if err != nil {
		response.JSON(c, http.StatusOK, gin.H{"delivered": false, "error": err.Error()}, nil)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"delivered": true, "message_id": result.MessageID}, nil)
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}
