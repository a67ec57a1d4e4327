package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scanpoint/attendance-api/internal/models"
	"github.com/scanpoint/attendance-api/internal/service"
	appErrors "github.com/scanpoint/attendance-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockScanner struct {
	result  *service.ScanResult
	err     error
	lastReq service.ScanRequest
}

func (m *mockScanner) Scan(ctx context.Context, req service.ScanRequest) (*service.ScanResult, error) {
	m.lastReq = req
	return m.result, m.err
}

func scanRouter(scans scanner) *gin.Engine {
	router := gin.New()
	router.POST("/attendance/scan", NewScanHandler(scans).Scan)
	return router
}

func postScan(t *testing.T, router *gin.Engine, payload string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/attendance/scan", bytes.NewBufferString(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestScanHandlerCompleted(t *testing.T) {
	scans := &mockScanner{result: &service.ScanResult{
		Outcome: service.ScanCompleted,
		Message: "Juan Dela Cruz marked as present successfully!",
		Student: &models.StudentIdentity{LRN: "123456789012", Name: "Juan Dela Cruz", Grade: "7", Section: "A"},
	}}
	resp := postScan(t, scanRouter(scans), `{"lrn":"123456789012"}`)

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"outcome":"completed"`)
	assert.Contains(t, resp.Body.String(), "Juan Dela Cruz")
	assert.Equal(t, "123456789012", scans.lastReq.LRN)
}

func TestScanHandlerBadFormat(t *testing.T) {
	scans := &mockScanner{result: &service.ScanResult{
		Outcome: service.ScanBadFormat,
		Message: "Invalid LRN format. Must be 12 digits.",
	}}
	resp := postScan(t, scanRouter(scans), `{"lrn":"12345"}`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Contains(t, resp.Body.String(), "Invalid LRN format")
}

func TestScanHandlerNotFound(t *testing.T) {
	scans := &mockScanner{result: &service.ScanResult{
		Outcome: service.ScanNotFound,
		Message: "Student not found. Please check the LRN.",
	}}
	resp := postScan(t, scanRouter(scans), `{"lrn":"999999999999"}`)

	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestScanHandlerAlreadyScannedAnswers200(t *testing.T) {
	scans := &mockScanner{result: &service.ScanResult{
		Outcome: service.ScanAlreadyScanned,
		Message: "Juan Dela Cruz has already been marked present today.",
		Student: &models.StudentIdentity{LRN: "123456789012", Name: "Juan Dela Cruz"},
	}}
	resp := postScan(t, scanRouter(scans), `{"lrn":"123456789012"}`)

	require.Equal(t, http.StatusOK, resp.Code)

	var envelope struct {
		Data service.ScanResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Equal(t, service.ScanAlreadyScanned, envelope.Data.Outcome)
	require.NotNil(t, envelope.Data.Student)
	assert.Equal(t, "Juan Dela Cruz", envelope.Data.Student.Name)
}

func TestScanHandlerSetupIncomplete(t *testing.T) {
	scans := &mockScanner{err: appErrors.Clone(appErrors.ErrSetupIncomplete, "")}
	resp := postScan(t, scanRouter(scans), `{"lrn":"123456789012"}`)

	require.Equal(t, http.StatusServiceUnavailable, resp.Code)
	assert.Contains(t, resp.Body.String(), "001_create_schema.sql")
}

func TestScanHandlerMalformedBody(t *testing.T) {
	resp := postScan(t, scanRouter(&mockScanner{}), `{"lrn":`)

	require.Equal(t, http.StatusBadRequest, resp.Code)
}
