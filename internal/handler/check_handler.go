package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"checklens/internal/service"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// CheckHandler exposes the check processing pipeline over HTTP.
type CheckHandler struct {
	checks  service.CheckService
	exports service.ExportService
}

// NewCheckHandler creates a CheckHandler.
func NewCheckHandler(checks service.CheckService, exports service.ExportService) *CheckHandler {
	return &CheckHandler{checks: checks, exports: exports}
}

type processRequest struct {
	Image        string `json:"image" binding:"required"`
	ContentType  string `json:"content_type"`
	AnalyzeFraud *bool  `json:"analyze_fraud"`
}

// Process runs a base64-encoded check image through extraction, validation,
// and optional fraud analysis, then stores the result.
// @Summary Process a check image
// @Router /api/v1/checks/process [post]
func (h *CheckHandler) Process(c *gin.Context) {
	var req processRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "image is required and must be a base64 string")
		return
	}

	analyzeFraud := true
	if req.AnalyzeFraud != nil {
		analyzeFraud = *req.AnalyzeFraud
	}

	result, err := h.checks.Process(c.Request.Context(), service.ProcessInput{
		ImageBase64:  req.Image,
		ContentType:  req.ContentType,
		AnalyzeFraud: analyzeFraud,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	OK(c, http.StatusOK, result)
}

// List returns stored check records, newest first.
// @Summary List processed checks
// @Router /api/v1/checks [get]
func (h *CheckHandler) List(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "offset must be a non-negative integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultListLimit)))
	if err != nil || limit < 1 {
		Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "limit must be a positive integer")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	records, total, err := h.checks.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	OKWithMeta(c, http.StatusOK, records, &Meta{Total: total, Offset: offset, Limit: limit})
}

// GetByID returns a single check record.
// @Summary Get a processed check by id
// @Router /api/v1/checks/{id} [get]
func (h *CheckHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "id must be a positive integer")
		return
	}

	record, err := h.checks.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	OK(c, http.StatusOK, record)
}

// Analytics returns aggregate statistics over all stored checks.
// @Summary Aggregate check analytics
// @Router /api/v1/analytics [get]
func (h *CheckHandler) Analytics(c *gin.Context) {
	stats, err := h.checks.Analytics(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}

	OK(c, http.StatusOK, stats)
}

// Export streams all stored checks as a CSV or XLSX download.
// @Summary Export processed checks
// @Router /api/v1/checks/export [get]
func (h *CheckHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	var contentType, ext string
	switch format {
	case service.FormatCSV:
		contentType, ext = "text/csv; charset=utf-8", "csv"
	case service.FormatXLSX:
		contentType, ext = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", "xlsx"
	default:
		Fail(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be csv or xlsx")
		return
	}

	filename := fmt.Sprintf("checks_%s.%s", time.Now().UTC().Format("20060102_150405"), ext)
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.exports.Export(c.Request.Context(), format, c.Writer); err != nil {
		// Headers may already be written; log instead of sending an envelope.
		requestID, _ := c.Get("request_id")
		log.Printf("[%s] export %s failed: %v", requestID, format, err)
		c.Status(http.StatusInternalServerError)
	}
}
