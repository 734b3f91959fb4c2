package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trainops/attendance-api/internal/service"
	"github.com/trainops/attendance-api/pkg/response"
)

// StatusHandler exposes the attendance status matrix and its exports.
type StatusHandler struct {
	status *service.StatusService
}

// NewStatusHandler constructs StatusHandler.
func NewStatusHandler(status *service.StatusService) *StatusHandler {
	return &StatusHandler{status: status}
}

// Matrix godoc
// @Summary Attendance status matrix
// @Description Participant × date matrix of P/A/X marks derived from stored records
// @Tags Status
// @Produce json
// @Param id path string true "Training ID"
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trainings/{id}/status [get]
func (h *StatusHandler) Matrix(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	matrix, err := h.status.Build(c.Request.Context(), c.Param("id"), from, to)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, matrix, nil)
}

// Export godoc
// @Summary Export the status matrix
// @Description Download the matrix as csv, xlsx or pdf
// @Tags Status
// @Produce application/octet-stream
// @Param id path string true "Training ID"
// @Param format query string false "csv, xlsx or pdf" default(xlsx)
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD)"
// @Success 200 {file} binary
// @Failure 404 {object} response.Envelope
// @Router /trainings/{id}/status/export [get]
func (h *StatusHandler) Export(c *gin.Context) {
	from, to, err := parseDateRange(c)
	if err != nil {
		response.Error(c, err)
		return
	}
	format := service.StatusFormat(c.DefaultQuery("format", string(service.StatusFormatXLSX)))
	result, err := h.status.Export(c.Request.Context(), c.Param("id"), from, to, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", result.Filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}
