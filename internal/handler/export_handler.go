package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"mapsmith/internal/export"
	"mapsmith/internal/service"
)

// ExportHandler handles download and archive endpoints.
type ExportHandler struct {
	exportService service.ExportService
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func sendArtifact(c *gin.Context, artifact service.ExportArtifact) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}

// ExportJSON handles GET /api/v1/sessions/:id/export/json
// Query: remove_empty, remove_zero_coords, data_only (all boolean).
func (h *ExportHandler) ExportJSON(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	opts := export.Options{
		RemoveEmpty:      c.Query("remove_empty") == "true",
		RemoveZeroCoords: c.Query("remove_zero_coords") == "true",
	}
	dataOnly := c.Query("data_only") == "true"

	artifact, err := h.exportService.ExportJSON(id, opts, dataOnly)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, artifact)
}

// ExportCSV handles GET /api/v1/sessions/:id/export/csv
func (h *ExportHandler) ExportCSV(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	artifact, err := h.exportService.ExportCSV(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, artifact)
}

// ExportXLSX handles GET /api/v1/sessions/:id/export/xlsx
func (h *ExportHandler) ExportXLSX(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	artifact, err := h.exportService.ExportXLSX(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, artifact)
}

// MapView handles GET /api/v1/sessions/:id/export/mapview
func (h *ExportHandler) MapView(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	view, err := h.exportService.MapView(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, view)
}

// Archive handles POST /api/v1/sessions/:id/export/archive
func (h *ExportHandler) Archive(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.ArchiveInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "format must be one of json, csv, xlsx")
		return
	}

	result, err := h.exportService.Archive(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
