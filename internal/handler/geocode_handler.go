package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapsmith/internal/service"
)

// GeocodeHandler handles coordinate resolution endpoints.
type GeocodeHandler struct {
	geocodeService service.GeocodeService
}

// NewGeocodeHandler creates a new GeocodeHandler.
func NewGeocodeHandler(geocodeService service.GeocodeService) *GeocodeHandler {
	return &GeocodeHandler{geocodeService: geocodeService}
}

// RunBatch handles POST /api/v1/sessions/:id/geocode
func (h *GeocodeHandler) RunBatch(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	result, err := h.geocodeService.RunBatch(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// UpdateCoordinates handles PUT /api/v1/sessions/:id/places/:index/coordinates
func (h *GeocodeHandler) UpdateCoordinates(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	idx, ok := placeIndex(c)
	if !ok {
		return
	}

	var req service.CoordinateUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "lat and lng are required")
		return
	}

	doc, err := h.geocodeService.UpdateCoordinates(id, idx, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Overview handles GET /api/v1/sessions/:id/coordinates/status
func (h *GeocodeHandler) Overview(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	overview, err := h.geocodeService.Overview(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"places": overview})
}
