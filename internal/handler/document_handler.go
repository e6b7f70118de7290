package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mapsmith/internal/domain"
	"mapsmith/internal/service"
)

// DocumentHandler handles structuring, AI edits, the edit lifecycle, the raw
// JSON editor, metadata and place CRUD.
type DocumentHandler struct {
	documentService service.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// placeIndex parses the :index path parameter.
func placeIndex(c *gin.Context) (int, bool) {
	idx, err := strconv.Atoi(c.Param("index"))
	if err != nil || idx < 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_INDEX", "invalid place index")
		return 0, false
	}
	return idx, true
}

// Structure handles POST /api/v1/sessions/:id/structure
func (h *DocumentHandler) Structure(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		CustomPrompt string `json:"custom_prompt"`
	}
	// Body is optional.
	_ = c.ShouldBindJSON(&req)

	doc, err := h.documentService.Structure(c.Request.Context(), id, req.CustomPrompt)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// AIEdit handles POST /api/v1/sessions/:id/edit/ai
func (h *DocumentHandler) AIEdit(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Instruction string `json:"instruction" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "instruction is required")
		return
	}

	doc, err := h.documentService.AIEdit(c.Request.Context(), id, req.Instruction)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}

// StartEditing handles POST /api/v1/sessions/:id/edit/start
func (h *DocumentHandler) StartEditing(c *gin.Context) {
	h.editLifecycle(c, h.documentService.StartEditing)
}

// ApplyEdits handles POST /api/v1/sessions/:id/edit/apply
func (h *DocumentHandler) ApplyEdits(c *gin.Context) {
	h.editLifecycle(c, h.documentService.ApplyEdits)
}

// DiscardEdits handles POST /api/v1/sessions/:id/edit/discard
func (h *DocumentHandler) DiscardEdits(c *gin.Context) {
	h.editLifecycle(c, h.documentService.DiscardEdits)
}

func (h *DocumentHandler) editLifecycle(c *gin.Context, op func(id uuid.UUID) (domain.Session, error)) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	sess, err := op(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, sess)
}

// GetDocument handles GET /api/v1/sessions/:id/document
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	doc, err := h.documentService.GetDocument(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// PutDocument handles PUT /api/v1/sessions/:id/document — the raw JSON
// editor write path; the body is the document JSON.
func (h *DocumentHandler) PutDocument(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must hold the document JSON")
		return
	}

	doc, err := h.documentService.PutDocument(id, raw)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Validate handles GET /api/v1/sessions/:id/document/validate
func (h *DocumentHandler) Validate(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	issues, err := h.documentService.Validate(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"valid": len(issues) == 0, "issues": issues})
}

// GetInfo handles GET /api/v1/sessions/:id/info
func (h *DocumentHandler) GetInfo(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	info, err := h.documentService.GetInfo(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, info)
}

// UpdateInfo handles PUT /api/v1/sessions/:id/info
func (h *DocumentHandler) UpdateInfo(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.InfoUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid info payload")
		return
	}

	info, err := h.documentService.UpdateInfo(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, info)
}

// Suggest handles GET /api/v1/sessions/:id/info/suggest
func (h *DocumentHandler) Suggest(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	suggestions, err := h.documentService.Suggest(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, suggestions)
}

// Stats handles GET /api/v1/sessions/:id/stats
func (h *DocumentHandler) Stats(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	stats, err := h.documentService.Stats(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, stats)
}

// AddPlace handles POST /api/v1/sessions/:id/places
func (h *DocumentHandler) AddPlace(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var place domain.Place
	if err := c.ShouldBindJSON(&place); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid place payload")
		return
	}

	doc, err := h.documentService.AddPlace(id, place)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// UpdatePlace handles PUT /api/v1/sessions/:id/places/:index
func (h *DocumentHandler) UpdatePlace(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	idx, ok := placeIndex(c)
	if !ok {
		return
	}

	var place domain.Place
	if err := c.ShouldBindJSON(&place); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid place payload")
		return
	}

	doc, err := h.documentService.UpdatePlace(id, idx, place)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// RemovePlace handles DELETE /api/v1/sessions/:id/places/:index
func (h *DocumentHandler) RemovePlace(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}
	idx, ok := placeIndex(c)
	if !ok {
		return
	}

	doc, err := h.documentService.RemovePlace(id, idx)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}
