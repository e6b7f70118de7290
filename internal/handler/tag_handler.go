package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"mapsmith/internal/service"
)

// TagHandler handles tag management endpoints.
type TagHandler struct {
	tagService service.TagService
}

// NewTagHandler creates a new TagHandler.
func NewTagHandler(tagService service.TagService) *TagHandler {
	return &TagHandler{tagService: tagService}
}

// List handles GET /api/v1/sessions/:id/tags
func (h *TagHandler) List(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	tags, err := h.tagService.ListTags(id)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"tags": tags})
}

// Add handles POST /api/v1/sessions/:id/tags/add
func (h *TagHandler) Add(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.TagBatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "tags are required")
		return
	}

	doc, err := h.tagService.AddTags(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Remove handles POST /api/v1/sessions/:id/tags/remove
func (h *TagHandler) Remove(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.TagBatchInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "tags are required")
		return
	}

	doc, err := h.tagService.RemoveTags(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Rename handles POST /api/v1/sessions/:id/tags/rename
func (h *TagHandler) Rename(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.TagRenameInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "from and to are required")
		return
	}

	doc, err := h.tagService.RenameTag(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// UpdateFilters handles PUT /api/v1/sessions/:id/filters
func (h *TagHandler) UpdateFilters(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req service.FilterUpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid filter payload")
		return
	}

	filter, err := h.tagService.UpdateFilters(id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, filter)
}

// AIEdit handles POST /api/v1/sessions/:id/tags/ai
func (h *TagHandler) AIEdit(c *gin.Context) {
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

	doc, err := h.tagService.AITagEdit(c.Request.Context(), id, req.Instruction)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}
