package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"mapsmith/internal/service"
)

// ExtractHandler handles source ingestion endpoints: image uploads, image
// URLs, pasted text and JSON imports.
type ExtractHandler struct {
	extractService service.ExtractService
}

// NewExtractHandler creates a new ExtractHandler.
func NewExtractHandler(extractService service.ExtractService) *ExtractHandler {
	return &ExtractHandler{extractService: extractService}
}

// ExtractImage handles POST /api/v1/sessions/:id/extract/image (multipart)
func (h *ExtractHandler) ExtractImage(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart field 'image' is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "could not open uploaded file")
		return
	}
	defer file.Close()

	text, err := h.extractService.ExtractImage(c.Request.Context(), id, service.ImageUploadInput{
		File:         file,
		Header:       fileHeader,
		Instructions: c.PostForm("instructions"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"text": text})
}

// ExtractImageURL handles POST /api/v1/sessions/:id/extract/url
func (h *ExtractHandler) ExtractImageURL(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		URL          string `json:"url" binding:"required,url"`
		Instructions string `json:"instructions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "url is required and must be a valid URL")
		return
	}

	text, err := h.extractService.ExtractImageURL(c.Request.Context(), id, req.URL, req.Instructions)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"text": text})
}

// SetText handles POST /api/v1/sessions/:id/extract/text
func (h *ExtractHandler) SetText(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "text is required")
		return
	}

	text, err := h.extractService.SetText(id, req.Text)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"text": text})
}

// GetText handles GET /api/v1/sessions/:id/text
func (h *ExtractHandler) GetText(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	text, err := h.extractService.GetText(id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"text": text})
}

// Import handles POST /api/v1/sessions/:id/import — the request body is the
// raw document JSON.
func (h *ExtractHandler) Import(c *gin.Context) {
	id, ok := sessionID(c)
	if !ok {
		return
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil || len(raw) == 0 {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must hold the document JSON")
		return
	}

	doc, err := h.extractService.ImportJSON(id, raw)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, doc)
}
