package handler_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsmith/internal/config"
	"mapsmith/internal/domain"
	"mapsmith/internal/export"
	"mapsmith/internal/handler"
	"mapsmith/internal/service"
	"mapsmith/internal/session"
)

func exportHandlerSetup(t *testing.T) (*handler.ExportHandler, string) {
	t.Helper()
	store := newStore()
	svc := service.NewExportService(store, nil, &config.ExportConfig{DefaultFilename: "map_data"}, &config.S3Config{})
	h := handler.NewExportHandler(svc)

	sess := store.Create()
	doc := domain.NewMapDocument()
	doc.Name = "周末地图"
	doc.Data = []domain.Place{
		{Name: "Cafe A", Address: "某路1号", Center: domain.Coordinate{Lat: 31.2, Lng: 121.4}},
	}
	_, err := store.Update(sess.ID, func(s *domain.Session) error {
		session.SetSaved(s, doc)
		return nil
	})
	require.NoError(t, err)
	return h, sess.ID.String()
}

func TestExportHandler_JSONDownload(t *testing.T) {
	h, id := exportHandlerSetup(t)

	c, w := testContext(t, http.MethodGet, "/api/v1/sessions/"+id+"/export/json", "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.ExportJSON(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, `attachment; filename="`))
	assert.Contains(t, disposition, ".json")
	assert.Contains(t, w.Body.String(), "Cafe A")
}

func TestExportHandler_CSVDownload(t *testing.T) {
	h, id := exportHandlerSetup(t)

	c, w := testContext(t, http.MethodGet, "/api/v1/sessions/"+id+"/export/csv", "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.ExportCSV(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), export.BOM))
}

func TestExportHandler_MapView(t *testing.T) {
	h, id := exportHandlerSetup(t)

	c, w := testContext(t, http.MethodGet, "/api/v1/sessions/"+id+"/export/mapview", "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.MapView(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)
	view := resp.Data.(map[string]interface{})
	assert.Contains(t, view, "center")
	assert.Contains(t, view, "zoom")
}

func TestExportHandler_Archive_NotConfigured(t *testing.T) {
	h, id := exportHandlerSetup(t)

	c, w := testContext(t, http.MethodPost, "/api/v1/sessions/"+id+"/export/archive", `{"format":"json"}`)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Archive(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "ARCHIVE_NOT_CONFIGURED", decodeResponse(t, w).Error.Code)
}

func TestExportHandler_Archive_BadFormat(t *testing.T) {
	h, id := exportHandlerSetup(t)

	c, w := testContext(t, http.MethodPost, "/api/v1/sessions/"+id+"/export/archive", `{"format":"pdf"}`)
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Archive(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeResponse(t, w).Error.Code)
}
