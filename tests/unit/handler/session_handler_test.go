package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mapsmith/internal/config"
	"mapsmith/internal/handler"
	"mapsmith/internal/service"
	"mapsmith/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newStore() *session.Store {
	return session.NewStore(&config.SessionConfig{TTL: time.Hour, CleanupInterval: time.Minute})
}

func testContext(t *testing.T, method, path string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	var reader io.Reader = http.NoBody
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	c.Request = req
	return c, w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) handler.APIResponse {
	t.Helper()
	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestSessionHandler_CreateAndGet(t *testing.T) {
	store := newStore()
	h := handler.NewSessionHandler(service.NewSessionService(store))

	c, w := testContext(t, http.MethodPost, "/api/v1/sessions", "")
	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	resp := decodeResponse(t, w)
	require.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	id := data["id"].(string)
	require.NotEmpty(t, id)

	c, w = testContext(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Get(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeResponse(t, w).Success)
}

func TestSessionHandler_Get_InvalidID(t *testing.T) {
	store := newStore()
	h := handler.NewSessionHandler(service.NewSessionService(store))

	c, w := testContext(t, http.MethodGet, "/api/v1/sessions/not-a-uuid", "")
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	h.Get(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decodeResponse(t, w)
	assert.False(t, resp.Success)
	assert.Equal(t, "INVALID_ID", resp.Error.Code)
}

func TestSessionHandler_Get_Unknown(t *testing.T) {
	store := newStore()
	h := handler.NewSessionHandler(service.NewSessionService(store))

	id := uuid.New().String()
	c, w := testContext(t, http.MethodGet, "/api/v1/sessions/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "SESSION_NOT_FOUND", decodeResponse(t, w).Error.Code)
}

func TestSessionHandler_DeleteAndReset(t *testing.T) {
	store := newStore()
	h := handler.NewSessionHandler(service.NewSessionService(store))

	sess := store.Create()
	id := sess.ID.String()

	c, w := testContext(t, http.MethodPost, "/api/v1/sessions/"+id+"/reset", "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Reset(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = testContext(t, http.MethodDelete, "/api/v1/sessions/"+id, "")
	c.Params = gin.Params{{Key: "id", Value: id}}
	h.Delete(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.Len())
}
