package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tijara/backend/internal/interfaces/http/dto"
)

func newSystemRouter(h *SystemHandler) *gin.Engine {
	r := gin.New()
	h.RegisterRoutes(r.Group("/api/v1"))
	return r
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("Tijara API", "1.2.0")
	w := httptest.NewRecorder()
	newSystemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/system/info", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "Tijara API", data["name"])
	assert.Equal(t, "1.2.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	w := httptest.NewRecorder()
	newSystemRouter(NewSystemHandler("Tijara API", "dev")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/ping", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	data := decodeResponse(t, w).Data.(map[string]any)
	assert.Equal(t, "pong", data["message"])
}

func TestSystemHandler_Health(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		h := NewSystemHandler("Tijara API", "dev").
			AddCheck("database", func(context.Context) error { return nil })
		w := httptest.NewRecorder()
		newSystemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data HealthResponse `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "healthy", body.Data.Status)
		assert.Equal(t, "ok", body.Data.Checks["database"])
	})

	t.Run("failing dependency", func(t *testing.T) {
		h := NewSystemHandler("Tijara API", "dev").
			AddCheck("database", func(context.Context) error { return nil }).
			AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })
		w := httptest.NewRecorder()
		newSystemRouter(h).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var body struct {
			Success bool           `json:"success"`
			Data    HealthResponse `json:"data"`
			Error   *dto.ErrorInfo `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.False(t, body.Success)
		assert.Equal(t, "unhealthy", body.Data.Status)
		assert.Equal(t, "error", body.Data.Checks["redis"])
		assert.Equal(t, "ok", body.Data.Checks["database"])
		assert.Equal(t, dto.ErrCodeServiceUnavail, body.Error.Code)
	})
}
