package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendora/backend/internal/interfaces/http/dto"
)

func newBodyLimitEngine(maxBytes int64) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(BodyLimit(maxBytes))
	engine.POST("/echo", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestBodyLimit(t *testing.T) {
	t.Run("accepts body under the limit", func(t *testing.T) {
		engine := newBodyLimitEngine(64)

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("small")))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects declared length over the limit", func(t *testing.T) {
		engine := newBodyLimitEngine(8)

		body := bytes.Repeat([]byte("x"), 64)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(body)))

		require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodePayloadTooLarge, resp.Error.Code)
	})

	t.Run("zero limit disables the check", func(t *testing.T) {
		engine := newBodyLimitEngine(0)

		body := bytes.Repeat([]byte("x"), 1<<16)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", bytes.NewReader(body)))

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
