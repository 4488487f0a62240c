package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/wardenproject/warden/internal/logger"
)

func TestRecoveryConvertsPanicTo500(t *testing.T) {
	buf := &bytes.Buffer{}
	logger.Init(true, buf)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestID(), Recovery(true))
	router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set("X-Admin-Key", "super-secret")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
	assert.Contains(t, buf.String(), "kaboom")
	// Credentials never reach the log.
	assert.NotContains(t, buf.String(), "super-secret")
}

func TestSanitizeHeadersRedactsCredentials(t *testing.T) {
	h := http.Header{}
	h.Set("X-Admin-Key", "super-secret")
	h.Set("Authorization", "Bearer abc")
	h.Set("Accept", "application/json\r\nInjected: yes")

	out := SanitizeHeaders(h)
	assert.Equal(t, []string{"<redacted>"}, out["X-Admin-Key"])
	assert.Equal(t, []string{"<redacted>"}, out["Authorization"])
	assert.NotContains(t, out["Accept"][0], "\n")
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/admin/get", SanitizePath("/admin/get?key=secret"))
	assert.NotContains(t, SanitizePath("/admin/\x00evil"), "\x00")
}
