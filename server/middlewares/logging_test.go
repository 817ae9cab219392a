package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	middlewares "github.com/agentic-mesh/a2a/server/middlewares"
	gin "github.com/gin-gonic/gin"
	assert "github.com/stretchr/testify/assert"
	zap "go.uber.org/zap"
	zapcore "go.uber.org/zap/zapcore"
	observer "go.uber.org/zap/zaptest/observer"
)

func newLoggingRouter(logger *zap.Logger, disableHealthcheckLog bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middlewares.LoggingMiddleware(logger, disableHealthcheckLog))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/message", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestLoggingMiddleware_SkipsHealthWhenDisabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := newLoggingRouter(zap.New(core), true)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Zero(t, logs.Len())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/message", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, logs.Len())

	entry := logs.All()[0]
	fields := entry.ContextMap()
	assert.Equal(t, "POST", fields["method"])
	assert.Equal(t, "/message", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status_code"])
}

func TestLoggingMiddleware_LogsHealthWhenEnabled(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	router := newLoggingRouter(zap.New(core), false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, logs.Len())
}
