package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-hrportal/internal/middleware"
	"go-hrportal/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, contextutil.GetRequestID(c.Request.Context()))
	})

	tests := []struct {
		name      string
		header    string
		propagate bool
	}{
		{name: "keeps a valid id", header: "abc-123", propagate: true},
		{name: "generates when missing", header: ""},
		{name: "replaces an overlong id", header: strings.Repeat("x", 65)},
		{name: "replaces an id with spaces", header: "bad id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			if tt.header != "" {
				req.Header.Set("X-Request-ID", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			got := w.Header().Get("X-Request-ID")
			assert.Equal(t, got, w.Body.String())
			if tt.propagate {
				assert.Equal(t, tt.header, got)
			} else {
				assert.NotEqual(t, tt.header, got)
				assert.Len(t, got, 36)
			}
		})
	}
}

func TestContextLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.DebugLevel)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.ContextLogger(zap.New(core)))
	r.GET("/declaration/:id", func(c *gin.Context) {
		contextutil.GetLogger(c.Request.Context(), nil).Info("handler ran")
		c.Status(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/declaration/42", nil)
	req.Header.Set("X-Request-ID", "req-9")
	r.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.All()
	if assert.Len(t, entries, 2) {
		assert.Equal(t, "handler ran", entries[0].Message)
		assert.Equal(t, "req-9", entries[0].ContextMap()["request_id"])

		access := entries[1]
		assert.Equal(t, zap.WarnLevel, access.Level)
		assert.Equal(t, "/declaration/:id", access.ContextMap()["route"])
		assert.EqualValues(t, http.StatusNotFound, access.ContextMap()["status"])
	}
}
