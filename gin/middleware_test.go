package gin_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	rfcgin "github.com/fwojciec/prettyrfc/gin"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedEngine(buf *bytes.Buffer, status int) *gin.Engine {
	e := gin.New()
	e.Use(rfcgin.RequestLogger(slog.New(slog.NewTextHandler(buf, nil))))
	e.GET("/ping", func(c *gin.Context) {
		c.String(status, c.GetString(rfcgin.RequestIDKey))
	})
	return e
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	t.Run("generates a request id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newLoggedEngine(&buf, http.StatusOK).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(rfcgin.RequestIDHeader)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())

		output := buf.String()
		assert.Contains(t, output, "msg=\"http request\"")
		assert.Contains(t, output, "method=GET")
		assert.Contains(t, output, "path=/ping")
		assert.Contains(t, output, "status=200")
		assert.Contains(t, output, "request_id="+id)
	})

	t.Run("keeps an incoming request id", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(rfcgin.RequestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		newLoggedEngine(&buf, http.StatusOK).ServeHTTP(w, req)

		assert.Equal(t, "abc-123", w.Header().Get(rfcgin.RequestIDHeader))
		assert.Contains(t, buf.String(), "request_id=abc-123")
	})

	t.Run("logs server errors at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := httptest.NewRecorder()
		newLoggedEngine(&buf, http.StatusInternalServerError).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		assert.Contains(t, buf.String(), "level=ERROR")
		assert.Contains(t, buf.String(), "status=500")
	})
}
