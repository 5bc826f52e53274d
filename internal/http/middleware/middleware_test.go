package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestID(c) + "|" + RequestIDFromContext(c.UserContext()))
	})

	t.Run("generates an id when missing", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest("GET", "/test", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		rid := resp.Header.Get(RequestIDHeader)
		assert.Len(t, rid, 36)

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, rid+"|"+rid, string(body))
	})

	t.Run("preserves an incoming id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, "test-id-123")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, "test-id-123", resp.Header.Get(RequestIDHeader))

		body, _ := io.ReadAll(resp.Body)
		assert.Equal(t, "test-id-123|test-id-123", string(body))
	})

	t.Run("replaces an oversized id", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/test", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLen+1))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
	})
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var m map[string]any
		require.NoError(t, json.Unmarshal(line, &m))
		out = append(out, m)
	}
	return out
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&buf, nil))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusTeapot).JSON(fiber.Map{"error": err.Error()})
		},
	})
	app.Use(RequestID())
	app.Use(Logger(log))

	app.Get("/test", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusAccepted)
	})
	app.Get("/fail", func(c *fiber.Ctx) error {
		return errors.New("kaboom")
	})

	t.Run("logs request fields", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest("GET", "/test?x=1", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		entry := lines[0]
		assert.Equal(t, "http_request", entry["msg"])
		assert.Equal(t, "INFO", entry["level"])
		assert.Equal(t, resp.Header.Get(RequestIDHeader), entry["request_id"])
		assert.Equal(t, "GET", entry["method"])
		assert.Equal(t, "/test", entry["path"])
		assert.Equal(t, float64(fiber.StatusAccepted), entry["status"])
		assert.Contains(t, entry, "latency_ms")
		assert.NotEmpty(t, entry["time"])
	})

	t.Run("resolves handler errors before logging", func(t *testing.T) {
		buf.Reset()
		resp, err := app.Test(httptest.NewRequest("GET", "/fail", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

		lines := decodeLines(t, &buf)
		require.Len(t, lines, 1)
		assert.Equal(t, float64(fiber.StatusTeapot), lines[0]["status"])
		assert.Equal(t, "WARN", lines[0]["level"])
	})
}
