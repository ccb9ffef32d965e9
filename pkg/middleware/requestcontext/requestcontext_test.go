package requestcontext

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(opts ...Option) *fiber.App {
	app := fiber.New()
	app.Use(New(opts...))
	app.Get("/ip", func(c *fiber.Ctx) error {
		return c.SendString(GetClientIP(c.UserContext()))
	})
	app.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString(GetRequestId(c.UserContext()))
	})
	return app
}

func body(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestWithRequestId(t *testing.T) {
	app := newApp(WithRequestId())

	_, id := body(t, app, "/id", map[string]string{requestid.ConfigDefault.Header: "req-1"})
	assert.Equal(t, "req-1", id)

	_, id = body(t, app, "/id", nil)
	assert.NotEmpty(t, id, "a request id should be generated")
}

func clientIPOption(t *testing.T, config WithClientIPConfig) Option {
	t.Helper()
	opt, err := WithClientIP(config)
	require.NoError(t, err)
	return opt
}

func TestWithClientIP(t *testing.T) {
	t.Run("invalid_proxy_range", func(t *testing.T) {
		_, err := WithClientIP(WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/33"}})
		assert.ErrorIs(t, err, errs.InvalidArgument)
	})
	t.Run("trusted_header", func(t *testing.T) {
		app := newApp(clientIPOption(t, WithClientIPConfig{TrustedHeader: "X-Real-IP"}))
		_, ip := body(t, app, "/ip", map[string]string{"X-Real-IP": "10.1.1.1"})
		assert.Equal(t, "10.1.1.1", ip)
	})
	t.Run("trusted_proxies", func(t *testing.T) {
		app := newApp(clientIPOption(t, WithClientIPConfig{TrustedProxiesIP: []string{"10.0.0.0/8"}}))
		_, ip := body(t, app, "/ip", map[string]string{fiber.HeaderXForwardedFor: "203.0.113.7, 10.0.0.2"})
		assert.Equal(t, "203.0.113.7", ip)
	})
	t.Run("reject_malformed", func(t *testing.T) {
		app := newApp(clientIPOption(t, WithClientIPConfig{EnableRejectMalformedRequest: true}))
		status, _ := body(t, app, "/ip", map[string]string{fiber.HeaderXForwardedFor: "203.0.113.7"})
		assert.Equal(t, fiber.StatusForbidden, status)
	})
	t.Run("fallback_first_forwarded", func(t *testing.T) {
		app := newApp(clientIPOption(t, WithClientIPConfig{}))
		_, ip := body(t, app, "/ip", map[string]string{fiber.HeaderXForwardedFor: "203.0.113.7, 10.0.0.2"})
		assert.Equal(t, "203.0.113.7", ip)
	})
}
