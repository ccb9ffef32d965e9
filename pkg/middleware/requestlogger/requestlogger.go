package requestlogger

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gaze-network/alkanes-indexer/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
)

type Config struct {
	WithRequestHeader    bool     `mapstructure:"request_header"`
	WithRequestQuery     bool     `mapstructure:"request_query"`
	Disable              bool     `mapstructure:"disable"` // Disable logger level `INFO`
	HiddenRequestHeaders []string `mapstructure:"hidden_request_headers"`
}

// New logs every completed request. Failed and 5xx requests are logged at error level.
func New(config Config) fiber.Handler {
	hiddenRequestHeaders := make(map[string]struct{}, len(config.HiddenRequestHeaders))
	for _, header := range config.HiddenRequestHeaders {
		hiddenRequestHeaders[strings.TrimSpace(strings.ToLower(header))] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)
		status := c.Response().StatusCode()

		level := slog.LevelInfo
		if err != nil || status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		if config.Disable && level == slog.LevelInfo {
			return errors.WithStack(err)
		}

		request := []slog.Attr{
			slogx.String("method", c.Method()),
			slogx.String("path", c.Path()),
			slogx.String("route", c.Route().Path),
			slogx.String("ip", requestcontext.GetClientIP(c.UserContext())),
			slogx.String("remoteIP", c.Context().RemoteIP().String()),
			slogx.String("user-agent", string(c.Context().UserAgent())),
			slogx.Any("params", c.AllParams()),
			slogx.Int("length", len(c.Body())),
		}
		if config.WithRequestQuery {
			request = append(request, slogx.String("query", string(c.Request().URI().QueryString())))
		}
		if config.WithRequestHeader {
			headers := []any{}
			for k, v := range c.GetReqHeaders() {
				if _, hidden := hiddenRequestHeaders[strings.ToLower(k)]; hidden {
					continue
				}
				headers = append(headers, slogx.Any(k, v))
			}
			request = append(request, slogx.Group("header", headers...))
		}

		attrs := []slog.Attr{
			{Key: "request", Value: slog.GroupValue(request...)},
			{Key: "response", Value: slog.GroupValue(
				slogx.Int("status", status),
				slogx.Int("length", len(c.Response().Body())),
			)},
			slogx.String("event", "api_request"),
			slogx.Duration("latency", latency),
		}
		if level == slog.LevelError {
			logErr := err
			if logErr == nil {
				logErr = fiber.NewError(status)
			}
			attrs = append(attrs, slogx.Error(logErr))
		}

		logger.LogAttrs(c.UserContext(), level, "Request Completed", attrs...)
		return errors.WithStack(err)
	}
}
