package requestcontext

import (
	"context"

	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	fiberutils "github.com/gofiber/fiber/v2/utils"
)

type requestIdKey struct{}

// GetRequestId returns the id set by WithRequestId, or an empty string.
func GetRequestId(ctx context.Context) string {
	id, _ := ctx.Value(requestIdKey{}).(string)
	return id
}

// WithRequestId reuses the id of the requestid middleware. Without it, the request header
// or a new UUID is used and echoed in the response header.
func WithRequestId() Option {
	header, localsKey := requestid.ConfigDefault.Header, requestid.ConfigDefault.ContextKey
	return func(ctx context.Context, c *fiber.Ctx) (context.Context, error) {
		id, _ := c.Locals(localsKey).(string)
		if id == "" {
			id = c.Get(header, fiberutils.UUID())
			c.Set(header, id)
			c.Locals(localsKey, id)
		}
		ctx = context.WithValue(ctx, requestIdKey{}, id)
		return logger.WithContext(ctx, slogx.String("requestId", id)), nil
	}
}
