package requestcontext

import (
	"context"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

// Option enriches the request context. An error made by reject aborts the request with its status.
type Option func(ctx context.Context, c *fiber.Ctx) (context.Context, error)

// rejectError is answered to the client as is.
type rejectError struct {
	status  int
	message string
}

func (r *rejectError) Error() string {
	return r.message
}

func reject(status int, message string) error {
	return &rejectError{status: status, message: message}
}

func New(opts ...Option) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var err error
		ctx := c.UserContext()
		for i, opt := range opts {
			ctx, err = opt(ctx, c)
			if err == nil {
				continue
			}
			var rErr *rejectError
			if errors.As(err, &rErr) {
				return c.Status(rErr.status).JSON(Response{Error: rErr.message})
			}

			logger.ErrorContext(ctx, "Failed to extract request context", err,
				slogx.String("event", "requestcontext/error"),
				slogx.Int("optionIndex", i),
			)
			return c.Status(http.StatusInternalServerError).JSON(Response{Error: "internal server error"})
		}
		c.SetUserContext(ctx)
		return c.Next()
	}
}
