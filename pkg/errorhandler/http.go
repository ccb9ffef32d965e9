package errorhandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/alkanes-indexer/common/errs"
	"github.com/gaze-network/alkanes-indexer/pkg/logger"
	"github.com/gaze-network/alkanes-indexer/pkg/logger/slogx"
	"github.com/gaze-network/alkanes-indexer/pkg/middleware/requestcontext"
	"github.com/gofiber/fiber/v2"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestId string `json:"requestId,omitempty"`
}

// NewHTTPErrorHandler answers public errors with 400 and their message, fiber errors with their
// own status, and anything else with an opaque 500 after logging it.
func NewHTTPErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var publicErr *errs.PublicError
		if errors.As(err, &publicErr) {
			return errors.WithStack(c.Status(http.StatusBadRequest).JSON(errorResponse{
				Error: publicErr.Message(),
				Code:  publicErr.Code(),
			}))
		}
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return errors.WithStack(c.Status(fiberErr.Code).SendString(fiberErr.Message))
		}

		ctx := c.UserContext()
		logger.ErrorContext(ctx, "Something went wrong, unhandled api error", err,
			slogx.String("event", "api_unhandled_error"),
			slogx.String("path", c.Path()),
		)
		return errors.WithStack(c.Status(http.StatusInternalServerError).JSON(errorResponse{
			Error:     "Internal Server Error",
			RequestId: requestcontext.GetRequestId(ctx),
		}))
	}
}
