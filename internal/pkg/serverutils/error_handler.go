package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"cat-cards-be/internal/pkg/logger"
)

// ErrorHandlerMiddleware recovers unhandled errors from downstream handlers and
// renders them in the standard response envelope.
func ErrorHandlerMiddleware(log logger.ILogger) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code >= 500 {
			log.Error("HTTP", "Unhandled error", map[string]interface{}{
				"path":   ctx.Path(),
				"method": ctx.Method(),
				"error":  err.Error(),
			})
		}

		return ctx.Status(code).JSON(ErrorResponse(code, err.Error()))
	}
}
