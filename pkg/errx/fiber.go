package errx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// FiberErrorHandler renders errors as JSON. *Error values keep their code,
// type and details; *fiber.Error keeps its status; anything else is a 500.
func FiberErrorHandler(c *fiber.Ctx, err error) error {
	requestID := c.Get(fiber.HeaderXRequestID)

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{
			"error":      fe.Message,
			"code":       "HTTP_ERROR",
			"status":     fe.Code,
			"request_id": requestID,
		})
	}

	var e *Error
	if errors.As(err, &e) {
		body := fiber.Map{
			"error":      e.Message,
			"code":       e.Code,
			"type":       string(e.Type),
			"status":     e.HTTPStatus,
			"request_id": requestID,
		}
		if len(e.Details) > 0 {
			body["details"] = e.Details
		}
		return c.Status(e.HTTPStatus).JSON(body)
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":      "Internal Server Error",
		"code":       "INTERNAL_ERROR",
		"type":       string(TypeInternal),
		"request_id": requestID,
	})
}
