package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/socat/omegeo/internal/core/usecases"
	"github.com/socat/omegeo/internal/pkg/logging"
)

// APIError is a structured error response.
type APIError struct {
	Status    int                 `json:"status"`
	Code      string              `json:"code"`    // Error code: bad_request, not_found, invalid_box, etc.
	Message   string              `json:"message"` // Human-readable message
	Fields    map[string][]string `json:"fields,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
}

// newError builds a JSON error response with a request ID.
func newError(c *fiber.Ctx, status int, code string, message string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(status).JSON(APIError{
		Status:    status,
		Code:      code,
		Message:   message,
		RequestID: reqID,
	})
}

// errBadRequest returns a 400 error.
func errBadRequest(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusBadRequest, "bad_request", msg)
}

// errNotFound returns a 404 error.
func errNotFound(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusNotFound, "not_found", msg)
}

// errInternal returns a 500 error.
func errInternal(c *fiber.Ctx, msg string) error {
	return newError(c, fiber.StatusInternalServerError, "internal_error", msg)
}

// errInvalidBox returns a 422 error for a box that fails the drawing guard.
func errInvalidBox(c *fiber.Ctx, reason string) error {
	return newError(c, fiber.StatusUnprocessableEntity, "invalid_box", "bounding box rejected: "+reason)
}

// errValidation returns a 400 error listing the offending body fields.
func errValidation(c *fiber.Ctx, fields map[string][]string) error {
	reqID, _ := c.Locals("requestid").(string)
	return c.Status(fiber.StatusBadRequest).JSON(APIError{
		Status:    fiber.StatusBadRequest,
		Code:      "validation_failed",
		Message:   "request body failed validation",
		Fields:    fields,
		RequestID: reqID,
	})
}

// errFromService maps usecase sentinel errors to HTTP statuses. Anything
// unknown is logged and reported as a 500 without its details.
func errFromService(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, usecases.ErrPlaceNotFound):
		return errNotFound(c, err.Error())
	case errors.Is(err, usecases.ErrEmptyPlaceName),
		errors.Is(err, usecases.ErrEmptyAddress),
		errors.Is(err, usecases.ErrEmptyQuery),
		errors.Is(err, usecases.ErrTooFewVertices):
		return errBadRequest(c, err.Error())
	}
	logging.FromContext(c.UserContext()).Error("request failed", "path", c.Path(), "error", err)
	return errInternal(c, "internal error")
}
