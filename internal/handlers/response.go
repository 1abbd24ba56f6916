package handlers

import (
	"errors"

	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/repositories"
	"github.com/ZekariasW-Dev/Skillbridge-Ecommerce-Backend-sub001/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint answers with. Errors is null when
// there is no error (never an empty list), so clients can test for error
// presence with a single null-check.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Object  interface{} `json:"object,omitempty"`
	Errors  []string    `json:"errors"`
}

// respondOK writes a success envelope with the given status and payload.
func respondOK(c *fiber.Ctx, status int, message string, object interface{}) error {
	return c.Status(status).JSON(Response{
		Success: true,
		Message: message,
		Object:  object,
	})
}

// respondFail writes a failure envelope.
func respondFail(c *fiber.Ctx, status int, message string, errs ...string) error {
	if len(errs) == 0 {
		errs = []string{message}
	}
	return c.Status(status).JSON(Response{
		Success: false,
		Message: message,
		Errors:  errs,
	})
}

// respondError classifies a service error and writes the matching failure
// envelope. Unclassified errors are internal: the client gets a generic
// message, never storage-engine details.
func respondError(c *fiber.Ctx, err error, internalMessage string) error {
	switch {
	case errors.Is(err, services.ErrValidation):
		return respondFail(c, fiber.StatusBadRequest, "Validation failed", err.Error())
	case errors.Is(err, services.ErrInsufficientStock):
		return respondFail(c, fiber.StatusBadRequest, "Insufficient stock", err.Error())
	case errors.Is(err, services.ErrProductNotFound):
		return respondFail(c, fiber.StatusNotFound, "Product not found", err.Error())
	case errors.Is(err, repositories.ErrNotFound):
		return respondFail(c, fiber.StatusNotFound, "Not found", err.Error())
	case errors.Is(err, services.ErrConflict):
		return respondFail(c, fiber.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return respondFail(c, fiber.StatusUnauthorized, "Authentication failed", err.Error())
	default:
		return respondFail(c, fiber.StatusInternalServerError, internalMessage, internalMessage)
	}
}

// currentUserID reads the authenticated user id placed in the request
// context by the auth middleware.
func currentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("user_id").(string)
	return userID, ok && userID != ""
}
