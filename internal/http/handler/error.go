package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"attachapi/internal/apperr"
	"attachapi/internal/http/middleware"
	"attachapi/internal/policy"
	"attachapi/internal/service"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Rule is the violated attachment rule, set only for attachment validation failures.
	Rule string `json:"rule,omitempty"`
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	return writePayload(c, status, errorEnvelope{Code: code, Message: message})
}

func writePayload(c *fiber.Ctx, status int, env errorEnvelope) error {
	return c.Status(status).JSON(errorPayload{
		RequestID: requestIDFromCtx(c),
		Error:     env,
	})
}

// writeServiceError maps a service error onto the response envelope by its kind.
func writeServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "resource not found")
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "id is required")
	}

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		env := errorEnvelope{Code: "VALIDATION_FAILED", Message: "invalid attachments"}
		if v, ok := policy.ViolationOf(err); ok {
			env.Message = v.Error()
			env.Rule = v.Code
		} else {
			var ae *apperr.Error
			if errors.As(err, &ae) && ae.Err != nil {
				env.Message = ae.Err.Error()
			}
		}
		return writePayload(c, fiber.StatusBadRequest, env)
	case apperr.KindUpload:
		return writeError(c, fiber.StatusBadGateway, "UPLOAD_FAILED", "attachment upload failed, nothing was saved")
	case apperr.KindStore:
		return writeError(c, fiber.StatusBadGateway, "STORE_UNAVAILABLE", "object store unavailable")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}

// ErrorHandler returns a Fiber global error handler that standardizes error responses.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		}

		switch status {
		case fiber.StatusBadRequest:
			return writeError(c, status, "BAD_REQUEST", "bad request")
		case fiber.StatusNotFound:
			return writeError(c, status, "NOT_FOUND", "resource not found")
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusRequestEntityTooLarge:
			return writeError(c, status, "PAYLOAD_TOO_LARGE", "request body too large")
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
