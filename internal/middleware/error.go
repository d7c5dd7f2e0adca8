package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillbridge/internal/domain"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	TraceID string `json:"trace_id,omitempty"`
}

// domainStatus maps each domain error to a distinct HTTP status and code so
// a caller can tell a policy violation from a missing record or an outage.
func domainStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, domain.ErrSelfMatch):
		return fiber.StatusUnprocessableEntity, "SELF_MATCH", true
	case errors.Is(err, domain.ErrDuplicatePending):
		return fiber.StatusConflict, "DUPLICATE_PENDING", true
	case errors.Is(err, domain.ErrNotAuthorized):
		return fiber.StatusForbidden, "NOT_AUTHORIZED", true
	case errors.Is(err, domain.ErrInvalidTransition):
		return fiber.StatusConflict, "INVALID_TRANSITION", true
	case errors.Is(err, domain.ErrNotParticipant):
		return fiber.StatusForbidden, "NOT_PARTICIPANT", true
	case errors.Is(err, domain.ErrChannelNotOpen):
		return fiber.StatusConflict, "CHANNEL_NOT_OPEN", true
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND", true
	case errors.Is(err, domain.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, "STORE_UNAVAILABLE", true
	default:
		return 0, "", false
	}
}

func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	errorCode := "INTERNAL_ERROR"

	if status, domainCode, ok := domainStatus(err); ok {
		code = status
		errorCode = domainCode
		message = err.Error()
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message

		switch code {
		case fiber.StatusBadRequest:
			errorCode = "BAD_REQUEST"
		case fiber.StatusUnauthorized:
			errorCode = "UNAUTHORIZED"
		case fiber.StatusForbidden:
			errorCode = "FORBIDDEN"
		case fiber.StatusNotFound:
			errorCode = "NOT_FOUND"
		case fiber.StatusConflict:
			errorCode = "CONFLICT"
		case fiber.StatusUnprocessableEntity:
			errorCode = "VALIDATION_ERROR"
		}
	}

	traceID := uuid.New().String()[:8]

	return c.Status(code).JSON(ErrorResponse{
		Code:    errorCode,
		Message: message,
		TraceID: traceID,
	})
}

func BadRequest(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusBadRequest, message)
}

func Unauthorized(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusUnauthorized, message)
}

func Forbidden(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusForbidden, message)
}

func NotFound(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusNotFound, message)
}

func Conflict(message string) *fiber.Error {
	return fiber.NewError(fiber.StatusConflict, message)
}
