package serverutils

import (
	"errors"

	"ai-chatbot-be/internal/entity"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware translates service errors into JSON responses.
// Internal detail never reaches the client; unknown errors collapse to a
// generic 500.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := statusForError(err)
		message := err.Error()
		if code == fiber.StatusInternalServerError {
			message = "server error"
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}

func statusForError(err error) int {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return fiber.StatusBadRequest
	}

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return fiberErr.Code
	}

	switch {
	case errors.Is(err, entity.ErrEmailTaken):
		return fiber.StatusConflict
	case errors.Is(err, entity.ErrInvalidCredentials):
		return fiber.StatusUnauthorized
	case errors.Is(err, entity.ErrNotVerified):
		return fiber.StatusForbidden
	case errors.Is(err, entity.ErrAlreadyVerified),
		errors.Is(err, entity.ErrInvalidOrExpiredCode):
		return fiber.StatusBadRequest
	case errors.Is(err, entity.ErrUserNotFound),
		errors.Is(err, entity.ErrConversationNotFound),
		errors.Is(err, entity.ErrCityNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}
