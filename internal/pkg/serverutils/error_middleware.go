package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"lio-chatbot-be/internal/pkg/apperrors"
)

// ErrorHandlerMiddleware maps domain errors onto HTTP status codes so
// controllers can just return them.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return ctx.Status(fiberErr.Code).JSON(ErrorResponse(fiberErr.Message))
		}

		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return ctx.Status(statusFor(appErr.Kind)).JSON(ErrorResponse(appErr.Msg))
		}

		return ctx.Status(fiber.StatusInternalServerError).JSON(ErrorResponse("internal server error"))
	}
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindNotFound:
		return fiber.StatusNotFound
	case apperrors.KindConflict:
		return fiber.StatusConflict
	case apperrors.KindUpstream, apperrors.KindParse:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
