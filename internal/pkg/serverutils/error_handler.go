package serverutils

import (
	"errors"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/pkg/logger"
	"routine-advisor-be/pkg/advisor"
	"routine-advisor-be/pkg/catalog"
	"routine-advisor-be/pkg/conversation"
	"routine-advisor-be/pkg/llm"
	"routine-advisor-be/pkg/selection"

	"github.com/gofiber/fiber/v2"
)

// ResolveError maps an error returned by a handler to a status code and the message shown to
// the visitor.
func ResolveError(err error) (int, string) {
	var fiberErr *fiber.Error
	var validationErr *ValidationError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.As(err, &validationErr):
		return fiber.StatusBadRequest, validationErr.Error()
	case errors.Is(err, advisor.ErrEmptyInput):
		return fiber.StatusNoContent, ""
	case errors.Is(err, advisor.ErrEmptySelection):
		return fiber.StatusUnprocessableEntity, constant.MessageEmptySelection
	case errors.Is(err, conversation.ErrConversationBusy):
		return fiber.StatusConflict, constant.MessageConversationBusy
	case errors.Is(err, catalog.ErrProductNotFound):
		return fiber.StatusNotFound, "Product not found"
	case errors.Is(err, catalog.ErrCatalogUnavailable):
		return fiber.StatusServiceUnavailable, constant.MessageCatalogUnavailable
	case errors.Is(err, selection.ErrStoreUnavailable):
		return fiber.StatusServiceUnavailable, constant.MessageStoreUnavailable
	case errors.Is(err, llm.ErrCompletionUnavailable):
		return fiber.StatusBadGateway, constant.MessageQuestionFailed
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}

func ErrorHandlerMiddleware(log logger.ILogger) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		code, message := ResolveError(err)
		if code == fiber.StatusNoContent {
			return ctx.SendStatus(code)
		}

		details := map[string]interface{}{
			"method": ctx.Method(),
			"path":   ctx.Path(),
			"status": code,
			"error":  err,
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("HTTP", "Request failed", details)
		} else {
			details["error"] = err.Error()
			log.Warn("HTTP", "Request rejected", details)
		}

		return ctx.Status(code).JSON(ErrorResponse(code, message))
	}
}
