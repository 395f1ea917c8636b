package controller

import (
	"errors"

	"routine-advisor-be/internal/constant"
	"routine-advisor-be/internal/dto"
	"routine-advisor-be/internal/pkg/serverutils"
	"routine-advisor-be/internal/service"
	"routine-advisor-be/pkg/llm"

	"github.com/gofiber/fiber/v2"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	GenerateRoutine(ctx *fiber.Ctx) error
	Ask(ctx *fiber.Ctx) error
	Transcript(ctx *fiber.Ctx) error
	Reset(ctx *fiber.Ctx) error
}

type chatController struct {
	service service.IAdvisorService
}

func NewChatController(service service.IAdvisorService) IChatController {
	return &chatController{service: service}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	routine := r.Group("/advisor/v1/routine", serverutils.ProfileMiddleware)
	routine.Post("", c.GenerateRoutine)

	chat := r.Group("/advisor/v1/chat", serverutils.ProfileMiddleware)
	chat.Get("", c.Transcript)
	chat.Post("", c.Ask)
	chat.Delete("", c.Reset)
}

func (c *chatController) GenerateRoutine(ctx *fiber.Ctx) error {
	res, err := c.service.GenerateRoutine(ctx.UserContext(), serverutils.ProfileID(ctx))
	if err != nil {
		// Routine failures get their own apology
		if errors.Is(err, llm.ErrCompletionUnavailable) {
			return fiber.NewError(fiber.StatusBadGateway, constant.MessageRoutineFailed)
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate routine", res))
}

func (c *chatController) Ask(ctx *fiber.Ctx) error {
	var req dto.SubmitQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SubmitQuestion(ctx.UserContext(), serverutils.ProfileID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success answer question", res))
}

func (c *chatController) Transcript(ctx *fiber.Ctx) error {
	res, err := c.service.GetTranscript(ctx.UserContext(), serverutils.ProfileID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get transcript", res))
}

func (c *chatController) Reset(ctx *fiber.Ctx) error {
	if err := c.service.ResetConversation(ctx.UserContext(), serverutils.ProfileID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success reset conversation", nil))
}
