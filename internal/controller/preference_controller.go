package controller

import (
	"routine-advisor-be/internal/dto"
	"routine-advisor-be/internal/pkg/serverutils"
	"routine-advisor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IPreferenceController interface {
	RegisterRoutes(r fiber.Router)
	GetDirection(ctx *fiber.Ctx) error
	SetDirection(ctx *fiber.Ctx) error
	ToggleDirection(ctx *fiber.Ctx) error
	Forget(ctx *fiber.Ctx) error
}

type preferenceController struct {
	service service.IAdvisorService
}

func NewPreferenceController(service service.IAdvisorService) IPreferenceController {
	return &preferenceController{service: service}
}

func (c *preferenceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1/preferences", serverutils.ProfileMiddleware)
	h.Get("/direction", c.GetDirection)
	h.Put("/direction", c.SetDirection)
	h.Post("/direction/toggle", c.ToggleDirection)
	h.Delete("", c.Forget)
}

func (c *preferenceController) GetDirection(ctx *fiber.Ctx) error {
	res, err := c.service.GetDirection(ctx.UserContext(), serverutils.ProfileID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get direction", res))
}

func (c *preferenceController) SetDirection(ctx *fiber.Ctx) error {
	var req dto.SetDirectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.SetDirection(ctx.UserContext(), serverutils.ProfileID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success set direction", res))
}

func (c *preferenceController) ToggleDirection(ctx *fiber.Ctx) error {
	res, err := c.service.ToggleDirection(ctx.UserContext(), serverutils.ProfileID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle direction", res))
}

func (c *preferenceController) Forget(ctx *fiber.Ctx) error {
	if err := c.service.ForgetProfile(ctx.UserContext(), serverutils.ProfileID(ctx)); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success forget profile", nil))
}
