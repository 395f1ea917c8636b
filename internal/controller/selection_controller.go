package controller

import (
	"routine-advisor-be/internal/dto"
	"routine-advisor-be/internal/pkg/serverutils"
	"routine-advisor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISelectionController interface {
	RegisterRoutes(r fiber.Router)
	Get(ctx *fiber.Ctx) error
	Toggle(ctx *fiber.Ctx) error
	Remove(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type selectionController struct {
	service service.IAdvisorService
}

func NewSelectionController(service service.IAdvisorService) ISelectionController {
	return &selectionController{service: service}
}

func (c *selectionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1/selection", serverutils.ProfileMiddleware)
	h.Get("", c.Get)
	h.Post("/toggle", c.Toggle)
	h.Delete("/:id", c.Remove)
	h.Delete("", c.Clear)
}

func (c *selectionController) Get(ctx *fiber.Ctx) error {
	res, err := c.service.GetSelection(ctx.UserContext(), serverutils.ProfileID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get selection", res))
}

func (c *selectionController) Toggle(ctx *fiber.Ctx) error {
	var req dto.ToggleSelectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ToggleSelection(ctx.UserContext(), serverutils.ProfileID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success toggle selection", res))
}

func (c *selectionController) Remove(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}

	res, err := c.service.RemoveSelection(ctx.UserContext(), serverutils.ProfileID(ctx), id)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success remove from selection", res))
}

func (c *selectionController) Clear(ctx *fiber.Ctx) error {
	res, err := c.service.ClearSelection(ctx.UserContext(), serverutils.ProfileID(ctx))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success clear selection", res))
}
