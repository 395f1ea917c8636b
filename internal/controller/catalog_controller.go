package controller

import (
	"routine-advisor-be/internal/dto"
	"routine-advisor-be/internal/pkg/serverutils"
	"routine-advisor-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	ListProducts(ctx *fiber.Ctx) error
	ListCategories(ctx *fiber.Ctx) error
}

type catalogController struct {
	service service.IAdvisorService
}

func NewCatalogController(service service.IAdvisorService) ICatalogController {
	return &catalogController{service: service}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/advisor/v1/catalog", serverutils.ProfileMiddleware)
	h.Get("/products", c.ListProducts)
	h.Get("/categories", c.ListCategories)
}

func (c *catalogController) ListProducts(ctx *fiber.Ctx) error {
	var req dto.ListProductsRequest
	if err := ctx.QueryParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ListProducts(ctx.UserContext(), serverutils.ProfileID(ctx), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list products", res))
}

func (c *catalogController) ListCategories(ctx *fiber.Ctx) error {
	res, err := c.service.ListCategories(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list categories", res))
}
