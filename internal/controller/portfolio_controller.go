package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/pkg/serverutils"
	"lio-chatbot-be/internal/service"
)

type IPortfolioController interface {
	RegisterRoutes(r fiber.Router)
	ConfirmItem(ctx *fiber.Ctx) error
	ConfirmQna(ctx *fiber.Ctx) error
	StartGeneration(ctx *fiber.Ctx) error
	UpdateToneExamples(ctx *fiber.Ctx) error
}

type portfolioController struct {
	portfolioService     service.IPortfolioService
	qnaGenerationService service.IQnaGenerationService
}

func NewPortfolioController(
	portfolioService service.IPortfolioService,
	qnaGenerationService service.IQnaGenerationService,
) IPortfolioController {
	return &portfolioController{
		portfolioService:     portfolioService,
		qnaGenerationService: qnaGenerationService,
	}
}

func (c *portfolioController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/portfolio/v1")
	h.Put("item/:id/confirm", c.ConfirmItem)
	h.Put("qna/:id/confirm", c.ConfirmQna)
	h.Post("generate", c.StartGeneration)
	h.Put("settings/tone", c.UpdateToneExamples)
}

func (c *portfolioController) ConfirmItem(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid item id")
	}

	if err := c.portfolioService.ConfirmItem(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success confirm item", nil))
}

func (c *portfolioController) ConfirmQna(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid qna id")
	}

	if err := c.portfolioService.ConfirmQna(ctx.Context(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success confirm qna", nil))
}

func (c *portfolioController) StartGeneration(ctx *fiber.Ctx) error {
	var req dto.StartGenerationRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.qnaGenerationService.StartBulkGeneration(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusAccepted).JSON(serverutils.SuccessResponse("Generation started", res))
}

func (c *portfolioController) UpdateToneExamples(ctx *fiber.Ctx) error {
	var req dto.UpdateToneExamplesRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.portfolioService.UpdateToneExamples(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success update tone examples", nil))
}
