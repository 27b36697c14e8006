package controller

import (
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ConversationController struct {
	conversationService service.ConversationService
}

func NewConversationController(conversationService service.ConversationService) *ConversationController {
	return &ConversationController{conversationService: conversationService}
}

func (c *ConversationController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/conversations")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.GetMessages)
	h.Delete(":id", c.Delete)
}

func conversationIdFromParams(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, entity.ErrConversationNotFound
	}
	return id, nil
}

func (c *ConversationController) Create(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateConversationRequest
	if err := ctx.BodyParser(&req); err != nil && len(ctx.Body()) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	resp, err := c.conversationService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("conversation created", resp))
}

func (c *ConversationController) List(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	resp, err := c.conversationService.List(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", resp))
}

func (c *ConversationController) GetMessages(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}
	conversationId, err := conversationIdFromParams(ctx)
	if err != nil {
		return err
	}

	resp, err := c.conversationService.GetMessages(ctx.UserContext(), userId, conversationId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", resp))
}

func (c *ConversationController) Delete(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}
	conversationId, err := conversationIdFromParams(ctx)
	if err != nil {
		return err
	}

	if err := c.conversationService.Delete(ctx.UserContext(), userId, conversationId); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("conversation deleted", dto.MessageResponse{
		Message: "Conversation deleted successfully.",
	}))
}
