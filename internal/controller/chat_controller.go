package controller

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"
)

type ChatController struct {
	chatService service.ChatService
}

func NewChatController(chatService service.ChatService) *ChatController {
	return &ChatController{chatService: chatService}
}

func (c *ChatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat")
	h.Use(serverutils.JwtMiddleware)
	h.Post("stream", c.Stream)
}

// Stream relays a chat completion as server-sent events. Request
// validation failures are reported as regular JSON errors; anything
// after the stream opens is reported in-band as an error frame.
func (c *ChatController) Stream(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	var req dto.ChatStreamRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "text/event-stream")
	ctx.Set(fiber.HeaderCacheControl, "no-cache")
	ctx.Set(fiber.HeaderConnection, "keep-alive")
	ctx.Set("X-Accel-Buffering", "no")

	userCtx := ctx.UserContext()

	ctx.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		// Cancelled the moment a write to the client fails, which tears
		// down the upstream request as well.
		streamCtx, cancel := context.WithCancel(userCtx)
		defer cancel()

		emit := func(event dto.StreamEvent) error {
			payload, err := json.Marshal(event)
			if err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
				cancel()
				return err
			}
			if err := w.Flush(); err != nil {
				cancel()
				return err
			}
			return nil
		}

		if err := c.chatService.StreamChat(streamCtx, userId, &req, emit); err != nil {
			message := "stream failed"
			if errors.Is(err, entity.ErrConversationNotFound) {
				message = err.Error()
			}
			// Best effort; the client may already be gone
			_ = emit(dto.StreamEvent{Error: message, Done: true})
		}
	}))

	return nil
}
