package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"lio-chatbot-be/internal/dto"
	"lio-chatbot-be/internal/pkg/serverutils"
	"lio-chatbot-be/internal/service"
)

const sessionCookieName = "session_key"

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	StartSession(ctx *fiber.Ctx) error
	DeleteSession(ctx *fiber.Ctx) error
	SendMessage(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type chatController struct {
	sessionService service.ISessionService
	chatService    service.IChatService
	ttlSeconds     int
}

func NewChatController(sessionService service.ISessionService, chatService service.IChatService, ttlSeconds int) IChatController {
	return &chatController{
		sessionService: sessionService,
		chatService:    chatService,
		ttlSeconds:     ttlSeconds,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat/v1")
	h.Post("session", c.StartSession)
	h.Delete("session", c.DeleteSession)
	h.Post("message", c.SendMessage)
	h.Get("history", c.GetHistory)
}

func (c *chatController) StartSession(ctx *fiber.Ctx) error {
	var req dto.StartSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.StartSession(ctx.Context(), &req)
	if err != nil {
		return err
	}

	c.setSessionCookie(ctx, res.SessionKey)
	return ctx.JSON(serverutils.SuccessResponse("Success start session", res))
}

func (c *chatController) DeleteSession(ctx *fiber.Ctx) error {
	sessionKey, err := c.sessionKey(ctx)
	if err != nil {
		return err
	}

	if err := c.sessionService.DeleteSession(ctx.Context(), sessionKey); err != nil {
		return err
	}

	ctx.ClearCookie(sessionCookieName)
	return ctx.JSON(serverutils.SuccessResponse("Success delete session", nil))
}

func (c *chatController) SendMessage(ctx *fiber.Ctx) error {
	sessionKey, err := c.sessionKey(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.chatService.SubmitTurn(ctx.Context(), sessionKey, &req)
	if err != nil {
		return err
	}

	// Sliding expiration: the cookie lifetime tracks the context TTL.
	c.setSessionCookie(ctx, sessionKey)
	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatController) GetHistory(ctx *fiber.Ctx) error {
	sessionKey, err := c.sessionKey(ctx)
	if err != nil {
		return err
	}

	res, err := c.chatService.GetChatHistory(ctx.Context(), sessionKey)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get chat history", res))
}

func (c *chatController) sessionKey(ctx *fiber.Ctx) (string, error) {
	key := ctx.Cookies(sessionCookieName)
	if key == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing session cookie")
	}
	return key, nil
}

func (c *chatController) setSessionCookie(ctx *fiber.Ctx, sessionKey string) {
	ctx.Cookie(&fiber.Cookie{
		Name:     sessionCookieName,
		Value:    sessionKey,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(time.Duration(c.ttlSeconds) * time.Second),
	})
}
