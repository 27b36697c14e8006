package controller

import (
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthController struct {
	authService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// RegisterRoutes mounts the auth endpoints. rateLimit throttles the
// endpoints that trigger OTP issuance or credential checks.
func (c *AuthController) RegisterRoutes(r fiber.Router, rateLimit fiber.Handler) {
	h := r.Group("/auth")
	h.Post("register", rateLimit, c.Register)
	h.Post("verify-otp", rateLimit, c.VerifyOtp)
	h.Post("resend-otp", rateLimit, c.ResendOtp)
	h.Post("login", rateLimit, c.Login)
	h.Post("verify-login-otp", rateLimit, c.VerifyLoginOtp)
	h.Get("me", serverutils.JwtMiddleware, c.Me)
}

// userIdFromCtx reads the authenticated user id set by the JWT middleware.
func userIdFromCtx(ctx *fiber.Ctx) (uuid.UUID, error) {
	raw, _ := ctx.Locals("user_id").(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	return id, nil
}

func (c *AuthController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.authService.Register(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("registration successful", resp))
}

func (c *AuthController) VerifyOtp(ctx *fiber.Ctx) error {
	var req dto.VerifyOtpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.authService.VerifyEmail(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("email verified", resp))
}

func (c *AuthController) ResendOtp(ctx *fiber.Ctx) error {
	var req dto.ResendOtpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.authService.ResendOtp(ctx.UserContext(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("verification code sent", dto.MessageResponse{
		Message: "A new verification code has been sent to your email.",
	}))
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.authService.Login(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("verification code sent", resp))
}

func (c *AuthController) VerifyLoginOtp(ctx *fiber.Ctx) error {
	var req dto.VerifyOtpRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	resp, err := c.authService.VerifyLoginOtp(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("login successful", resp))
}

func (c *AuthController) Me(ctx *fiber.Ctx) error {
	userId, err := userIdFromCtx(ctx)
	if err != nil {
		return err
	}

	resp, err := c.authService.Me(ctx.UserContext(), userId)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", resp))
}
