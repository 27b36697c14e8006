package bootstrap

import (
	"context"
	"log"

	"ai-chatbot-be/internal/config"
	"ai-chatbot-be/internal/controller"
	"ai-chatbot-be/internal/pkg/logger"
	"ai-chatbot-be/internal/pkg/mailer"
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/repository/unitofwork"
	"ai-chatbot-be/internal/service"
	"ai-chatbot-be/pkg/llm/factory"
	pktNats "ai-chatbot-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController         *controller.AuthController
	ChatController         *controller.ChatController
	ConversationController *controller.ConversationController
	WeatherController      *controller.WeatherController
	HealthController       *controller.HealthController

	// Middleware built from infrastructure
	AuthRateLimit fiber.Handler

	// Background services (exposed for main.go to run/stop)
	MailDispatch service.MailDispatchService

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.Email,
		cfg.SMTP.SenderName,
	)

	// LLM provider
	llmProvider, err := factory.NewProvider(factory.Config{
		Type:    factory.ProviderType(cfg.Ai.Provider),
		APIKey:  cfg.Keys.Groq,
		BaseURL: providerBaseURL(cfg),
		Model:   cfg.Ai.Model,
	})
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM provider: %v", err)
	}
	log.Printf("[INFO] Using LLM provider: %s", cfg.Ai.Provider)

	// Redis, used by the auth rate limiter. Fail-open when absent.
	var redisClient *redis.Client
	if opts, err := redis.ParseURL(cfg.App.RedisURL); err == nil {
		redisClient = redis.NewClient(opts)
	} else {
		log.Printf("[WARN] Invalid REDIS_URL, rate limiting disabled: %v", err)
	}

	// NATS event publisher. Optional; auth flows work without it.
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS publisher: %v", err)
		}
	}

	// Services
	mailDispatch := service.NewMailDispatchService(emailService, sysLogger)
	if err := mailDispatch.Start(context.Background()); err != nil {
		log.Fatalf("[FATAL] Failed to start mail dispatch worker: %v", err)
	}

	otpService := service.NewOtpService(uowFactory, sysLogger)
	authService := service.NewAuthService(uowFactory, otpService, mailDispatch, natsPub, sysLogger)
	chatService := service.NewChatService(uowFactory, llmProvider, sysLogger)
	conversationService := service.NewConversationService(uowFactory, sysLogger)
	weatherService := service.NewWeatherService(cfg.Keys.OpenWeather, "", sysLogger)

	return &Container{
		AuthController:         controller.NewAuthController(authService),
		ChatController:         controller.NewChatController(chatService),
		ConversationController: controller.NewConversationController(conversationService),
		WeatherController:      controller.NewWeatherController(weatherService),
		HealthController:       controller.NewHealthController(),

		AuthRateLimit: serverutils.AuthRateLimit(redisClient, cfg.App.AuthRateLimit),

		MailDispatch: mailDispatch,
		Logger:       sysLogger,
	}
}

func providerBaseURL(cfg *config.Config) string {
	if cfg.Ai.Provider == "ollama" {
		return cfg.Ai.OllamaBaseURL
	}
	return cfg.Ai.GroqBaseURL
}
