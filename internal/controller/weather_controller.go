package controller

import (
	"ai-chatbot-be/internal/pkg/serverutils"
	"ai-chatbot-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type WeatherController struct {
	weatherService service.WeatherService
}

func NewWeatherController(weatherService service.WeatherService) *WeatherController {
	return &WeatherController{weatherService: weatherService}
}

func (c *WeatherController) RegisterRoutes(r fiber.Router) {
	r.Get("weather", serverutils.JwtMiddleware, c.Get)
}

func (c *WeatherController) Get(ctx *fiber.Ctx) error {
	city := ctx.Query("city")
	if city == "" {
		return fiber.NewError(fiber.StatusBadRequest, "city query parameter is required")
	}

	resp, err := c.weatherService.GetWeather(ctx.UserContext(), city)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("ok", resp))
}
