package controller

import (
	"context"
	"net/http/httptest"
	"testing"

	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWeatherService struct {
	calls int
}

func (s *stubWeatherService) GetWeather(ctx context.Context, city string) (*dto.WeatherResponse, error) {
	s.calls++
	return &dto.WeatherResponse{City: city, Temperature: 20}, nil
}

func newWeatherApp(svc *stubWeatherService) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	NewWeatherController(svc).RegisterRoutes(api)
	return app
}

func TestWeatherRequiresToken(t *testing.T) {
	svc := &stubWeatherService{}
	app := newWeatherApp(svc)

	resp, err := app.Test(httptest.NewRequest("GET", "/api/weather?city=Paris", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Zero(t, svc.calls)
}

func TestWeatherWithToken(t *testing.T) {
	svc := &stubWeatherService{}
	app := newWeatherApp(svc)

	token, err := serverutils.GenerateToken(uuid.New(), "alice@example.com")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/weather?city=Paris", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, svc.calls)
}
