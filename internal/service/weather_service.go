package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ai-chatbot-be/internal/constant"
	"ai-chatbot-be/internal/dto"
	"ai-chatbot-be/internal/entity"
	"ai-chatbot-be/internal/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
)

const defaultWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

type WeatherService interface {
	GetWeather(ctx context.Context, city string) (*dto.WeatherResponse, error)
}

type weatherService struct {
	apiKey  string
	baseURL string
	client  *http.Client
	cache   *gocache.Cache
	log     logger.ILogger
}

func NewWeatherService(apiKey, baseURL string, log logger.ILogger) WeatherService {
	if baseURL == "" {
		baseURL = defaultWeatherBaseURL
	}
	return &weatherService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		cache:   gocache.New(constant.WeatherCacheTTL, 2*constant.WeatherCacheTTL),
		log:     log,
	}
}

type openWeatherResponse struct {
	Name string `json:"name"`
	Sys  struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

func (s *weatherService) GetWeather(ctx context.Context, city string) (*dto.WeatherResponse, error) {
	if s.apiKey == "" {
		return nil, entity.ErrWeatherNotConfigured
	}

	cacheKey := strings.ToLower(strings.TrimSpace(city))
	if cached, found := s.cache.Get(cacheKey); found {
		resp := cached.(dto.WeatherResponse)
		return &resp, nil
	}

	endpoint := fmt.Sprintf("%s/weather?q=%s&appid=%s&units=metric",
		s.baseURL, url.QueryEscape(city), s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, entity.ErrCityNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("weather API returned status %d", resp.StatusCode)
	}

	var parsed openWeatherResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode weather response: %w", err)
	}

	weather := dto.WeatherResponse{
		City:        parsed.Name,
		Country:     parsed.Sys.Country,
		Temperature: parsed.Main.Temp,
		FeelsLike:   parsed.Main.FeelsLike,
		Humidity:    parsed.Main.Humidity,
		Pressure:    parsed.Main.Pressure,
		WindSpeed:   parsed.Wind.Speed,
	}
	if len(parsed.Weather) > 0 {
		weather.Description = parsed.Weather[0].Description
		weather.Icon = parsed.Weather[0].Icon
	}

	s.cache.Set(cacheKey, weather, gocache.DefaultExpiration)
	return &weather, nil
}
