package factory

import (
	"fmt"

	"ai-chatbot-be/pkg/llm"
	"ai-chatbot-be/pkg/llm/groq"
	"ai-chatbot-be/pkg/llm/ollama"
)

type ProviderType string

const (
	ProviderGroq   ProviderType = "groq"
	ProviderOllama ProviderType = "ollama"
)

type Config struct {
	Type    ProviderType
	APIKey  string
	BaseURL string
	Model   string
}

// NewProvider creates an LLM provider instance based on config
func NewProvider(cfg Config) (llm.LLMProvider, error) {
	switch cfg.Type {
	case ProviderGroq, "":
		return groq.NewProvider(cfg.APIKey, cfg.BaseURL, cfg.Model), nil
	case ProviderOllama:
		return ollama.NewProvider(cfg.BaseURL, cfg.Model), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider type: %s", cfg.Type)
	}
}
