package ollama

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ai-chatbot-be/pkg/llm"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "llama3.1"
)

// Provider talks to a local Ollama instance. Useful for development
// without an upstream API key.
type Provider struct {
	baseURL string
	model   string
	client  *http.Client
}

func NewProvider(baseURL, model string) *Provider {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = defaultModel
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   model,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  *chatOptions  `json:"options,omitempty"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature,omitempty"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Message chatMessage `json:"message"`
	Done    bool        `json:"done"`
}

func (p *Provider) buildRequest(ctx context.Context, history []llm.Message, stream bool, options ...llm.Option) (*http.Request, error) {
	opts := llm.Options{Model: p.model}
	for _, opt := range options {
		opt(&opts)
	}

	messages := make([]chatMessage, 0, len(history))
	for _, msg := range history {
		messages = append(messages, chatMessage{Role: msg.Role, Content: msg.Content})
	}

	payload := chatRequest{
		Model:    opts.Model,
		Messages: messages,
		Stream:   stream,
	}
	if opts.Temperature > 0 || opts.MaxTokens > 0 {
		payload.Options = &chatOptions{
			Temperature: opts.Temperature,
			NumPredict:  opts.MaxTokens,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ollama request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create ollama request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (p *Provider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	req, err := p.buildRequest(ctx, history, false, options...)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(detail))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}
	return parsed.Message.Content, nil
}

func (p *Provider) ChatStream(ctx context.Context, history []llm.Message, onDelta func(delta string) error, options ...llm.Option) (string, error) {
	req, err := p.buildRequest(ctx, history, true, options...)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("ollama API returned status %d: %s", resp.StatusCode, string(detail))
	}

	// Ollama streams newline-delimited JSON objects
	var full strings.Builder
	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var chunk chatResponse
		if err := json.Unmarshal([]byte(line), &chunk); err != nil {
			continue
		}
		if chunk.Message.Content != "" {
			full.WriteString(chunk.Message.Content)
			if err := onDelta(chunk.Message.Content); err != nil {
				return full.String(), fmt.Errorf("stream consumer aborted: %w", err)
			}
		}
		if chunk.Done {
			return full.String(), nil
		}
	}

	if err := scanner.Err(); err != nil {
		return full.String(), fmt.Errorf("ollama stream read failed: %w", err)
	}
	return full.String(), nil
}
