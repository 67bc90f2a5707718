package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request describes one generation call.
type Request struct {
	System      string
	Prompt      string
	Tier        ModelTier
	MaxTokens   int
	Temperature float32 // 0 means the per-call default (JSON 0.3, text 0.7)
}

// Client is an abstraction over LLM providers
type Client interface {
	// GenerateContent generates free-form text content
	GenerateContent(ctx context.Context, req Request) (string, error)
	// GenerateJSON generates JSON content; the raw (fence-stripped) text is returned
	GenerateJSON(ctx context.Context, req Request) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// GeminiClient implements Client for Google Gemini. It holds no per-call
// state and is safe to share.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client. A missing API key is a fatal
// configuration error detected before any call is attempted.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, &ConfigError{Message: "API key is required"}
	}
	if config == nil {
		config = DefaultConfig()
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, &ConfigError{Message: "failed to create Gemini client: " + err.Error()}
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent generates free-form text for the request's model tier.
func (c *GeminiClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	return c.generate(ctx, req, false)
}

// GenerateJSON generates JSON content. The response MIME type is pinned to
// application/json and any markdown fences the model adds anyway are stripped.
func (c *GeminiClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	text, err := c.generate(ctx, req, true)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

func (c *GeminiClient) generate(ctx context.Context, req Request, asJSON bool) (string, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return "", &ConfigError{Message: "no model configured for tier " + string(req.Tier)}
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(temperatureFor(req, asJSON))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	if asJSON {
		model.ResponseMIMEType = "application/json"
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.System)},
		}
	}

	return withRetry(ctx, c.config.Retry, func() (string, error) {
		resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
		if err != nil {
			return "", err
		}
		return extractTextFromResponse(resp)
	})
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

func temperatureFor(req Request, asJSON bool) float32 {
	if req.Temperature > 0 {
		return req.Temperature
	}
	if asJSON {
		return DefaultJSONTemperature
	}
	return DefaultTextTemperature
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", &EmptyResponseError{Detail: "no candidates in response"}
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", &EmptyResponseError{Detail: "no content in response"}
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", &EmptyResponseError{Detail: "no text parts in response"}
	}

	return strings.Join(parts, ""), nil
}
