package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/localpulse/localpulse/internal/types"
)

// ImageBlob is one generated image returned by the service.
type ImageBlob struct {
	MIMEType string
	Data     []byte
}

// Client is an abstraction over LLM providers. One logical call type covers
// "generate content from a prompt" in its text, strict-JSON, and vision
// variants; image generation and chat are separate because their request and
// response shapes differ.
type Client interface {
	// GenerateContent generates text content using the specified model tier
	GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateJSON generates content with a strict-JSON response requested
	GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error)
	// GenerateVision generates text content from a prompt plus inline image bytes
	GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string, tier ModelTier) (string, error)
	// GenerateImage asks the image model for one image; nil blob means the
	// service answered without producing one
	GenerateImage(ctx context.Context, prompt string) (*ImageBlob, error)
	// Chat sends one message in a conversation; history carries all prior turns
	Chat(ctx context.Context, systemInstruction string, history []types.Turn, message string, tier ModelTier) (string, error)
	// Close releases any resources held by the client
	Close() error
}

// NewClient creates a new LLM client based on configuration
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	// case ProviderOpenAI:
	//     return NewOpenAIClient(ctx, config, apiKey)
	// case ProviderAnthropic:
	//     return NewClaudeClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

func (c *GeminiClient) model(tier ModelTier) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", tier)
	}

	model := c.client.GenerativeModel(modelName)
	model.SetTemperature(0.1) // Low temperature for consistent output
	return model, nil
}

// GenerateContent generates text content using the specified model tier
func (c *GeminiClient) GenerateContent(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON generates content with the response MIME type pinned to JSON.
// The reply is still cleaned of markdown fences: models wrap JSON in code
// blocks often enough that callers cannot rely on the MIME hint alone.
func (c *GeminiClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}

	return CleanJSONBlock(text), nil
}

// GenerateVision generates text content from a prompt and inline image data
func (c *GeminiClient) GenerateVision(ctx context.Context, prompt string, image []byte, mimeType string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx,
		genai.Blob{MIMEType: mimeType, Data: image},
		genai.Text(prompt),
	)
	if err != nil {
		return "", fmt.Errorf("failed to analyze image: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateImage asks the configured image model for a single image.
// A nil blob with a nil error means the model replied without image output.
func (c *GeminiClient) GenerateImage(ctx context.Context, prompt string) (*ImageBlob, error) {
	if c.config.ImageModel == "" {
		return nil, fmt.Errorf("no image model configured")
	}

	model := c.client.GenerativeModel(c.config.ImageModel)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate image: %w", err)
	}

	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if blob, ok := part.(genai.Blob); ok {
				return &ImageBlob{MIMEType: blob.MIMEType, Data: blob.Data}, nil
			}
		}
	}

	return nil, nil
}

// Chat sends one message within a conversation. The caller owns the history;
// this client replays it into the provider session on every call so that no
// conversation state lives inside the client.
func (c *GeminiClient) Chat(ctx context.Context, systemInstruction string, history []types.Turn, message string, tier ModelTier) (string, error) {
	model, err := c.model(tier)
	if err != nil {
		return "", err
	}

	if systemInstruction != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(systemInstruction)},
		}
	}

	session := model.StartChat()
	session.History = make([]*genai.Content, 0, len(history))
	for _, turn := range history {
		session.History = append(session.History, &genai.Content{
			Role:  turn.Role,
			Parts: []genai.Part{genai.Text(turn.Text)},
		})
	}

	resp, err := session.SendMessage(ctx, genai.Text(message))
	if err != nil {
		return "", fmt.Errorf("failed to send chat message: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client
func (c *GeminiClient) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// extractTextFromResponse extracts text from Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
