package narrator

import (
	"context"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"github.com/KirkDiggler/rpg-narrator/internal/errors"
)

// DefaultGeminiModel is used when GeminiConfig.Model is empty
const DefaultGeminiModel = "gemini-2.5-flash"

// contentGenerator is the slice of *genai.Models the client calls
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content,
		config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiConfig holds the configuration for the Gemini client
type GeminiConfig struct {
	APIKey string
	Model  string
}

// Validate ensures the API key is present
func (c *GeminiConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.APIKey == "" {
		vb.RequiredField("APIKey")
	}
	return vb.Build()
}

type geminiClient struct {
	models contentGenerator
	model  string
}

// NewGemini creates a Client backed by the Gemini API
func NewGemini(ctx context.Context, cfg *GeminiConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create gemini client")
	}

	return newGemini(client.Models, cfg.Model), nil
}

func newGemini(models contentGenerator, model string) *geminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &geminiClient{models: models, model: model}
}

func (c *geminiClient) Generate(ctx context.Context, input *GenerateInput) (*GenerateOutput, error) {
	if input == nil || len(input.Messages) == 0 {
		return nil, errors.InvalidArgument("at least one message is required")
	}

	var system []string
	contents := make([]*genai.Content, 0, len(input.Messages))
	for _, msg := range input.Messages {
		switch msg.Role {
		case RoleSystem:
			system = append(system, msg.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}
	if len(contents) == 0 {
		return nil, errors.InvalidArgument("at least one non-system message is required")
	}

	config := &genai.GenerateContentConfig{}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	if input.MaxTokens > 0 {
		config.MaxOutputTokens = int32(input.MaxTokens)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		return nil, errors.Upstream(err, "gemini generate content failed")
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, errors.Upstream(nil, "gemini returned no text")
	}

	out := &GenerateOutput{Text: text}
	if resp.UsageMetadata != nil {
		out.TokensUsed = int(resp.UsageMetadata.TotalTokenCount)
	}

	slog.DebugContext(ctx, "Gemini generation complete",
		"model", c.model,
		"messages", len(input.Messages),
		"tokens_used", out.TokensUsed)

	return out, nil
}
