package image

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"codeberg.org/snonux/babycards/internal/prompt"
	"google.golang.org/genai"
)

// GeminiGenerator generates images with Gemini image models
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a Gemini API client for image generation
func NewGeminiGenerator(ctx context.Context, config *Config) (*GeminiGenerator, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	cc := &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if config.BaseURL != "" {
		cc.HTTPOptions.BaseURL = config.BaseURL
	}
	if config.Timeout > 0 {
		cc.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := config.Model
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate requests one image and returns its bytes
func (g *GeminiGenerator) Generate(ctx context.Context, text string) ([]byte, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(text), &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE", "TEXT"},
	})
	if err != nil {
		return nil, g.wrapError(err)
	}
	return imageFromResponse(g.Name(), resp)
}

// imageFromResponse returns the first inline image of a response
func imageFromResponse(provider string, resp *genai.GenerateContentResponse) ([]byte, error) {
	if resp == nil {
		return nil, &GenerationError{Provider: provider, Code: "EMPTY", Message: "empty response"}
	}

	var said []string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 &&
				strings.HasPrefix(part.InlineData.MIMEType, "image/") {
				return part.InlineData.Data, nil
			}
			if part.Text != "" {
				said = append(said, part.Text)
			}
		}
	}

	msg := "no image in response"
	if len(said) > 0 {
		msg += ": " + strings.Join(said, " ")
	}
	return nil, &GenerationError{Provider: provider, Code: "EMPTY", Message: msg}
}

func (g *GeminiGenerator) wrapError(err error) error {
	var apiErr genai.APIError
	if !errors.As(err, &apiErr) {
		return &GenerationError{Provider: g.Name(), Message: err.Error(), Err: err}
	}
	if apiErr.Code == http.StatusTooManyRequests {
		return &RateLimitError{Provider: g.Name(), Message: apiErr.Message}
	}
	return &GenerationError{
		Provider: g.Name(),
		Code:     strconv.Itoa(apiErr.Code),
		Message:  apiErr.Message,
		Err:      err,
	}
}

// Name returns the provider name
func (g *GeminiGenerator) Name() string {
	return ProviderGemini
}

// Model returns the model in use
func (g *GeminiGenerator) Model() string {
	return g.model
}

// PricePerImage returns the list price of one image
func (g *GeminiGenerator) PricePerImage() float64 {
	return prompt.PricePerImage(g.model, "", "")
}
