package image

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"codeberg.org/snonux/babycards/internal/fetch"
	"codeberg.org/snonux/babycards/internal/prompt"
	"github.com/sashabaranov/go-openai"
)

// OpenAIGenerator generates images with the OpenAI images API
type OpenAIGenerator struct {
	client  *openai.Client
	fetcher *fetch.Fetcher
	model   string
	size    string
	quality string
	style   string
}

// NewOpenAIGenerator creates a generator for DALL-E and gpt-image models
func NewOpenAIGenerator(config *Config) (*OpenAIGenerator, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.OpenAIKey)
	if config.BaseURL != "" {
		clientConfig.BaseURL = config.BaseURL
	}
	if config.Timeout > 0 {
		clientConfig.HTTPClient = &http.Client{Timeout: config.Timeout}
	}

	g := &OpenAIGenerator{
		client:  openai.NewClientWithConfig(clientConfig),
		fetcher: fetch.New(nil),
		model:   config.Model,
		size:    config.Size,
		quality: config.Quality,
		style:   config.Style,
	}

	// Set defaults
	if g.model == "" {
		g.model = DefaultOpenAIModel
	}
	if g.size == "" {
		g.size = openai.CreateImageSize1024x1024
	}
	if g.quality == "" && g.model == openai.CreateImageModelDallE3 {
		g.quality = openai.CreateImageQualityStandard
	}

	return g, nil
}

// Generate requests one image and returns its bytes
func (g *OpenAIGenerator) Generate(ctx context.Context, text string) ([]byte, error) {
	req := g.request(text)

	resp, err := g.client.CreateImage(ctx, req)
	if err != nil {
		return nil, g.wrapError(err)
	}
	if len(resp.Data) == 0 {
		return nil, &GenerationError{Provider: g.Name(), Code: "EMPTY", Message: "no image in response"}
	}

	data := resp.Data[0]
	switch {
	case data.B64JSON != "":
		img, err := base64.StdEncoding.DecodeString(data.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("failed to decode image data: %w", err)
		}
		return img, nil
	case data.URL != "":
		img, err := g.fetcher.Bytes(ctx, data.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to download generated image: %w", err)
		}
		return img, nil
	}
	return nil, &GenerationError{Provider: g.Name(), Code: "EMPTY", Message: "image data missing"}
}

func (g *OpenAIGenerator) request(text string) openai.ImageRequest {
	req := openai.ImageRequest{
		Prompt:  text,
		Model:   g.model,
		N:       1,
		Size:    g.size,
		Quality: g.quality,
	}

	// gpt-image models always answer with base64 and reject the field
	if !strings.HasPrefix(g.model, "gpt-image") {
		req.ResponseFormat = openai.CreateImageResponseFormatB64JSON
	}
	if g.model == openai.CreateImageModelDallE3 {
		req.Style = g.style
	}
	return req
}

func (g *OpenAIGenerator) wrapError(err error) error {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return &GenerationError{Provider: g.Name(), Message: err.Error(), Err: err}
	}

	if apiErr.HTTPStatusCode == http.StatusTooManyRequests {
		return &RateLimitError{Provider: g.Name(), Message: apiErr.Message}
	}
	return &GenerationError{
		Provider: g.Name(),
		Code:     strconv.Itoa(apiErr.HTTPStatusCode),
		Message:  apiErr.Message,
		Err:      err,
	}
}

// Name returns the provider name
func (g *OpenAIGenerator) Name() string {
	return ProviderOpenAI
}

// Model returns the model in use
func (g *OpenAIGenerator) Model() string {
	return g.model
}

// PricePerImage returns the list price for the configured model, size and
// quality
func (g *OpenAIGenerator) PricePerImage() float64 {
	return prompt.PricePerImage(g.model, g.size, g.quality)
}
