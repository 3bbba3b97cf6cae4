package image

import (
	"context"
	"fmt"
	"time"

	"codeberg.org/snonux/babycards/internal"
)

// Generator turns a prompt into encoded image bytes
type Generator interface {
	// Generate returns the image for prompt, typically a PNG
	Generate(ctx context.Context, prompt string) ([]byte, error)

	// Name returns the provider name
	Name() string

	// Model returns the model identifier used for requests
	Model() string

	// PricePerImage returns the list price of one image in dollars
	PricePerImage() float64
}

// Config holds the configuration shared by image providers
type Config struct {
	Provider string // "openai" or "gemini"
	Model    string // Empty selects the provider default
	Size     string // "1024x1024", "1792x1024", ...
	Quality  string // "standard" or "hd" for dall-e-3, "low".."high" for gpt-image-1
	Style    string // "vivid" or "natural", dall-e-3 only

	OpenAIKey string
	GeminiKey string
	BaseURL   string // Optional API endpoint override

	Timeout time.Duration

	// Consecutive failures after which calls are short-circuited
	// (0 disables the breaker)
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultOpenAIModel = "dall-e-3"
	DefaultGeminiModel = "gemini-2.5-flash-image"
)

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Provider:        ProviderOpenAI,
		Size:            "1024x1024",
		Timeout:         2 * time.Minute,
		BreakerFailures: 5,
		BreakerCooldown: 30 * time.Second,
	}
}

// Providers lists the supported provider names
func Providers() []string {
	return []string{ProviderOpenAI, ProviderGemini}
}

// NewGenerator creates the generator selected by config, wrapped in a
// circuit breaker when BreakerFailures is set.
func NewGenerator(ctx context.Context, config *Config) (Generator, error) {
	if config == nil {
		config = DefaultConfig()
	}

	var (
		gen Generator
		err error
	)
	switch config.Provider {
	case ProviderOpenAI, "":
		if config.OpenAIKey == "" {
			return nil, internal.NewConfigError("OpenAI API key is required",
				"set OPENAI_API_KEY or image.openai_key in ~/.babycards.yaml")
		}
		gen, err = NewOpenAIGenerator(config)
	case ProviderGemini:
		if config.GeminiKey == "" {
			return nil, internal.NewConfigError("Gemini API key is required",
				"set GEMINI_API_KEY (or GOOGLE_API_KEY) or image.gemini_key in ~/.babycards.yaml")
		}
		gen, err = NewGeminiGenerator(ctx, config)
	default:
		return nil, internal.NewConfigError(
			fmt.Sprintf("unknown image provider: %s", config.Provider),
			fmt.Sprintf("use one of %v", Providers()))
	}
	if err != nil {
		return nil, err
	}

	if config.BreakerFailures > 0 {
		gen = NewBreakerGenerator(gen, config.BreakerFailures, config.BreakerCooldown)
	}
	return gen, nil
}
