package models

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"

	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/image"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

// Lister queries the model catalogs of the configured providers
type Lister struct {
	openai *openai.Client
	gemini *genai.Client
}

// NewLister creates clients for every provider that has an API key
func NewLister(ctx context.Context, config *image.Config) (*Lister, error) {
	if config.OpenAIKey == "" && config.GeminiKey == "" {
		return nil, internal.NewConfigError("no API key configured",
			"set OPENAI_API_KEY or GEMINI_API_KEY")
	}

	l := &Lister{}
	if config.OpenAIKey != "" {
		cc := openai.DefaultConfig(config.OpenAIKey)
		if config.BaseURL != "" {
			cc.BaseURL = config.BaseURL
		}
		l.openai = openai.NewClientWithConfig(cc)
	}

	if config.GeminiKey != "" {
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
		l.gemini = client
	}
	return l, nil
}

// ImageModels returns the sorted image model IDs per provider
func (l *Lister) ImageModels(ctx context.Context) (map[string][]string, error) {
	found := make(map[string][]string)

	if l.openai != nil {
		list, err := l.openai.ListModels(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list OpenAI models: %w", err)
		}
		for _, m := range list.Models {
			if strings.Contains(m.ID, "dall-e") || strings.Contains(m.ID, "gpt-image") {
				found[image.ProviderOpenAI] = append(found[image.ProviderOpenAI], m.ID)
			}
		}
	}

	if l.gemini != nil {
		for m, err := range l.gemini.Models.All(ctx) {
			if err != nil {
				return nil, fmt.Errorf("failed to list Gemini models: %w", err)
			}
			id := strings.TrimPrefix(m.Name, "models/")
			if strings.Contains(id, "image") || strings.HasPrefix(id, "imagen") {
				found[image.ProviderGemini] = append(found[image.ProviderGemini], id)
			}
		}
	}

	for _, ids := range found {
		sort.Strings(ids)
	}
	return found, nil
}

// Print writes the image models of each provider to w
func (l *Lister) Print(ctx context.Context, w io.Writer) error {
	found, err := l.ImageModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Available image models:")
	for _, provider := range image.Providers() {
		if (provider == image.ProviderOpenAI && l.openai == nil) ||
			(provider == image.ProviderGemini && l.gemini == nil) {
			continue
		}

		fmt.Fprintf(w, "\n%s:\n", provider)
		if len(found[provider]) == 0 {
			fmt.Fprintln(w, "  No image models found")
			continue
		}
		for _, id := range found[provider] {
			fmt.Fprintf(w, "  %s\n", id)
		}
	}
	return nil
}
