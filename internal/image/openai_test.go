package image

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"codeberg.org/snonux/babycards/internal/testutil"
)

// fakeOpenAI serves /v1/images/generations and records the last request
type fakeOpenAI struct {
	status  int
	body    string
	lastReq map[string]any
}

func (f *fakeOpenAI) start(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/images/generations", func(w http.ResponseWriter, r *http.Request) {
		f.lastReq = map[string]any{}
		_ = json.NewDecoder(r.Body).Decode(&f.lastReq)
		w.Header().Set("Content-Type", "application/json")
		if f.status != 0 {
			w.WriteHeader(f.status)
		}
		w.Write([]byte(f.body))
	})
	mux.HandleFunc("/files/generated.png", func(w http.ResponseWriter, r *http.Request) {
		w.Write(testutil.PNGData())
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNewOpenAIGenerator(t *testing.T) {
	tests := []struct {
		name        string
		config      *Config
		wantErr     bool
		wantModel   string
		wantQuality string
	}{
		{
			name:    "without API key",
			config:  &Config{},
			wantErr: true,
		},
		{
			name:        "with defaults",
			config:      &Config{OpenAIKey: "test-key"},
			wantModel:   "dall-e-3",
			wantQuality: "standard",
		},
		{
			name:        "gpt-image keeps empty quality",
			config:      &Config{OpenAIKey: "test-key", Model: "gpt-image-1"},
			wantModel:   "gpt-image-1",
			wantQuality: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gen, err := NewOpenAIGenerator(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewOpenAIGenerator() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if gen.Model() != tt.wantModel {
				t.Errorf("Model() = %s, want %s", gen.Model(), tt.wantModel)
			}
			if gen.quality != tt.wantQuality {
				t.Errorf("quality = %q, want %q", gen.quality, tt.wantQuality)
			}
			if gen.size != "1024x1024" {
				t.Errorf("Expected default size 1024x1024, got %s", gen.size)
			}
		})
	}
}

func TestOpenAIGenerator_Generate_B64(t *testing.T) {
	png := testutil.PNGData()
	fake := &fakeOpenAI{
		body: `{"created":1,"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString(png) + `"}]}`,
	}
	srv := fake.start(t)

	gen, err := NewOpenAIGenerator(&Config{OpenAIKey: "k", BaseURL: srv.URL + "/v1", Style: "vivid"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := gen.Generate(context.Background(), "a dog")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if string(got) != string(png) {
		t.Errorf("Generate() = %v, want %v", got, png)
	}

	if fake.lastReq["prompt"] != "a dog" {
		t.Errorf("prompt = %v", fake.lastReq["prompt"])
	}
	if fake.lastReq["response_format"] != "b64_json" {
		t.Errorf("response_format = %v, want b64_json", fake.lastReq["response_format"])
	}
	if fake.lastReq["style"] != "vivid" {
		t.Errorf("style = %v, want vivid", fake.lastReq["style"])
	}
}

func TestOpenAIGenerator_Generate_URL(t *testing.T) {
	fake := &fakeOpenAI{}
	srv := fake.start(t)
	fake.body = `{"created":1,"data":[{"url":"` + srv.URL + `/files/generated.png"}]}`

	gen, err := NewOpenAIGenerator(&Config{OpenAIKey: "k", BaseURL: srv.URL + "/v1", Model: "dall-e-2"})
	if err != nil {
		t.Fatal(err)
	}

	got, err := gen.Generate(context.Background(), "a cat")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(got) != len(testutil.PNGData()) {
		t.Errorf("Expected downloaded PNG, got %d bytes", len(got))
	}
}

func TestOpenAIGenerator_GptImageOmitsResponseFormat(t *testing.T) {
	fake := &fakeOpenAI{
		body: `{"created":1,"data":[{"b64_json":"` + base64.StdEncoding.EncodeToString([]byte("x")) + `"}]}`,
	}
	srv := fake.start(t)

	gen, _ := NewOpenAIGenerator(&Config{OpenAIKey: "k", BaseURL: srv.URL + "/v1", Model: "gpt-image-1", Style: "vivid"})
	if _, err := gen.Generate(context.Background(), "a cow"); err != nil {
		t.Fatal(err)
	}
	if _, ok := fake.lastReq["response_format"]; ok {
		t.Errorf("response_format must not be sent for gpt-image models")
	}
	if _, ok := fake.lastReq["style"]; ok {
		t.Errorf("style must not be sent for gpt-image models")
	}
}

func TestOpenAIGenerator_Errors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		rateLimit bool
		code      string
	}{
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error":{"message":"slow down","type":"requests"}}`,
			rateLimit: true,
		},
		{
			name:   "content policy",
			status: http.StatusBadRequest,
			body:   `{"error":{"message":"rejected","type":"invalid_request_error"}}`,
			code:   "400",
		},
		{
			name: "empty data",
			body: `{"created":1,"data":[]}`,
			code: "EMPTY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeOpenAI{status: tt.status, body: tt.body}
			srv := fake.start(t)
			gen, _ := NewOpenAIGenerator(&Config{OpenAIKey: "k", BaseURL: srv.URL + "/v1"})

			_, err := gen.Generate(context.Background(), "a pig")
			if err == nil {
				t.Fatal("Expected error")
			}

			var rlErr *RateLimitError
			if got := errors.As(err, &rlErr); got != tt.rateLimit {
				t.Errorf("RateLimitError = %v, want %v (%v)", got, tt.rateLimit, err)
			}
			if tt.code != "" {
				var genErr *GenerationError
				if !errors.As(err, &genErr) {
					t.Fatalf("Expected GenerationError, got %T", err)
				}
				if genErr.Code != tt.code {
					t.Errorf("Code = %s, want %s", genErr.Code, tt.code)
				}
			}
		})
	}
}

func TestOpenAIGenerator_PricePerImage(t *testing.T) {
	gen, _ := NewOpenAIGenerator(&Config{OpenAIKey: "k", Quality: "hd"})
	if p := gen.PricePerImage(); p != 0.08 {
		t.Errorf("PricePerImage() = %v, want 0.08", p)
	}
	if gen.Name() != "openai" {
		t.Errorf("Name() = %s, want openai", gen.Name())
	}
}

// Integration test (skipped by default)
func TestOpenAIGenerator_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" || os.Getenv("BABYCARDS_INTEGRATION") == "" {
		t.Skip("OPENAI_API_KEY or BABYCARDS_INTEGRATION not set, skipping integration test")
	}

	gen, err := NewOpenAIGenerator(&Config{OpenAIKey: apiKey, Model: "dall-e-2", Size: "256x256"})
	if err != nil {
		t.Fatal(err)
	}
	img, err := gen.Generate(context.Background(), "Simple cool image of the requested object. Clear, centered illustration of 'apple'.")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if len(img) == 0 {
		t.Error("Empty image")
	}
}
