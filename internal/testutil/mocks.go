package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockGenerator mocks an image generator. It is safe for concurrent use.
type MockGenerator struct {
	Images map[string][]byte // Keyed by prompt
	Errors map[string]error  // Keyed by prompt
	Price  float64
	Delay  time.Duration // Simulated latency per call

	mu          sync.Mutex
	calls       []string
	inFlight    int
	maxInFlight int
}

// NewMockGenerator returns a generator that answers every prompt with a
// small fake PNG
func NewMockGenerator(price float64) *MockGenerator {
	return &MockGenerator{
		Images: map[string][]byte{},
		Errors: map[string]error{},
		Price:  price,
	}
}

// Generate mocks an image generation call
func (m *MockGenerator) Generate(ctx context.Context, prompt string) ([]byte, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.Delay):
		}
	}

	if err, ok := m.Errors[prompt]; ok {
		return nil, err
	}
	if data, ok := m.Images[prompt]; ok {
		return data, nil
	}

	// Default response
	return PNGData(), nil
}

// Name returns "mock"
func (m *MockGenerator) Name() string { return "mock" }

// Model returns "mock-model"
func (m *MockGenerator) Model() string { return "mock-model" }

// PricePerImage returns the configured price
func (m *MockGenerator) PricePerImage() float64 { return m.Price }

// Calls returns the prompts received so far
func (m *MockGenerator) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// MaxInFlight returns the highest number of concurrent Generate calls seen
func (m *MockGenerator) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

// FailingError is a ready-made error for Errors entries
func FailingError(prompt string) error {
	return fmt.Errorf("mock failure for %q", prompt)
}

// PNGData returns the PNG signature followed by a few bytes
func PNGData() []byte {
	return []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00}
}

// JPEGData returns a JPEG header
func JPEGData() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}
}
