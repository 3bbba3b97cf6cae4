package image

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerGenerator stops calling a provider after repeated consecutive
// failures and lets one probe through once the cooldown has passed. It
// never retries a failed call.
type BreakerGenerator struct {
	Generator
	cb *gobreaker.CircuitBreaker
}

// NewBreakerGenerator wraps gen in a circuit breaker that opens after
// failures consecutive errors
func NewBreakerGenerator(gen Generator, failures uint32, cooldown time.Duration) *BreakerGenerator {
	if failures == 0 {
		failures = 1
	}
	return &BreakerGenerator{
		Generator: gen,
		cb: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        gen.Name(),
			MaxRequests: 1,
			Timeout:     cooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= failures
			},
			// A cancelled run says nothing about the provider
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, context.Canceled)
			},
		}),
	}
}

// Generate calls the wrapped generator unless the breaker is open
func (b *BreakerGenerator) Generate(ctx context.Context, text string) ([]byte, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.Generator.Generate(ctx, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: skipped after repeated failures: %w", b.Name(), err)
		}
		return nil, err
	}
	img, _ := out.([]byte)
	return img, nil
}

// State returns the breaker state: "closed", "half-open" or "open"
func (b *BreakerGenerator) State() string {
	return b.cb.State().String()
}
