package image

import "fmt"

// GenerationError represents a failed call to an image provider
type GenerationError struct {
	Provider string
	Code     string
	Message  string
	Err      error
}

func (e *GenerationError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Provider, e.Message, e.Code)
	}
	return e.Provider + ": " + e.Message
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates that the provider's rate limit has been exceeded
type RateLimitError struct {
	Provider string
	Message  string
}

func (e *RateLimitError) Error() string {
	return e.Provider + ": rate limit exceeded: " + e.Message
}
