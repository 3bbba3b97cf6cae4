// Package models lists the image generation models that the configured
// OpenAI and Gemini API keys can use.
package models
