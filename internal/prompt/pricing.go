package prompt

import "strings"

// DefaultPrice is used for models missing from the price table
const DefaultPrice = 0.04

// PricePerImage returns the list price in dollars of one image for model
// at size and quality.
func PricePerImage(model, size, quality string) float64 {
	model = strings.ToLower(model)
	quality = strings.ToLower(quality)
	square := size == "" || size == "1024x1024"

	switch {
	case model == "dall-e-3":
		switch {
		case quality == "hd" && square:
			return 0.08
		case quality == "hd":
			return 0.12
		case square:
			return 0.04
		default:
			return 0.08
		}
	case model == "dall-e-2":
		switch size {
		case "256x256":
			return 0.016
		case "512x512":
			return 0.018
		default:
			return 0.02
		}
	case strings.HasPrefix(model, "gpt-image-1"):
		switch quality {
		case "low":
			return 0.011
		case "high":
			return 0.167
		default:
			return 0.042
		}
	case strings.HasPrefix(model, "gemini-") && strings.Contains(model, "image"):
		return 0.039
	}
	return DefaultPrice
}
