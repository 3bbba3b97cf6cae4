// Package prompt builds image generation prompts from vocabulary words and
// style presets, and estimates what a batch will cost.
package prompt

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"codeberg.org/snonux/babycards/internal"
)

// AllStyles selects every preset
const AllStyles = "all"

// Styles maps a preset key to the style phrase put in front of the prompt
var Styles = map[string]string{
	"crayon":     "Children's crayon drawing, bold outlines, bright colors, waxy texture",
	"doodle":     "Simple hand-drawn doodle, clean black lines, minimal shading, high contrast",
	"pencil":     "Soft pencil sketch, light shading, gentle graphite texture, minimal color",
	"simple":     "Simple cool image of the requested object",
	"watercolor": "Playful watercolor wash, soft gradients, organic textures, storybook vibe",
	"mosaic":     "Pale glass mosaic, thick black outlines, soft light rays, drifting dust, moody atmosphere",
	"elvish":     "Elven craftsmanship, dark emerald and gold accents, metallic shine, intricate filigree, magical glow",
}

// StyleKeys returns the preset keys sorted
func StyleKeys() []string {
	keys := make([]string, 0, len(Styles))
	for k := range Styles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StyleDescription returns custom when it is set, otherwise the preset for
// key. An unknown key without a custom description is a configuration
// error.
func StyleDescription(key, custom string) (string, error) {
	if custom = strings.TrimSpace(custom); custom != "" {
		return custom, nil
	}
	if desc, ok := Styles[key]; ok {
		return desc, nil
	}
	return "", internal.NewConfigError(
		fmt.Sprintf("unknown style %q", key),
		"try one of: "+strings.Join(StyleKeys(), ", "),
	)
}

// ResolveStyles expands a --style value into the keys to process. An empty
// value or "all" selects every preset.
func ResolveStyles(style string) ([]string, error) {
	style = strings.ToLower(strings.TrimSpace(style))
	if style == "" || style == AllStyles {
		return StyleKeys(), nil
	}

	var keys []string
	for _, k := range strings.Split(style, ",") {
		k = strings.TrimSpace(k)
		if _, err := StyleDescription(k, ""); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// Build returns the generation prompt for word in the given style
func Build(word, styleDescription string) string {
	return fmt.Sprintf(
		"%s. Clear, centered illustration of '%s'. Child-friendly, 1:1 aspect ratio, high contrast, no text.",
		strings.TrimRight(strings.TrimSpace(styleDescription), "."),
		internal.DisplayWord(word),
	)
}

// EstimateCost returns count images at pricePerImage dollars each
func EstimateCost(count int, pricePerImage float64) float64 {
	if count <= 0 {
		return 0
	}
	return math.Round(float64(count)*pricePerImage*1e6) / 1e6
}

// Filename is the file an illustration of word in style is stored as
func Filename(style, word string) string {
	return style + "_" + internal.WordSlug(word) + ".png"
}
