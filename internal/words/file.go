package words

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ReadWordsFile reads a plain word list, one word per line.
// Supported line formats:
//   - "dog"            a word without translation
//   - "dog = собака"   a word with its translation
//   - "# comment"      ignored, as are blank lines
func ReadWordsFile(filename string) ([]WordEntry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read words file: %w", err)
	}
	defer f.Close()

	var entries []WordEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		english, translation, found := strings.Cut(line, "=")
		if !found {
			entries = append(entries, WordEntry{English: line})
			continue
		}

		english = strings.TrimSpace(english)
		if english == "" {
			// "= translation" carries no word to illustrate
			continue
		}
		entries = append(entries, WordEntry{
			English:     english,
			Translation: strings.TrimSpace(translation),
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read words file: %w", err)
	}
	return entries, nil
}

// EnglishOf returns the English side of each entry
func EnglishOf(entries []WordEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.English)
	}
	return out
}
