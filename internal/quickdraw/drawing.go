package quickdraw

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Drawing is one line of a simplified Quick Draw ndjson file. Each stroke
// holds an x and a y coordinate list in the 0-255 range.
type Drawing struct {
	Word        string        `json:"word"`
	CountryCode string        `json:"countrycode"`
	Timestamp   string        `json:"timestamp"`
	Recognized  bool          `json:"recognized"`
	KeyID       string        `json:"key_id"`
	Strokes     [][][]float64 `json:"drawing"`
}

// maxLine bounds a single ndjson record
const maxLine = 4 * 1024 * 1024

// ReadDrawings decodes drawings from r and passes each to fn until fn
// returns false or the input ends
func ReadDrawings(r io.Reader, fn func(Drawing) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLine)

	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var d Drawing
		if err := json.Unmarshal(raw, &d); err != nil {
			return fmt.Errorf("line %d: failed to decode drawing: %w", line, err)
		}
		if !fn(d) {
			return nil
		}
	}
	return scanner.Err()
}

// ReadFile returns up to n recognized drawings from an ndjson file
// (n <= 0 reads all of them)
func ReadFile(path string, n int) ([]Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open drawings: %w", err)
	}
	defer f.Close()

	var out []Drawing
	err = ReadDrawings(f, func(d Drawing) bool {
		if !d.Recognized {
			return true
		}
		out = append(out, d)
		return n <= 0 || len(out) < n
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}
