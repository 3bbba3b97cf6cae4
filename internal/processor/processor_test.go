package processor

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/babycards/internal"
	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/fetch"
	"codeberg.org/snonux/babycards/internal/image"
	"codeberg.org/snonux/babycards/internal/report"
	"codeberg.org/snonux/babycards/internal/testutil"
)

var testNow = time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)

const testSource = `
RandomWordSet(name: "pets", words: [
    RandomWord(english: "dog", translation: "собака"),
    RandomWord(english: "cat", translation: "кошка")
]),
RandomWordSet(name: "sky", words: [
    RandomWord(english: "sky", translation: "небо"),
    RandomWord(english: "mama", translation: "мама"),
    RandomWord(english: "dog", translation: "пёс")
])
`

// newTestProcessor returns a processor writing to a buffer, with its ledger
// in a temporary directory and no stdin
func newTestProcessor(t *testing.T) (*Processor, *bytes.Buffer) {
	t.Helper()

	flags := cli.NewFlags()
	flags.LedgerPath = filepath.Join(t.TempDir(), "state", "ledger.db")

	var out bytes.Buffer
	p := NewProcessor(flags, slog.New(slog.NewTextHandler(io.Discard, nil)))
	p.out = &out
	p.in = strings.NewReader("")
	p.report = report.New(&out)
	p.fetcher = fetch.New(nil)
	p.now = func() time.Time { return testNow }
	p.newGenerator = func(context.Context, *image.Config) (image.Generator, error) {
		t.Fatal("unexpected generator construction")
		return nil, nil
	}
	return p, &out
}

func writeSource(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "RandomWordList.swift")
	testutil.CreateTestFile(t, path, []byte(testSource))
	return path
}

func TestExplicitWords(t *testing.T) {
	file := filepath.Join(t.TempDir(), "words.txt")
	testutil.CreateTestFile(t, file, []byte("# extra\nsun = солнце\nDog\n"))

	got, err := explicitWords(cli.Selection{Words: []string{"dog", "ice cream", " "}, WordsFile: file})
	require.NoError(t, err)
	assert.Equal(t, []string{"dog", "ice cream", "sun"}, got)

	_, err = explicitWords(cli.Selection{WordsFile: filepath.Join(t.TempDir(), "missing.txt")})
	assert.Error(t, err)
}

func TestSelectMappableWords(t *testing.T) {
	defaults := []string{"cat", "dog", "mama", "sky", "sun"}
	mappable := func(w string) bool { return w != "sky" && w != "sun" }

	tests := []struct {
		name    string
		sel     cli.Selection
		want    []string
		wantLen int
		wantErr bool
	}{
		{
			name: "explicit words win",
			sel:  cli.Selection{Words: []string{"sun", "sky"}, SampleSize: 2, AllDefaults: true},
			want: []string{"sky", "sun"},
		},
		{
			name: "all defaults keeps only mappable words",
			sel:  cli.Selection{AllDefaults: true},
			want: []string{"cat", "dog", "mama"},
		},
		{
			name:    "sample of mappable words",
			sel:     cli.Selection{SampleSize: 2},
			wantLen: 2,
		},
		{
			name: "sample larger than candidates",
			sel:  cli.Selection{SampleSize: 10},
			want: []string{"cat", "dog", "mama"},
		},
		{
			name:    "nothing requested",
			sel:     cli.Selection{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectMappableWords(tt.sel, defaults, mappable, 42)
			if tt.wantErr {
				assert.True(t, internal.IsConfigError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			if tt.want != nil {
				assert.Equal(t, tt.want, got)
			}
			if tt.wantLen > 0 {
				assert.Len(t, got, tt.wantLen)
				assert.Subset(t, []string{"cat", "dog", "mama"}, got)
			}
		})
	}

	t.Run("no mappable defaults", func(t *testing.T) {
		none := func(string) bool { return false }
		_, err := selectMappableWords(cli.Selection{SampleSize: 3}, defaults, none, 1)
		assert.True(t, internal.IsConfigError(err))
		_, err = selectMappableWords(cli.Selection{AllDefaults: true}, defaults, none, 1)
		assert.True(t, internal.IsConfigError(err))
	})

	t.Run("same seed same sample", func(t *testing.T) {
		first, err := selectMappableWords(cli.Selection{SampleSize: 2}, defaults, mappable, 7)
		require.NoError(t, err)
		second, err := selectMappableWords(cli.Selection{SampleSize: 2}, defaults, mappable, 7)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestSelectWords(t *testing.T) {
	defaults := []string{"cat", "dog", "sky"}

	got, err := selectWords(cli.Selection{}, defaults, 1)
	require.NoError(t, err)
	assert.Equal(t, defaults, got)

	got, err = selectWords(cli.Selection{SampleSize: 2}, defaults, 1)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Subset(t, defaults, got)

	got, err = selectWords(cli.Selection{Words: []string{"Sun"}, SampleSize: 2}, defaults, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sun"}, got)
}

func TestSeed(t *testing.T) {
	p, _ := newTestProcessor(t)
	assert.Equal(t, int64(5), p.seed(cli.Selection{Seed: 5, SeedSet: true}))
	assert.Equal(t, testNow.UnixNano(), p.seed(cli.Selection{Seed: 5}))
}

func TestRunWords(t *testing.T) {
	source := writeSource(t)

	t.Run("unique words", func(t *testing.T) {
		p, out := newTestProcessor(t)
		p.flags.Source = source
		require.NoError(t, p.RunWords())
		assert.Equal(t, "cat\ndog\nmama\nsky\n", out.String())
	})

	t.Run("translations", func(t *testing.T) {
		p, out := newTestProcessor(t)
		p.flags.Source = source
		p.flags.Words.Translations = true
		require.NoError(t, p.RunWords())
		assert.Contains(t, out.String(), "dog = собака\n")
		assert.Contains(t, out.String(), "sky = небо\n")
	})

	t.Run("sets", func(t *testing.T) {
		p, out := newTestProcessor(t)
		p.flags.Source = source
		p.flags.Words.Sets = true
		require.NoError(t, p.RunWords())
		assert.Contains(t, out.String(), "pets")
		assert.Contains(t, out.String(), "2 sets, 5 entries, 4 unique words")
	})

	t.Run("built-in sets", func(t *testing.T) {
		p, out := newTestProcessor(t)
		require.NoError(t, p.RunWords())
		assert.Contains(t, out.String(), "ice cream\n")
	})

	t.Run("missing source", func(t *testing.T) {
		p, _ := newTestProcessor(t)
		p.flags.Source = filepath.Join(t.TempDir(), "missing.swift")
		assert.Error(t, p.RunWords())
	})
}

func TestRunArchive(t *testing.T) {
	p, out := newTestProcessor(t)
	dir := filepath.Join(t.TempDir(), "crayon")
	testutil.CreateTestFile(t, filepath.Join(dir, "crayon_dog.png"), testutil.PNGData())

	require.NoError(t, p.RunArchive(dir))

	archived := filepath.Join(filepath.Dir(dir), "archive", "crayon-20250314-092653")
	testutil.AssertFileExists(t, filepath.Join(archived, "crayon_dog.png"))
	testutil.AssertFileNotExists(t, dir)
	assert.Contains(t, out.String(), archived)

	assert.Error(t, p.RunArchive(filepath.Join(t.TempDir(), "missing")))
}

func TestRunHistory(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		p, out := newTestProcessor(t)
		require.NoError(t, p.RunHistory(context.Background()))
		assert.Contains(t, out.String(), "No runs recorded")
	})

	t.Run("after a generate run", func(t *testing.T) {
		p, out := newTestProcessor(t)
		mock := useMockGenerator(p)
		p.flags.Yes = true
		p.flags.Source = writeSource(t)
		p.flags.Generate.Style = "crayon"
		p.flags.Generate.Output = t.TempDir()
		p.flags.Generate.Words = []string{"dog", "cat"}
		mock.Errors[promptFor(t, "crayon", "cat")] = errors.New("quota exceeded")

		require.NoError(t, p.RunGenerate(context.Background()))
		out.Reset()

		require.NoError(t, p.RunHistory(context.Background()))
		text := out.String()
		assert.Contains(t, text, "generate")
		assert.Contains(t, text, "mock-model")
		assert.Contains(t, text, "$0.04")
		assert.Contains(t, text, "1 runs in")
	})
}

func TestLedgerUnavailable(t *testing.T) {
	p, _ := newTestProcessor(t)

	// A regular file where the ledger directory should be
	blocker := filepath.Join(t.TempDir(), "blocker")
	testutil.CreateTestFile(t, blocker, []byte("x"))
	p.flags.LedgerPath = filepath.Join(blocker, "ledger.db")

	r := p.startRun(context.Background(), "generate", "mock", "mock-model")
	assert.Nil(t, r.ledger)
	r.record(context.Background())
	r.finish()

	_, err := os.Stat(p.flags.LedgerPath)
	assert.Error(t, err)
}
