package words

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const basicSource = `
let sets = [
    RandomWordSet(name: "basic", words: [
        RandomWord(english: "mama", translation: "мама"),
        RandomWord(english: "dog", translation: "собака")
    ])
]
`

func TestParseBasicSet(t *testing.T) {
	sets, err := Parse(basicSource)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	assert.Equal(t, "basic", sets[0].Name)
	assert.Equal(t, []WordEntry{
		{English: "mama", Translation: "мама"},
		{English: "dog", Translation: "собака"},
	}, sets[0].Words)

	assert.Equal(t, []string{"dog", "mama"}, UniqueWords(sets))
	assert.Equal(t, "собака", TranslationOf(sets)["dog"])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		source    string
		wantNames []string
		wantWords []int
	}{
		{
			name: "nested brackets inside a block",
			source: `RandomWordSet(name: "toys", words: [
				RandomWord(english: "ball", translation: "мяч"),
				// tags: [round, [red]]
				RandomWord(english: "doll", translation: "кукла")
			])`,
			wantNames: []string{"toys"},
			wantWords: []int{2},
		},
		{
			name: "brackets inside string literals",
			source: `RandomWordSet(name: "odd", words: [
				RandomWord(english: "box]", translation: "[коробка")
			])`,
			wantNames: []string{"odd"},
			wantWords: []int{1},
		},
		{
			name: "several sets keep source order",
			source: `RandomWordSet(name: "b", words: [RandomWord(english: "x", translation: "")])
			RandomWordSet(name: "a", words: [])`,
			wantNames: []string{"b", "a"},
			wantWords: []int{1, 0},
		},
		{
			name: "extra whitespace around entries",
			source: `RandomWordSet(  name:  "ws" , words: [
				RandomWord( english: "  cat ",   translation: " кошка " )
			])`,
			wantNames: []string{"ws"},
			wantWords: []int{1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sets, err := Parse(tt.source)
			require.NoError(t, err)

			var names []string
			var counts []int
			for _, s := range sets {
				names = append(names, s.Name)
				counts = append(counts, len(s.Words))
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantWords, counts)
		})
	}
}

func TestParseTrimsEntries(t *testing.T) {
	sets, err := Parse(`RandomWordSet(name: "ws", words: [RandomWord(english: " cat ", translation: " кошка ")])`)
	require.NoError(t, err)
	assert.Equal(t, WordEntry{English: "cat", Translation: "кошка"}, sets[0].Words[0])
}

func TestParseErrors(t *testing.T) {
	t.Run("no sets", func(t *testing.T) {
		_, err := Parse(`let x = [1, 2, 3]`)
		var perr *ParseError
		require.True(t, errors.As(err, &perr), "got %v", err)
		assert.Contains(t, perr.Error(), "no word sets found")
	})

	t.Run("unclosed block", func(t *testing.T) {
		source := `RandomWordSet(name: "broken", words: [
			RandomWord(english: "cat", translation: "кошка"),
			[nested]`
		_, err := Parse(source)
		var berr *MalformedBracketsError
		require.True(t, errors.As(err, &berr), "got %v", err)
		assert.Equal(t, "broken", berr.Set)
		assert.Equal(t, byte('['), source[berr.Offset])
	})
}

func TestFlatten(t *testing.T) {
	sets := []WordSet{
		{Name: "a", Words: []WordEntry{{English: "cat"}, {English: "dog"}}},
		{Name: "b", Words: nil},
		{Name: "c", Words: []WordEntry{{English: "dog"}, {English: "sun"}, {English: "moon"}}},
	}

	flat := Flatten(sets)
	assert.Len(t, flat, 5)
	assert.Equal(t, []string{"cat", "dog", "dog", "sun", "moon"}, EnglishOf(flat))
}

func TestUniqueWordsCaseInsensitive(t *testing.T) {
	sets := []WordSet{
		{Name: "a", Words: []WordEntry{{English: "Dog"}, {English: "apple"}, {English: "banana"}}},
		{Name: "b", Words: []WordEntry{{English: "dog"}, {English: "Apple"}, {English: "cat"}}},
	}

	got := UniqueWords(sets)
	assert.Equal(t, []string{"apple", "banana", "cat", "Dog"}, got)

	for i := 1; i < len(got); i++ {
		assert.Less(t, strings.ToLower(got[i-1]), strings.ToLower(got[i]))
	}
}

func TestSortUnique(t *testing.T) {
	got := SortUnique([]string{" zebra", "", "Ant", "ant", "  ", "bee"})
	assert.Equal(t, []string{"Ant", "bee", "zebra"}, got)
}

func TestTranslationOfFirstWins(t *testing.T) {
	sets := []WordSet{
		{Name: "colors", Words: []WordEntry{{English: "orange", Translation: "оранжевый"}}},
		{Name: "food", Words: []WordEntry{{English: "orange", Translation: "апельсин"}}},
	}
	assert.Equal(t, "оранжевый", TranslationOf(sets)["orange"])
}

func TestSample(t *testing.T) {
	sets, err := LoadDefault()
	require.NoError(t, err)
	all := UniqueWords(sets)

	t.Run("deterministic for a seed", func(t *testing.T) {
		first := Sample(sets, 7, 42)
		second := Sample(sets, 7, 42)
		assert.Len(t, first, 7)
		assert.Equal(t, first, second)
	})

	t.Run("no duplicates", func(t *testing.T) {
		got := Sample(sets, 20, 1)
		assert.Len(t, SortUnique(got), 20)
		for _, w := range got {
			assert.Contains(t, all, w)
		}
	})

	t.Run("count covers everything", func(t *testing.T) {
		for _, seed := range []int64{0, 3, 99} {
			assert.ElementsMatch(t, all, Sample(sets, len(all), seed))
			assert.ElementsMatch(t, all, Sample(sets, len(all)+10, seed))
		}
	})

	t.Run("non-positive count", func(t *testing.T) {
		assert.Empty(t, Sample(sets, 0, 1))
		assert.Empty(t, Sample(sets, -4, 1))
	})
}

func TestDescribe(t *testing.T) {
	sets, err := Parse(basicSource)
	require.NoError(t, err)
	assert.Equal(t, []SetSummary{{Name: "basic", Count: 2}}, Describe(sets))
}

func TestLoadDefault(t *testing.T) {
	sets, err := LoadDefault()
	require.NoError(t, err)
	require.Len(t, sets, 14)

	assert.Equal(t, "basic", sets[0].Name)
	assert.Equal(t, "family", sets[len(sets)-1].Name)

	translations := TranslationOf(sets)
	assert.Equal(t, "собака", translations["dog"])
	assert.Equal(t, "мороженое", translations["ice cream"])
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "RandomWordList.swift")
	require.NoError(t, os.WriteFile(path, []byte(basicSource), 0644))

	sets, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, sets, 1)

	_, err = Load(filepath.Join(dir, "missing.swift"))
	assert.Error(t, err)

	emptyPath := filepath.Join(dir, "empty.swift")
	require.NoError(t, os.WriteFile(emptyPath, []byte("import Foundation\n"), 0644))
	_, err = Load(emptyPath)
	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, emptyPath, perr.Source)
}

func TestReadWordsFile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []WordEntry
	}{
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
		{
			name:    "plain words and comments",
			content: "# animals\ncat\n\n  dog  \n",
			want:    []WordEntry{{English: "cat"}, {English: "dog"}},
		},
		{
			name:    "words with translations",
			content: "cat = кошка\nice cream = мороженое",
			want: []WordEntry{
				{English: "cat", Translation: "кошка"},
				{English: "ice cream", Translation: "мороженое"},
			},
		},
		{
			name:    "missing english side",
			content: "= кошка\ndog",
			want:    []WordEntry{{English: "dog"}},
		},
		{
			name:    "windows line endings",
			content: "cat\r\ndog = собака\r\n",
			want:    []WordEntry{{English: "cat"}, {English: "dog", Translation: "собака"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "words.txt")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			got, err := ReadWordsFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ReadWordsFile(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}
