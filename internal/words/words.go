package words

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// WordEntry is one vocabulary item of a word set
type WordEntry struct {
	English     string
	Translation string
}

// WordSet is a named group of words in source order
type WordSet struct {
	Name  string
	Words []WordEntry
}

// ParseError is returned when a source contains no word set declarations
type ParseError struct {
	Source string
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Source, e.Msg)
}

// MalformedBracketsError is returned when a word set's bracket block never
// closes
type MalformedBracketsError struct {
	Source string
	Set    string
	Offset int // Byte offset of the opening bracket
}

func (e *MalformedBracketsError) Error() string {
	return fmt.Sprintf("%s: unmatched bracket in word set %q at offset %d", e.Source, e.Set, e.Offset)
}

var (
	setPattern  = regexp.MustCompile(`RandomWordSet\(\s*name:\s*"([^"]+)"[^\[]*\[`)
	wordPattern = regexp.MustCompile(`RandomWord\(\s*english:\s*"([^"]+)"\s*,\s*translation:\s*"([^"]*)"\s*\)`)
)

//go:embed default_sets.swift
var defaultSource string

// Parse extracts the word sets declared in Swift source text
func Parse(source string) ([]WordSet, error) {
	return parse("<input>", source)
}

// Load reads and parses a Swift source file
func Load(path string) ([]WordSet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read word list: %w", err)
	}
	return parse(path, string(data))
}

// LoadDefault parses the word sets bundled with the binary
func LoadDefault() ([]WordSet, error) {
	return parse("default word sets", defaultSource)
}

func parse(name, source string) ([]WordSet, error) {
	var sets []WordSet

	for _, loc := range setPattern.FindAllStringSubmatchIndex(source, -1) {
		setName := source[loc[2]:loc[3]]
		open := loc[1] - 1

		block, _, err := bracketBlock(source, open)
		if err != nil {
			return nil, &MalformedBracketsError{Source: name, Set: setName, Offset: open}
		}

		set := WordSet{Name: setName}
		for _, m := range wordPattern.FindAllStringSubmatch(block, -1) {
			set.Words = append(set.Words, WordEntry{
				English:     strings.TrimSpace(m[1]),
				Translation: strings.TrimSpace(m[2]),
			})
		}
		sets = append(sets, set)
	}

	if len(sets) == 0 {
		return nil, &ParseError{Source: name, Msg: "no word sets found"}
	}
	return sets, nil
}

// bracketBlock returns the text between the '[' at open and its matching
// ']' plus the index of that ']'. Brackets inside string literals do not
// count.
func bracketBlock(source string, open int) (string, int, error) {
	depth := 0
	inString := false

	for i := open; i < len(source); i++ {
		c := source[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return source[open+1 : i], i, nil
			}
		}
	}

	return "", -1, fmt.Errorf("unmatched bracket at offset %d", open)
}
