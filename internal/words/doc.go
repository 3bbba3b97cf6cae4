// Package words reads the vocabulary of the application. Word sets are
// declared in Swift source as RandomWordSet(name: ..., words: [...]) blocks
// of RandomWord(english: ..., translation: ...) entries; this package parses
// them and exposes flattened, unique, translated and sampled views.
package words
