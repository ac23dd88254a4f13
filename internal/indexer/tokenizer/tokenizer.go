// Package tokenizer turns document text and query words into index terms.
// A word is reduced to its ASCII letters, lower-cased and stemmed with the
// Snowball English stemmer; stop words are dropped from document text.
package tokenizer

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/kljensen/snowball/english"
)

// StopWords is a set of lower-case words excluded from indexing.
type StopWords map[string]struct{}

func NewStopWords(words ...string) StopWords {
	s := make(StopWords, len(words))
	for _, w := range words {
		s[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// DefaultStopWords returns a fresh copy of the built-in English list.
func DefaultStopWords() StopWords {
	return NewStopWords(englishStopWords...)
}

// LoadStopWords reads one word per line. Blank lines and lines starting with
// '#' are skipped.
func LoadStopWords(path string) (StopWords, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stop words file: %w", err)
	}
	defer f.Close()

	s := make(StopWords)
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		w := strings.TrimSpace(sc.Text())
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		s[strings.ToLower(w)] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading stop words file: %w", err)
	}
	return s, nil
}

func (s StopWords) Contains(word string) bool {
	_, ok := s[word]
	return ok
}

// Normalizer is safe for concurrent use once built.
type Normalizer struct {
	stop StopWords
}

// New returns a Normalizer dropping the given stop words, or the built-in
// list when stop is nil.
func New(stop StopWords) *Normalizer {
	if stop == nil {
		stop = DefaultStopWords()
	}
	return &Normalizer{stop: stop}
}

// Tokenize splits text on whitespace and returns the index terms in order.
// Words that clean to nothing and stop words, before or after stemming, are
// dropped.
func (n *Normalizer) Tokenize(text string) []string {
	fields := strings.Fields(text)
	terms := make([]string, 0, len(fields))
	for _, field := range fields {
		word := clean(field)
		if word == "" || n.stop.Contains(word) {
			continue
		}
		stemmed := english.Stem(word, true)
		if stemmed == "" || n.stop.Contains(stemmed) {
			continue
		}
		terms = append(terms, stemmed)
	}
	return terms
}

// NormalizeTerm applies the same cleaning and stemming as Tokenize to a single
// query word but keeps stop words. The result may be empty.
func (n *Normalizer) NormalizeTerm(term string) string {
	word := clean(term)
	if word == "" {
		return ""
	}
	return english.Stem(word, true)
}

// SplitNames breaks an entity name into the whitespace-separated tokens that
// are indexed for it. Names are not otherwise normalized.
func SplitNames(name string) []string {
	return strings.Fields(name)
}

// clean keeps the ASCII letters of word, lower-cased.
func clean(word string) string {
	var b strings.Builder
	b.Grow(len(word))
	for i := 0; i < len(word); i++ {
		c := word[i]
		switch {
		case c >= 'a' && c <= 'z':
			b.WriteByte(c)
		case c >= 'A' && c <= 'Z':
			b.WriteByte(c + ('a' - 'A'))
		}
	}
	return b.String()
}
