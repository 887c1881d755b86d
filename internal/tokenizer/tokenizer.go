// Package tokenizer splits calculator input into whitespace-delimited,
// lower-cased tokens.
package tokenizer

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// MaxTokenSize is the longest token New accepts.
const MaxTokenSize = 1 << 20

// Tokenizer holds the tokens read from one input.
type Tokenizer struct {
	tokens []string
}

// New reads r to EOF and tokenizes it. A token longer than MaxTokenSize
// is an error.
func New(r io.Reader) (*Tokenizer, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), MaxTokenSize)
	sc.Split(bufio.ScanWords)

	t := &Tokenizer{}
	for sc.Scan() {
		t.tokens = append(t.tokens, strings.ToLower(sc.Text()))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("tokenize: %w", err)
	}
	return t, nil
}

// FromString tokenizes s. Tokens of any length are kept.
func FromString(s string) *Tokenizer {
	t := &Tokenizer{}
	for _, f := range strings.Fields(s) {
		t.tokens = append(t.tokens, strings.ToLower(f))
	}
	return t
}

// All returns an iterator over the tokens. It may be ranged over any
// number of times.
func (t *Tokenizer) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, tok := range t.tokens {
			if !yield(tok) {
				return
			}
		}
	}
}

// Count returns the number of tokens.
func (t *Tokenizer) Count() int {
	return len(t.tokens)
}
