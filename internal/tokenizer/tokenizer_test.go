package tokenizer

import (
	"bufio"
	"errors"
	"reflect"
	"slices"
	"strings"
	"testing"
)

func TestTokenizer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"whitespace only", " \t\n ", nil},
		{"single", "SIN", []string{"sin"}},
		{"mixed whitespace", "3  4\t+\n\nSWAP  ", []string{"3", "4", "+", "swap"}},
		{"exponent", "1.5E-3 Dup", []string{"1.5e-3", "dup"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := FromString(tt.input)
			got := slices.Collect(tok.All())
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokens = %q, want %q", got, tt.want)
			}
			if tok.Count() != len(tt.want) {
				t.Errorf("Count() = %d, want %d", tok.Count(), len(tt.want))
			}
		})
	}
}

func TestTokenizer_Restartable(t *testing.T) {
	tok := FromString("a b c")

	first := slices.Collect(tok.All())
	second := slices.Collect(tok.All())
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass = %q, want %q", second, first)
	}

	var seen []string
	for s := range tok.All() {
		seen = append(seen, s)
		if s == "b" {
			break
		}
	}
	if !reflect.DeepEqual(seen, []string{"a", "b"}) {
		t.Errorf("early break saw %q", seen)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestTokenizer_ReadError(t *testing.T) {
	if _, err := New(failingReader{}); err == nil {
		t.Error("New() should return the read error")
	}
}

func TestTokenizer_LongTokens(t *testing.T) {
	long := strings.Repeat("A", 70000)

	tok := FromString("1 " + long + " 2")
	if got := slices.Collect(tok.All()); len(got) != 3 || got[1] != strings.ToLower(long) {
		t.Errorf("FromString kept %d tokens", len(got))
	}

	fromReader, err := New(strings.NewReader(long))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if fromReader.Count() != 1 {
		t.Errorf("Count() = %d, want 1", fromReader.Count())
	}

	if _, err := New(strings.NewReader(strings.Repeat("x", MaxTokenSize+1))); !errors.Is(err, bufio.ErrTooLong) {
		t.Errorf("New() with oversized token error = %v, want bufio.ErrTooLong", err)
	}
}
