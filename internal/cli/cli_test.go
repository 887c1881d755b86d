package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/dshills/stackcalc/internal/app"
	"github.com/dshills/stackcalc/internal/config"
	"github.com/dshills/stackcalc/internal/event"
	"github.com/dshills/stackcalc/internal/stack"
)

func record(t *testing.T, c *CLI) *[]string {
	t.Helper()
	var tokens []string
	err := c.Attach(app.CommandEntered, event.NewObserver("rec", func(data any) error {
		tok, err := event.PayloadAs[string](data)
		tokens = append(tokens, tok)
		return err
	}))
	if err != nil {
		t.Fatal(err)
	}
	return &tokens
}

func TestCLI_BatchTokens(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("3 4 +\n\n  SWAP\tdrop\nexit\n5\n"), &out)
	tokens := record(t, c)

	if err := c.Batch(); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	want := []string{"3", "4", "+", "swap", "drop"}
	if !reflect.DeepEqual(*tokens, want) {
		t.Errorf("tokens = %q, want %q", *tokens, want)
	}
}

func TestCLI_Echo(t *testing.T) {
	var out bytes.Buffer
	c := New(strings.NewReader("1 quit"), &out, WithEcho(true))
	record(t, c)

	if err := c.Batch(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "1\nquit\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestCLI_BatchObserverError(t *testing.T) {
	c := New(strings.NewReader("1 2"), &bytes.Buffer{})
	boom := errors.New("boom")
	_ = c.Attach(app.CommandEntered, event.NewObserver("fail", func(any) error { return boom }))

	if err := c.Batch(); !errors.Is(err, boom) {
		t.Errorf("Batch() error = %v, want boom", err)
	}
}

func TestCLI_StackChanged(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		opts   []Option
		want   string
	}{
		{"empty", nil, nil, "\nStack currently empty.\n\n"},
		{"one", []float64{2.5}, nil, "\nTop element of stack (size = 1):\n1:\t2.5\n\n"},
		{"within rows", []float64{1, 2, 3}, nil,
			"\nTop 3 elements of stack (size = 3):\n3:\t1\n2:\t2\n1:\t3\n\n"},
		{"beyond rows", []float64{1, 2, 3}, []Option{WithRows(2)},
			"\nTop 2 elements of stack (size = 3):\n2:\t2\n1:\t3\n\n"},
		{"precision", []float64{1.0 / 3}, []Option{WithPrecision(4)},
			"\nTop element of stack (size = 1):\n1:\t0.3333\n\n"},
		{"default precision", []float64{2.0 / 3}, nil,
			"\nTop element of stack (size = 1):\n1:\t0.666666666667\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := stack.New()
			for _, v := range tt.values {
				_ = s.Push(v, true)
			}

			var out bytes.Buffer
			New(nil, &out, tt.opts...).StackChanged(s)
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestCLI_WithSession(t *testing.T) {
	cfg := config.New(config.WithEnvPrefix("STACKCALC_CLI_TEST_"))
	if err := cfg.Load(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = cfg.Set("plugins.manifest", filepath.Join(t.TempDir(), "plugins.pdp"))

	var out bytes.Buffer
	c := New(strings.NewReader("3 4 +\n2 /\nfoo\nexit\n9"), &out, WithRows(1))
	s, err := app.NewSession(cfg, c)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	if err := c.Batch(); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Could not open plugin file\n",
		"Top 1 elements of stack (size = 2):\n1:\t4\n",
		"Top element of stack (size = 1):\n1:\t7\n",
		"1:\t3.5\n",
		"Command foo is not a known command\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "1:\t9") {
		t.Error("input after exit was processed")
	}
}

func TestCLI_RaisesEnvelopes(t *testing.T) {
	c := New(strings.NewReader("dup"), &bytes.Buffer{})
	var got []event.Envelope
	_ = c.Attach(app.CommandEntered, event.NewObserver("env", func(data any) error {
		env, ok := data.(event.Envelope)
		if !ok {
			return fmt.Errorf("payload %T is not an envelope", data)
		}
		got = append(got, env)
		return nil
	}))

	if err := c.Batch(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Payload != "dup" || got[0].Metadata.Source != Source || got[0].Metadata.ID == "" {
		t.Errorf("envelopes = %+v", got)
	}
}

func TestCLI_LongToken(t *testing.T) {
	long := strings.Repeat("a", 70000)

	c := New(strings.NewReader(""), &bytes.Buffer{})
	tokens := record(t, c)
	done, err := c.line("1 " + long)
	if err != nil || done {
		t.Fatalf("line() = %v, %v", done, err)
	}
	if len(*tokens) != 2 || (*tokens)[1] != long {
		t.Errorf("raised %d tokens", len(*tokens))
	}

	var out bytes.Buffer
	batch := New(strings.NewReader(long+"\n2\n"), &out)
	tokens = record(t, batch)
	if err := batch.Batch(); err != nil {
		t.Fatalf("Batch() error = %v", err)
	}
	if len(*tokens) != 2 || (*tokens)[1] != "2" {
		t.Errorf("batch raised %d tokens", len(*tokens))
	}
}
