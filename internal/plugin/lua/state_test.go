package lua

import (
	"errors"
	"strings"
	"testing"
	"time"

	glua "github.com/yuin/gopher-lua"
)

func TestNewState(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	if state.IsClosed() {
		t.Error("NewState() returned closed state")
	}
}

func TestStateDoString(t *testing.T) {
	state, err := NewState()
	if err != nil {
		t.Fatalf("NewState() error = %v", err)
	}
	defer state.Close()

	if err := state.DoString(`x = math.sqrt(16) + 1`); err != nil {
		t.Fatalf("DoString() error = %v", err)
	}

	v := state.GetGlobal("x")
	if num, ok := v.(glua.LNumber); !ok || float64(num) != 5 {
		t.Errorf("x = %v, want 5", v)
	}
}

func TestStateCall(t *testing.T) {
	state, _ := NewState()
	defer state.Close()

	if err := state.DoString(`function add(a, b) return a + b, "extra" end`); err != nil {
		t.Fatal(err)
	}

	ret, err := state.Call("add", glua.LNumber(2), glua.LNumber(3))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if len(ret) != 2 || ret[0] != glua.LNumber(5) {
		t.Errorf("Call() = %v", ret)
	}

	if _, err := state.Call("missing"); err == nil {
		t.Error("Call(missing) should fail")
	}
	if err := state.DoString(`notfn = 3`); err != nil {
		t.Fatal(err)
	}
	if _, err := state.Call("notfn"); err == nil {
		t.Error("Call(non-function) should fail")
	}
}

func TestStateCallError(t *testing.T) {
	state, _ := NewState()
	defer state.Close()

	_ = state.DoString(`function boom() error("kaboom") end`)
	_, err := state.Call("boom")
	if err == nil || !strings.Contains(err.Error(), "kaboom") {
		t.Errorf("Call(boom) error = %v", err)
	}

	// The state stays usable
	if err := state.DoString(`y = 1`); err != nil {
		t.Errorf("DoString() after error = %v", err)
	}
}

func TestStateTimeout(t *testing.T) {
	state, _ := NewState(WithExecutionTimeout(50 * time.Millisecond))
	defer state.Close()

	err := state.DoString(`while true do end`)
	if !errors.Is(err, ErrExecutionTimeout) {
		t.Errorf("infinite loop error = %v, want ErrExecutionTimeout", err)
	}
}

func TestSandbox(t *testing.T) {
	var printed []string
	state, _ := NewState(WithPrinter(func(s string) { printed = append(printed, s) }))
	defer state.Close()

	blocked := []string{"io", "os", "debug", "dofile", "loadfile", "load", "loadstring"}
	for _, name := range blocked {
		if v := state.GetGlobal(name); v != glua.LNil {
			t.Errorf("global %s should not be available, got %s", name, v.Type())
		}
	}

	if err := state.DoString(`require("os")`); err == nil {
		t.Error("require should be refused")
	}

	if err := state.DoString(`print("hello", 42)`); err != nil {
		t.Fatal(err)
	}
	if len(printed) != 1 || printed[0] != "hello\t42" {
		t.Errorf("printed = %q", printed)
	}
}

func TestStateClosed(t *testing.T) {
	state, _ := NewState()
	if err := state.Close(); err != nil {
		t.Fatal(err)
	}
	if err := state.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if err := state.DoString(`x = 1`); !errors.Is(err, ErrStateClosed) {
		t.Errorf("DoString() after close = %v", err)
	}
	if _, err := state.Call("x"); !errors.Is(err, ErrStateClosed) {
		t.Errorf("Call() after close = %v", err)
	}
	if _, err := state.NewTable(nil); !errors.Is(err, ErrStateClosed) {
		t.Errorf("NewTable() after close = %v", err)
	}
	if state.GetGlobal("x") != glua.LNil {
		t.Error("GetGlobal() after close should be nil")
	}
}
