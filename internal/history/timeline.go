package history

import (
	"container/list"

	"github.com/dshills/stackcalc/internal/command"
)

// timeline is the storage behind a Manager.
type timeline interface {
	// push appends c to the undo side and returns the discarded redo side.
	push(c command.Command) []command.Command

	// lastUndo returns the next command to undo, or nil.
	lastUndo() command.Command

	// lastRedo returns the next command to redo, or nil.
	lastRedo() command.Command

	// undone moves the lastUndo command to the redo side.
	undone()

	// redone moves the lastRedo command to the undo side.
	redone()

	undoLen() int
	redoLen() int

	// drain empties the timeline and returns everything it held.
	drain() []command.Command
}

func newTimeline(s Strategy) timeline {
	switch s {
	case StrategyList:
		return newListTimeline()
	case StrategyVector:
		return &vectorTimeline{}
	default:
		return &stackTimeline{}
	}
}

// stackTimeline keeps the two sides as separate stacks.
type stackTimeline struct {
	undo []command.Command
	redo []command.Command
}

func (t *stackTimeline) push(c command.Command) []command.Command {
	discarded := t.redo
	t.redo = nil
	t.undo = append(t.undo, c)
	return discarded
}

func (t *stackTimeline) lastUndo() command.Command {
	if len(t.undo) == 0 {
		return nil
	}
	return t.undo[len(t.undo)-1]
}

func (t *stackTimeline) lastRedo() command.Command {
	if len(t.redo) == 0 {
		return nil
	}
	return t.redo[len(t.redo)-1]
}

func (t *stackTimeline) undone() {
	n := len(t.undo) - 1
	t.redo = append(t.redo, t.undo[n])
	t.undo[n] = nil
	t.undo = t.undo[:n]
}

func (t *stackTimeline) redone() {
	n := len(t.redo) - 1
	t.undo = append(t.undo, t.redo[n])
	t.redo[n] = nil
	t.redo = t.redo[:n]
}

func (t *stackTimeline) undoLen() int { return len(t.undo) }
func (t *stackTimeline) redoLen() int { return len(t.redo) }

func (t *stackTimeline) drain() []command.Command {
	all := append(t.undo, t.redo...)
	t.undo, t.redo = nil, nil
	return all
}

// vectorTimeline keeps one slice; entries before cur are on the undo
// side and entries from cur on are on the redo side.
type vectorTimeline struct {
	entries []command.Command
	cur     int
}

func (t *vectorTimeline) push(c command.Command) []command.Command {
	discarded := append([]command.Command(nil), t.entries[t.cur:]...)
	for i := t.cur; i < len(t.entries); i++ {
		t.entries[i] = nil
	}
	t.entries = append(t.entries[:t.cur], c)
	t.cur++
	return discarded
}

func (t *vectorTimeline) lastUndo() command.Command {
	if t.cur == 0 {
		return nil
	}
	return t.entries[t.cur-1]
}

func (t *vectorTimeline) lastRedo() command.Command {
	if t.cur == len(t.entries) {
		return nil
	}
	return t.entries[t.cur]
}

func (t *vectorTimeline) undone() { t.cur-- }
func (t *vectorTimeline) redone() { t.cur++ }

func (t *vectorTimeline) undoLen() int { return t.cur }
func (t *vectorTimeline) redoLen() int { return len(t.entries) - t.cur }

func (t *vectorTimeline) drain() []command.Command {
	all := t.entries
	t.entries, t.cur = nil, 0
	return all
}

// listTimeline keeps a linked list whose front element is a sentinel.
// cur is the most recently executed element, or the sentinel.
type listTimeline struct {
	l        *list.List
	sentinel *list.Element
	cur      *list.Element
	nUndo    int
	nRedo    int
}

func newListTimeline() *listTimeline {
	l := list.New()
	s := l.PushBack(nil)
	return &listTimeline{l: l, sentinel: s, cur: s}
}

func (t *listTimeline) push(c command.Command) []command.Command {
	var discarded []command.Command
	for e := t.cur.Next(); e != nil; {
		next := e.Next()
		discarded = append(discarded, t.l.Remove(e).(command.Command))
		e = next
	}
	t.cur = t.l.PushBack(c)
	t.nUndo++
	t.nRedo = 0
	return discarded
}

func (t *listTimeline) lastUndo() command.Command {
	if t.cur == t.sentinel {
		return nil
	}
	return t.cur.Value.(command.Command)
}

func (t *listTimeline) lastRedo() command.Command {
	if next := t.cur.Next(); next != nil {
		return next.Value.(command.Command)
	}
	return nil
}

func (t *listTimeline) undone() {
	t.cur = t.cur.Prev()
	t.nUndo--
	t.nRedo++
}

func (t *listTimeline) redone() {
	t.cur = t.cur.Next()
	t.nUndo++
	t.nRedo--
}

func (t *listTimeline) undoLen() int { return t.nUndo }
func (t *listTimeline) redoLen() int { return t.nRedo }

func (t *listTimeline) drain() []command.Command {
	var all []command.Command
	for e := t.sentinel.Next(); e != nil; e = e.Next() {
		all = append(all, e.Value.(command.Command))
	}
	l := list.New()
	t.l = l
	t.sentinel = l.PushBack(nil)
	t.cur = t.sentinel
	t.nUndo, t.nRedo = 0, 0
	return all
}
