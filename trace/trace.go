// Package trace records what a pattern tree does while it matches.
//
// Instrument builds a parallel tree in which every node is wrapped by
// a decorator that logs entry, each yielded candidate and exhaustion
// to a Tracer. The original tree is never modified; wrapping a tree
// that is concurrently matching elsewhere is safe. The instrumented
// root implements syntax.Node, so it can be matched directly or
// re-rooted into a Pattern via backrex.FromNode.
package trace

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/coregx/backrex/syntax"
)

// Op is the lifecycle stage an Event records.
type Op uint8

const (
	// OpEnter marks a node starting to enumerate at a position.
	OpEnter Op = iota
	// OpYield marks one candidate end position produced by a node.
	OpYield
	// OpExit marks a node done enumerating, whether it ran out of
	// candidates or its consumer stopped early.
	OpExit
)

func (op Op) String() string {
	switch op {
	case OpEnter:
		return "ENTER"
	case OpYield:
		return "MATCH"
	case OpExit:
		return "EXIT"
	}
	return "UNKNOWN"
}

// Event is one recorded step. End is meaningful only for OpYield.
type Event struct {
	Op   Op
	Kind syntax.Kind
	Pos  int
	End  int
}

func (e Event) String() string {
	if e.Op == OpYield {
		return fmt.Sprintf("%s %s %d->%d", e.Op, e.Kind, e.Pos, e.End)
	}
	return fmt.Sprintf("%s %s pos=%d", e.Op, e.Kind, e.Pos)
}

// Tracer collects events from one or more instrumented trees. It is
// safe for concurrent use; events from concurrent matches interleave
// in record order. Each Tracer carries a session ID so dumps from
// different sessions can be told apart.
type Tracer struct {
	id string

	mu     sync.Mutex
	events []Event
}

// New returns an empty Tracer with a fresh session ID.
func New() *Tracer {
	return &Tracer{id: uuid.NewString()}
}

// SessionID returns the identifier assigned at New.
func (t *Tracer) SessionID() string { return t.id }

func (t *Tracer) record(ev Event) {
	t.mu.Lock()
	t.events = append(t.events, ev)
	t.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (t *Tracer) Events() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.events)
}

// Lines renders the recorded events one per entry.
func (t *Tracer) Lines() []string {
	events := t.Events()
	lines := make([]string, len(events))
	for i, ev := range events {
		lines[i] = ev.String()
	}
	return lines
}

// Dump writes the recorded events to w, one per line.
func (t *Tracer) Dump(w io.Writer) error {
	for _, ev := range t.Events() {
		if _, err := fmt.Fprintln(w, ev); err != nil {
			return err
		}
	}
	return nil
}

// Reset discards recorded events. The session ID is kept.
func (t *Tracer) Reset() {
	t.mu.Lock()
	t.events = t.events[:0]
	t.mu.Unlock()
}

// Instrument returns a tree that enumerates exactly like root while
// reporting every node's activity to tr.
func Instrument(root syntax.Node, tr *Tracer) syntax.Node {
	return &traced{inner: rebuild(root, tr), tracer: tr}
}

// rebuild clones the composite shell of n with instrumented children.
// Leaves carry no children and are shared as-is; their wrapping
// happens in Instrument.
func rebuild(n syntax.Node, tr *Tracer) syntax.Node {
	switch v := n.(type) {
	case *syntax.Sequence:
		nodes := make([]syntax.Node, len(v.Nodes))
		for i, sub := range v.Nodes {
			nodes[i] = Instrument(sub, tr)
		}
		return &syntax.Sequence{Nodes: nodes}
	case *syntax.Alternation:
		return &syntax.Alternation{
			Left:  Instrument(v.Left, tr),
			Right: Instrument(v.Right, tr),
		}
	case *syntax.Star:
		return &syntax.Star{Sub: Instrument(v.Sub, tr)}
	case *syntax.Plus:
		return &syntax.Plus{Sub: Instrument(v.Sub, tr)}
	case *syntax.Question:
		return &syntax.Question{Sub: Instrument(v.Sub, tr)}
	case *syntax.LazyStar:
		return &syntax.LazyStar{Sub: Instrument(v.Sub, tr)}
	case *syntax.LazyPlus:
		return &syntax.LazyPlus{Sub: Instrument(v.Sub, tr)}
	case *syntax.LazyQuestion:
		return &syntax.LazyQuestion{Sub: Instrument(v.Sub, tr)}
	case *syntax.Group:
		return &syntax.Group{Sub: Instrument(v.Sub, tr)}
	case *syntax.Lookahead:
		return &syntax.Lookahead{Sub: Instrument(v.Sub, tr), Positive: v.Positive}
	case *syntax.Lookbehind:
		return &syntax.Lookbehind{Sub: Instrument(v.Sub, tr), Positive: v.Positive}
	}
	return n
}

// traced decorates one node. Kind and Children delegate to the
// rebuilt inner node, so walking an instrumented tree shows the
// original shape with instrumented children.
type traced struct {
	inner  syntax.Node
	tracer *Tracer
}

func (n *traced) Kind() syntax.Kind       { return n.inner.Kind() }
func (n *traced) Children() []syntax.Node { return n.inner.Children() }

func (n *traced) Match(text []rune, pos int) iter.Seq[int] {
	return func(yield func(int) bool) {
		n.tracer.record(Event{Op: OpEnter, Kind: n.inner.Kind(), Pos: pos})
		// Exit is recorded even when the consumer abandons the
		// enumeration early, so a trace always balances.
		defer n.tracer.record(Event{Op: OpExit, Kind: n.inner.Kind(), Pos: pos})
		for end := range n.inner.Match(text, pos) {
			n.tracer.record(Event{Op: OpYield, Kind: n.inner.Kind(), Pos: pos, End: end})
			if !yield(end) {
				return
			}
		}
	}
}
