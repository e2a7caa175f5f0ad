package listener

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync/atomic"

	"github.com/WinUP/dlcs-core/internal/registry"
	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/pkg/slogx"
	"github.com/fogfish/opts"
)

// Traversal selects when a node's own receiver runs relative to its
// children during a publish.
type Traversal int

const (
	// TopDown runs a node's receiver before descending into its
	// children.
	TopDown Traversal = iota
	// BottomUp runs the children first and the node's own receiver
	// last.
	BottomUp
)

// WithTraversal selects the traversal order for every publish made
// through the engine. The default is TopDown.
var WithTraversal = opts.ForName[Engine, Traversal]("traversal")

// Stats carries the dispatch counters of an engine.
type Stats struct {
	// Published counts publish and broadcast entries per tree.
	Published uint64
	// Delivered counts receiver invocations that ran to completion,
	// including the one that stopped a publish.
	Delivered uint64
	// Stopped counts publishes consumed by a receiver.
	Stopped uint64
	// Failed counts publishes aborted by a receiver error.
	Failed uint64
}

// Engine dispatches messages through listener trees and keeps the
// top-level registry publishers broadcast through. Registry lookups are
// safe from any goroutine; tree mutation and dispatch assume a single
// logical owner.
type Engine struct {
	traversal Traversal
	roots     registry.Registry[*registration]
	seq       atomic.Uint64

	published atomic.Uint64
	delivered atomic.Uint64
	stopped   atomic.Uint64
	failed    atomic.Uint64
}

type registration struct {
	node *Node
	seq  uint64
}

// NewEngine creates an engine. It panics when an option cannot be
// applied.
func NewEngine(options ...opts.Option[Engine]) *Engine {
	e := &Engine{
		roots: registry.New[*registration](),
	}
	if err := opts.Apply(e, options); err != nil {
		panic(err)
	}
	return e
}

// Register adds a root to the top-level registry so Broadcast reaches
// it. Destroying the node removes it again.
func (e *Engine) Register(root *Node) error {
	if root == nil {
		return errors.New("register: root is nil")
	}
	if root.destroyed {
		return fmt.Errorf("register %q: %w", root.identity, ErrDestroyed)
	}

	e.roots.Add(root.id, &registration{node: root, seq: e.seq.Add(1)})
	root.onDestroy = func() { e.roots.Del(root.id) }

	slog.Debug("listener tree registered", slogx.Listener(root.identity))
	return nil
}

// Deregister removes a root from the top-level registry. Unknown roots
// and nil are ignored.
func (e *Engine) Deregister(root *Node) {
	if root == nil {
		return
	}
	e.roots.Del(root.id)
	root.onDestroy = nil

	slog.Debug("listener tree deregistered", slogx.Listener(root.identity))
}

// Roots returns the registered roots in broadcast order: descending
// priority, ties broken by registration order.
func (e *Engine) Roots() []*Node {
	regs := make([]*registration, 0, e.roots.Len())
	e.roots.ForEach(func(_ string, r *registration) bool {
		regs = append(regs, r)
		return true
	})

	slices.SortFunc(regs, func(a, b *registration) int {
		if a.node.priority != b.node.priority {
			return cmp.Compare(b.node.priority, a.node.priority)
		}
		return cmp.Compare(a.seq, b.seq)
	})

	nodes := make([]*Node, 0, len(regs))
	for _, r := range regs {
		nodes = append(nodes, r.node)
	}
	return nodes
}

// Publish walks the subtree under root with the message and returns the
// message as the receivers left it. An inactive root returns the
// message unchanged; a destroyed root reports ErrDestroyed. A receiver
// returning message.Stop ends the walk gracefully, any other receiver
// error aborts the publish.
func (e *Engine) Publish(ctx context.Context, root *Node, msg message.Message) (message.Message, error) {
	if root == nil {
		return msg, errors.New("publish: root is nil")
	}
	if root.destroyed {
		return msg, fmt.Errorf("publish to %q: %w", root.identity, ErrDestroyed)
	}
	result, err := e.publish(ctx, root, msg)
	return e.finish(result, err)
}

// Broadcast publishes the message through every registered root in
// broadcast order, threading the possibly mutated message from tree to
// tree. message.Stop in one tree stops the remaining trees as well.
func (e *Engine) Broadcast(ctx context.Context, msg message.Message) (message.Message, error) {
	var err error
	for _, root := range e.Roots() {
		if root.destroyed {
			continue
		}
		msg, err = e.publish(ctx, root, msg)
		if err != nil {
			break
		}
	}
	return e.finish(msg, err)
}

// Stats returns a snapshot of the dispatch counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Published: e.published.Load(),
		Delivered: e.delivered.Load(),
		Stopped:   e.stopped.Load(),
		Failed:    e.failed.Load(),
	}
}

func (e *Engine) publish(ctx context.Context, root *Node, msg message.Message) (message.Message, error) {
	e.published.Add(1)
	if !root.Active() {
		return msg, nil
	}
	return e.walk(ctx, root, msg)
}

func (e *Engine) finish(msg message.Message, err error) (message.Message, error) {
	switch {
	case err == nil:
		return msg, nil
	case errors.Is(err, message.Stop):
		e.stopped.Add(1)
		return msg, nil
	default:
		e.failed.Add(1)
		return msg, err
	}
}

// walk visits a node known to be reached enabled. Children run in the
// stored sibling order; a disabled child hides its whole subtree.
func (e *Engine) walk(ctx context.Context, node *Node, msg message.Message) (message.Message, error) {
	var err error

	if e.traversal == TopDown {
		if msg, err = e.deliver(ctx, node, msg); err != nil {
			return msg, err
		}
	}

	for _, child := range node.children {
		if !child.enabled {
			continue
		}
		if msg, err = e.walk(ctx, child, msg); err != nil {
			return msg, err
		}
	}

	if e.traversal == BottomUp {
		if msg, err = e.deliver(ctx, node, msg); err != nil {
			return msg, err
		}
	}

	return msg, nil
}

func (e *Engine) deliver(ctx context.Context, node *Node, msg message.Message) (message.Message, error) {
	if node.receiver == nil || !node.accepts(msg) {
		return msg, nil
	}

	next, err := node.receiver(ctx, msg)
	if err != nil {
		if errors.Is(err, message.Stop) {
			e.delivered.Add(1)
			return next, err
		}
		slog.Error("receiver failed", slogx.Listener(node.identity), slogx.Error(err))
		return msg, fmt.Errorf("listener %q: %w", node.identity, err)
	}

	e.delivered.Add(1)
	return next, nil
}
