// Package listener implements the hierarchical subscription trees and
// the dispatch engine that walks them. Every component owns one tree of
// listener nodes; publishing a message traverses a tree depth-first in
// priority order, applies mask and tag filters per node, and lets each
// receiver mutate or consume the message.
//
// Design decisions:
//   - Nodes are trees: there is no separate tree type, a root is just a
//     node without a parent
//   - Children are kept in descending priority order at all times, ties
//     broken by attach order, so dispatch never sorts
//   - Enable state folds: a disabled ancestor silences its whole subtree
//     without touching the descendants' own flags
//   - Destroy cascades leaf-up and detaches the node; a destroyed node
//     rejects every further operation with ErrDestroyed
//   - Dispatch is synchronous on the caller's goroutine; the context is
//     handed to receivers untouched and the walk itself never blocks
//   - message.Stop halts the entire publish, keeping the stopping
//     receiver's message as the result
//
// Example usage:
//
//	engine := listener.NewEngine()
//
//	root := listener.New("player")
//	sounds := listener.New("sounds").
//		SetMask(0b0010).
//		SetPriority(10).
//		SetReceiver(onSound)
//	if err := sounds.AttachTo(root); err != nil {
//		return err
//	}
//
//	if err := engine.Register(root); err != nil {
//		return err
//	}
//
//	msg, err := engine.Publish(ctx, root, message.New(0b0010, payload))
//
// Structural changes (attach, destroy, re-registration) must not happen
// during an in-flight publish of the same subtree; registration and
// dispatch assume a single logical owner.
package listener
