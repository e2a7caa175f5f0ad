package listener

import (
	"errors"
	"fmt"
	"slices"

	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/pkg/uuidx"
)

// ErrDestroyed is reported when a destroyed node is asked to do
// anything further.
var ErrDestroyed = errors.New("listener node destroyed")

// Node is a single subscription and, through its children, a whole
// subscription tree. A node starts enabled, on message.MaskAll, with
// the accept-all tag marker set and no receiver.
//
// The builder-style mutators return the node for chaining and panic
// wrapping ErrDestroyed when the node has been destroyed. Accessors
// stay readable after destruction.
type Node struct {
	id       string
	identity string
	mask     message.Mask
	priority int
	allTags  bool
	tags     message.Matchers
	receiver message.Receiver
	enabled  bool

	parent    *Node
	children  []*Node
	destroyed bool
	onDestroy func()
}

// New creates an unattached root node with the given identity label.
// The label is for tracing and needs not be unique.
func New(identity string) *Node {
	return &Node{
		id:       uuidx.NewString(),
		identity: identity,
		mask:     message.MaskAll,
		allTags:  true,
		enabled:  true,
	}
}

func (n *Node) mustLive(op string) {
	if n.destroyed {
		panic(fmt.Errorf("%s on %q: %w", op, n.identity, ErrDestroyed))
	}
}

// SetMask replaces the mask the node is reached through.
func (n *Node) SetMask(mask message.Mask) *Node {
	n.mustLive("SetMask")
	n.mask = mask
	return n
}

// SetPriority replaces the node's priority. When the node is attached
// it is repositioned among its siblings, after any sibling that already
// carries the same priority.
func (n *Node) SetPriority(priority int) *Node {
	n.mustLive("SetPriority")
	n.priority = priority
	if p := n.parent; p != nil {
		p.removeChild(n)
		p.insertChild(n)
	}
	return n
}

// SetTags replaces the tag gate with the given matchers and clears the
// accept-all marker. With no arguments the node matches no tagged
// message at all; use SetAllTags to restore the accept-all behavior.
func (n *Node) SetTags(tags ...message.Matcher) *Node {
	n.mustLive("SetTags")
	n.allTags = false
	n.tags = message.Matchers(tags)
	return n
}

// SetAllTags restores the accept-all marker, making the node ignore
// message tags entirely.
func (n *Node) SetAllTags() *Node {
	n.mustLive("SetAllTags")
	n.allTags = true
	n.tags = nil
	return n
}

// SetReceiver replaces the function invoked when a message passes the
// node's filters. A node without a receiver is a pure grouping vertex.
func (n *Node) SetReceiver(receiver message.Receiver) *Node {
	n.mustLive("SetReceiver")
	n.receiver = receiver
	return n
}

// SetEnabled flips the node's own flag. Descendants keep their stored
// flags; they are silenced through Active while an ancestor is
// disabled.
func (n *Node) SetEnabled(enabled bool) {
	n.mustLive("SetEnabled")
	n.enabled = enabled
}

// AttachTo makes the node a child of parent, detaching it from any
// current parent first. The node is inserted at the position keeping
// the sibling list in descending priority order, after siblings of
// equal priority.
func (n *Node) AttachTo(parent *Node) error {
	if n.destroyed {
		return fmt.Errorf("attach %q: %w", n.identity, ErrDestroyed)
	}
	if parent == nil {
		return fmt.Errorf("attach %q: parent is nil", n.identity)
	}
	if parent.destroyed {
		return fmt.Errorf("attach %q to %q: %w", n.identity, parent.identity, ErrDestroyed)
	}
	if parent == n || n.contains(parent) {
		return fmt.Errorf("attach %q to %q: would create a cycle", n.identity, parent.identity)
	}

	n.Detach()
	parent.insertChild(n)
	n.parent = parent
	return nil
}

// Detach removes the node from its parent's children. Roots are left
// untouched.
func (n *Node) Detach() {
	if n.parent == nil {
		return
	}
	n.parent.removeChild(n)
	n.parent = nil
}

// Destroy tears the subtree down leaf-up, detaches the node from its
// parent and marks it unusable. Every later operation on the node or
// any former descendant reports ErrDestroyed.
func (n *Node) Destroy() error {
	if n.destroyed {
		return fmt.Errorf("destroy %q: %w", n.identity, ErrDestroyed)
	}

	for len(n.children) > 0 {
		if err := n.children[0].Destroy(); err != nil {
			return err
		}
	}

	n.Detach()
	n.destroyed = true
	n.receiver = nil
	n.tags = nil

	if n.onDestroy != nil {
		n.onDestroy()
		n.onDestroy = nil
	}
	return nil
}

// Active folds the ancestor chain: the node dispatches only while it
// and every ancestor are enabled and alive.
func (n *Node) Active() bool {
	for cur := n; cur != nil; cur = cur.parent {
		if !cur.enabled || cur.destroyed {
			return false
		}
	}
	return true
}

// ID returns the internal unique identifier of the node.
func (n *Node) ID() string { return n.id }

// Identity returns the tracing label the node was created with.
func (n *Node) Identity() string { return n.identity }

// Mask returns the mask the node is reached through.
func (n *Node) Mask() message.Mask { return n.mask }

// Priority returns the node's priority among its siblings.
func (n *Node) Priority() int { return n.priority }

// Enabled returns the node's own flag, ignoring ancestors.
func (n *Node) Enabled() bool { return n.enabled }

// Destroyed reports whether Destroy has run on the node.
func (n *Node) Destroyed() bool { return n.destroyed }

// Parent returns the current parent, nil for roots.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list in dispatch order.
func (n *Node) Children() []*Node {
	return slices.Clone(n.children)
}

// Root walks up to the tree's root.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// Size counts the nodes of the subtree, including the node itself.
func (n *Node) Size() int {
	size := 1
	for _, child := range n.children {
		size += child.Size()
	}
	return size
}

// accepts applies the mask and tag gates against a message. The
// receiver presence and the enable state are checked by the engine.
func (n *Node) accepts(msg message.Message) bool {
	if !msg.Mask.Overlaps(n.mask) {
		return false
	}
	if n.allTags {
		return true
	}
	return n.tags.AnyOf(msg.Tags...)
}

func (n *Node) contains(other *Node) bool {
	for _, child := range n.children {
		if child == other || child.contains(other) {
			return true
		}
	}
	return false
}

func (n *Node) insertChild(child *Node) {
	at := len(n.children)
	for i, sibling := range n.children {
		if sibling.priority < child.priority {
			at = i
			break
		}
	}
	n.children = slices.Insert(n.children, at, child)
}

func (n *Node) removeChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = slices.Delete(n.children, i, i+1)
			return
		}
	}
}
