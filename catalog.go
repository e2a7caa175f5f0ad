package dlcs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/WinUP/dlcs-core/cache"
	"github.com/WinUP/dlcs-core/listener"
	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/pkg/reflectx"
	"github.com/WinUP/dlcs-core/pkg/slogx"
	"github.com/WinUP/dlcs-core/resource"
	"github.com/fogfish/opts"
	om "github.com/wk8/go-ordered-map/v2"
)

// ErrMissingHandler is reported by Set when a declared method does not
// exist on the component or has the wrong signature.
var ErrMissingHandler = errors.New("declared handler missing")

var (
	// WithEngine dispatches through an existing engine instead of a
	// fresh one.
	WithEngine = opts.ForName[Catalog, *listener.Engine]("engine")
	// WithDeclarations replaces the default declaration source, which
	// consults the Declarer interface.
	WithDeclarations = opts.ForName[Catalog, DeclarationSource]("declarations")
)

// Registration carries the per-Set options.
type Registration struct {
	label    string
	priority int
}

var (
	// WithLabel overrides the root label derived from the component's
	// type name.
	WithLabel = opts.ForName[Registration, string]("label")
	// WithPriority sets the tree's priority among the engine's roots.
	WithPriority = opts.ForName[Registration, int]("priority")
)

// ResponseFilter carries the OnResponse filter options. A zero filter
// matches every response.
type ResponseFilter struct {
	address message.Matcher
	tags    message.Matchers
	params  map[string]any
}

var (
	// ForAddress filters responses by their protocol://address form.
	ForAddress = opts.ForName[ResponseFilter, message.Matcher]("address")
	// ForParams filters responses by their originating request params;
	// every given key must match the request's value exactly.
	ForParams = opts.ForName[ResponseFilter, map[string]any]("params")
)

// ForTags filters responses by their originating request tags. Every
// matcher must be satisfied, each by at least one request tag.
func ForTags(tags ...message.Matcher) opts.Option[ResponseFilter] {
	return opts.Type[ResponseFilter](func(f *ResponseFilter) error {
		f.tags = message.Matchers(tags)
		return nil
	})
}

// Catalog maps component identities to their listener tree roots and
// owns the registration protocol: Set builds a tree from the
// component's declarations, Destroy tears it down, Enable and Disable
// pause it as a unit. Identities must be comparable; pointers are the
// norm.
type Catalog struct {
	engine       *listener.Engine
	declarations DeclarationSource
	entries      *om.OrderedMap[any, *listener.Node]
}

// New creates a catalog. Without WithEngine it dispatches through a
// fresh engine. It panics when an option cannot be applied.
func New(options ...opts.Option[Catalog]) *Catalog {
	c := &Catalog{
		declarations: declarerSource,
		entries:      om.New[any, *listener.Node](),
	}
	if err := opts.Apply(c, options); err != nil {
		panic(err)
	}
	if c.engine == nil {
		c.engine = listener.NewEngine()
	}
	return c
}

// Engine returns the dispatch engine the catalog registers roots with.
func (c *Catalog) Engine() *listener.Engine { return c.engine }

// Set registers the component: it destroys any previous tree for the
// same identity, creates a fresh root on message.MaskAll, registers it
// with the engine and attaches one node per declaration. A nil
// component returns (nil, nil). When a declaration cannot be bound the
// whole registration is rolled back and ErrMissingHandler reported.
func (c *Catalog) Set(component any, options ...opts.Option[Registration]) (*listener.Node, error) {
	if reflectx.IsNil(component) {
		return nil, nil
	}

	reg := Registration{label: reflectx.TypeName(component)}
	if err := opts.Apply(&reg, options); err != nil {
		return nil, err
	}

	// a repeated Set replaces the previous tree wholesale
	c.Destroy(component)

	root := listener.New(reg.label).SetPriority(reg.priority)
	if err := c.engine.Register(root); err != nil {
		return nil, err
	}
	c.entries.Set(component, root)

	for _, decl := range c.declarations(component) {
		child, err := buildNode(component, decl)
		if err == nil {
			err = child.AttachTo(root)
		}
		if err != nil {
			c.Destroy(component)
			return nil, fmt.Errorf("set %q: %w", reg.label, err)
		}
	}

	slog.Debug("component registered",
		slogx.Component(reg.label),
		slog.Int("listeners", root.Size()-1))
	return root, nil
}

// Has reports whether a live tree exists for the component.
func (c *Catalog) Has(component any) bool {
	return c.lookup(component) != nil
}

// Get returns the component's root node, or nil when absent.
func (c *Catalog) Get(component any) *listener.Node {
	return c.lookup(component)
}

// Enable resumes the component's tree; no-op when absent.
func (c *Catalog) Enable(component any) { c.setEnabled(component, true) }

// Disable pauses the component's tree without touching the stored
// flags of its nodes; no-op when absent.
func (c *Catalog) Disable(component any) { c.setEnabled(component, false) }

// Destroy tears down the component's tree, removing it from the
// catalog and the engine's registry; no-op when absent.
func (c *Catalog) Destroy(component any) {
	if reflectx.IsNil(component) {
		return
	}
	root, ok := c.entries.Get(component)
	if !ok {
		return
	}
	c.entries.Delete(component)
	if !root.Destroyed() {
		// destroying the root also deregisters it from the engine
		_ = root.Destroy()
	}
	slog.Debug("component destroyed", slogx.Component(root.Identity()))
}

// OnMessage attaches an already built node or subtree under the
// component's root; no-op when the component is not registered.
func (c *Catalog) OnMessage(component any, node *listener.Node) error {
	root := c.lookup(component)
	if root == nil || node == nil {
		return nil
	}
	return node.AttachTo(root)
}

// OnResponse attaches a resource response listener under the
// component's root, filtered by the given options; no-op when the
// component is not registered.
func (c *Catalog) OnResponse(component any, handler func(context.Context, resource.Response), options ...opts.Option[ResponseFilter]) error {
	root := c.lookup(component)
	if root == nil || handler == nil {
		return nil
	}
	var filter ResponseFilter
	if err := opts.Apply(&filter, options); err != nil {
		return err
	}
	return newResponseNode(handler, filter).AttachTo(root)
}

// OnMemoryCache attaches a cache change listener under the component's
// root, observing the paths accepted by the matcher, or every change
// when the matcher is nil; no-op when the component is not registered.
func (c *Catalog) OnMemoryCache(component any, handler func(context.Context, cache.Change), path message.Matcher) error {
	root := c.lookup(component)
	if root == nil || handler == nil {
		return nil
	}
	return newMemoryCacheNode(handler, path).AttachTo(root)
}

// Components returns the registered identities in registration order.
func (c *Catalog) Components() []any {
	ids := make([]any, 0, c.entries.Len())
	for pair := c.entries.Oldest(); pair != nil; pair = pair.Next() {
		ids = append(ids, pair.Key)
	}
	return ids
}

// Reset destroys every registered tree in registration order.
func (c *Catalog) Reset() {
	for _, component := range c.Components() {
		c.Destroy(component)
	}
}

func (c *Catalog) lookup(component any) *listener.Node {
	if reflectx.IsNil(component) {
		return nil
	}
	root, ok := c.entries.Get(component)
	if !ok || root.Destroyed() {
		return nil
	}
	return root
}

func (c *Catalog) setEnabled(component any, enabled bool) {
	if root := c.lookup(component); root != nil {
		root.SetEnabled(enabled)
	}
}
