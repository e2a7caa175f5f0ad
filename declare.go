package dlcs

import (
	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/pkg/reflectx"
)

// Declaration describes one listener a component wants attached under
// its root at registration time.
type Declaration interface {
	declaration()
}

// MessageListener declares a generic message listener bound to the
// named method, which must have the message.Receiver signature.
type MessageListener struct {
	// Method is the exported method name on the component.
	Method string
	// Mask routes the listener; the zero value means message.MaskAll.
	Mask message.Mask
	// Priority orders the listener among the root's children.
	Priority int
	// Tags restricts the listener to messages carrying at least one of
	// these literals; empty accepts every tag.
	Tags []string
}

func (MessageListener) declaration() {}

// ResourceListener declares a resource response listener bound to the
// named method, which must be a func(context.Context, resource.Response).
// Nil filters match every response.
type ResourceListener struct {
	Method  string
	Address message.Matcher
	Tags    message.Matchers
	Params  map[string]any
}

func (ResourceListener) declaration() {}

// MemoryCacheListener declares a cache change listener bound to the
// named method, which must be a func(context.Context, cache.Change).
// A nil Path observes every change.
type MemoryCacheListener struct {
	Method string
	Path   message.Matcher
}

func (MemoryCacheListener) declaration() {}

// Declarer is implemented by components that declare their listeners as
// data; the default declaration source consults it on Set.
//
// Embedding gives inheritance: a component embedding a base type
// inherits the base's Listeners through method promotion. A component
// that shadows Listeners and still wants the base's declarations
// appends its own to them:
//
//	func (c *Child) Listeners() []dlcs.Declaration {
//		return append(c.Base.Listeners(),
//			dlcs.MessageListener{Method: "OnChildEvent"},
//		)
//	}
type Declarer interface {
	Listeners() []Declaration
}

// MethodOf resolves the name of a method value, so declarations can
// reference handlers without spelling their names as strings:
//
//	dlcs.MessageListener{Method: dlcs.MethodOf(c.OnScore)}
func MethodOf(fn any) string {
	return reflectx.MethodName(fn)
}

// DeclarationSource resolves the declared listeners of a component.
// The returned order is the attach order under the root.
type DeclarationSource func(component any) []Declaration

// declarerSource is the default source: components implementing
// Declarer contribute their Listeners, everything else declares
// nothing.
func declarerSource(component any) []Declaration {
	if d, ok := component.(Declarer); ok {
		return d.Listeners()
	}
	return nil
}
