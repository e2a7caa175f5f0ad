package dlcs

import (
	"context"
	"fmt"
	"reflect"

	"github.com/WinUP/dlcs-core/cache"
	"github.com/WinUP/dlcs-core/listener"
	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/pkg/reflectx"
	"github.com/WinUP/dlcs-core/resource"
)

// labels of auto-built listener nodes
const (
	labelOnMessage     = "OnMessage"
	labelOnResponse    = "OnResponse"
	labelOnMemoryCache = "OnMemoryCache"
)

// buildNode turns a declaration into a concrete node bound to the live
// component instance.
func buildNode(component any, decl Declaration) (*listener.Node, error) {
	switch d := decl.(type) {
	case MessageListener:
		return buildMessageNode(component, d)
	case ResourceListener:
		return buildResourceNode(component, d)
	case MemoryCacheListener:
		return buildMemoryCacheNode(component, d)
	default:
		panic(fmt.Sprintf("unknown declaration type: %T", decl))
	}
}

func buildMessageNode(component any, decl MessageListener) (*listener.Node, error) {
	receiver, err := reflectx.BoundMethod[message.Receiver](component, decl.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, err)
	}

	mask := decl.Mask
	if mask == message.MaskNone {
		mask = message.MaskAll
	}

	node := listener.New(labelOnMessage).
		SetMask(mask).
		SetPriority(decl.Priority).
		SetReceiver(receiver)
	if len(decl.Tags) > 0 {
		node.SetTags(message.Literal(decl.Tags...)...)
	}
	return node, nil
}

func buildResourceNode(component any, decl ResourceListener) (*listener.Node, error) {
	handler, err := reflectx.BoundMethod[func(context.Context, resource.Response)](component, decl.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, err)
	}
	return newResponseNode(handler, ResponseFilter{
		address: decl.Address,
		tags:    decl.Tags,
		params:  decl.Params,
	}), nil
}

func buildMemoryCacheNode(component any, decl MemoryCacheListener) (*listener.Node, error) {
	handler, err := reflectx.BoundMethod[func(context.Context, cache.Change)](component, decl.Method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingHandler, err)
	}
	return newMemoryCacheNode(handler, decl.Path), nil
}

// newResponseNode wraps the handler in a receiver on the resource
// manager's reserved mask and tag, applying the address, tag and params
// filters in that order. The receiver never consumes the message, so
// any number of resource listeners can observe the same response.
func newResponseNode(handler func(context.Context, resource.Response), filter ResponseFilter) *listener.Node {
	return listener.New(labelOnResponse).
		SetMask(resource.ResponseMask).
		SetTags(message.Exact(resource.ResponseTag)).
		SetReceiver(func(ctx context.Context, msg message.Message) (message.Message, error) {
			resp, ok := msg.Payload.(resource.Response)
			if !ok {
				return msg, nil
			}
			if filter.matches(resp) {
				handler(ctx, resp)
			}
			return msg, nil
		})
}

func (f ResponseFilter) matches(resp resource.Response) bool {
	if f.address != nil && !f.address.Match(resp.Request.URI()) {
		return false
	}
	// every matcher must be satisfied, each by any one request tag
	if !f.tags.AllOf(resp.Request.Tags...) {
		return false
	}
	for key, want := range f.params {
		if !reflect.DeepEqual(want, resp.Request.Params[key]) {
			return false
		}
	}
	return true
}

// newMemoryCacheNode wraps the handler in a receiver on the cache's
// reserved mask and tag. Without a path matcher every change invokes
// the handler. Never consumes the message.
func newMemoryCacheNode(handler func(context.Context, cache.Change), path message.Matcher) *listener.Node {
	return listener.New(labelOnMemoryCache).
		SetMask(cache.ChangeMask).
		SetTags(message.Exact(cache.ChangeTag)).
		SetReceiver(func(ctx context.Context, msg message.Message) (message.Message, error) {
			change, ok := msg.Payload.(cache.Change)
			if !ok {
				return msg, nil
			}
			if path == nil || path.Match(change.Path) {
				handler(ctx, change)
			}
			return msg, nil
		})
}
