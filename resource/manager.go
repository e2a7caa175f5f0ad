package resource

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/WinUP/dlcs-core/internal/registry"
	"github.com/WinUP/dlcs-core/listener"
	"github.com/WinUP/dlcs-core/pkg/uuidx"
	"github.com/go-openapi/strfmt"
)

// ErrUnknownProtocol is reported by Load when no loader serves the
// request's protocol.
var ErrUnknownProtocol = errors.New("no loader for protocol")

// Loader resolves the requests of one protocol.
type Loader func(ctx context.Context, req Request) (any, error)

// Manager resolves requests through per-protocol loaders and broadcasts
// every response through the engine's registered listener trees.
type Manager struct {
	engine  *listener.Engine
	loaders registry.Registry[Loader]
}

// NewManager creates a manager broadcasting through the given engine.
func NewManager(engine *listener.Engine) *Manager {
	return &Manager{
		engine:  engine,
		loaders: registry.New[Loader](),
	}
}

// RegisterLoader makes loader serve every request for the given
// protocol, replacing any previous loader.
func (m *Manager) RegisterLoader(protocol string, loader Loader) {
	m.loaders.Add(protocol, loader)
	slog.Debug("resource loader registered", slog.String("protocol", protocol))
}

// Load runs the protocol's loader and broadcasts the response. The
// response is returned to the caller as well, so direct loads do not
// need a listener.
func (m *Manager) Load(ctx context.Context, req Request) (Response, error) {
	loader, ok := m.loaders.Get(req.Protocol)
	if !ok {
		return Response{}, fmt.Errorf("load %s: %w", req.URI(), ErrUnknownProtocol)
	}

	value, err := loader(ctx, req)
	if err != nil {
		return Response{}, fmt.Errorf("load %s: %w", req.URI(), err)
	}

	resp := Response{
		Request:   req,
		Value:     value,
		Timestamp: strfmt.DateTime(time.Now()),
	}
	slog.Debug("resource loaded",
		slog.String("id", uuidx.Short(req.ID)),
		slog.String("uri", req.URI()))
	if _, err := m.engine.Broadcast(ctx, resp.Message()); err != nil {
		return resp, err
	}
	return resp, nil
}

// StaticLoader serves addresses from a fixed map, mostly for tests and
// examples.
func StaticLoader(values map[string]any) Loader {
	return func(_ context.Context, req Request) (any, error) {
		value, ok := values[req.Address]
		if !ok {
			return nil, fmt.Errorf("no value at %s", req.URI())
		}
		return value, nil
	}
}
