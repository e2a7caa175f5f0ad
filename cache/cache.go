// Package cache implements the memory cache side of the listener
// protocol: a JSON document with dot-path access that broadcasts every
// mutation on a reserved mask and tag, so cache listeners can observe
// single paths or whole subtrees of the document.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/WinUP/dlcs-core/listener"
	"github.com/WinUP/dlcs-core/message"
	"github.com/fogfish/opts"
	"github.com/go-openapi/strfmt"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	// ChangeMask is the reserved mask cache changes broadcast on.
	ChangeMask message.Mask = 1 << 31
	// ChangeTag marks a message as a cache change.
	ChangeTag = "cache.change"
)

// Change describes one mutation of the store. Deletions carry a nil
// New value.
type Change struct {
	Path      string          `json:"path"`
	Old       any             `json:"old,omitempty"`
	New       any             `json:"new,omitempty"`
	Timestamp strfmt.DateTime `json:"timestamp"`
}

// Message wraps the change in the reserved broadcast envelope.
func (c Change) Message() message.Message {
	return message.New(ChangeMask, c).
		WithTags(ChangeTag).
		WithSource(c.Path)
}

// WithDocument seeds the store with an existing JSON document instead
// of the empty object.
var WithDocument = opts.ForName[Store, []byte]("doc")

// Store is a JSON document with dot-path reads and writes. Every write
// broadcasts a Change through the engine. Reads may come from any
// goroutine; writes follow the single-owner discipline of the listener
// trees they broadcast into.
type Store struct {
	engine *listener.Engine
	mu     sync.RWMutex
	doc    []byte
}

// NewStore creates a store broadcasting through the given engine. It
// panics when an option cannot be applied.
func NewStore(engine *listener.Engine, options ...opts.Option[Store]) *Store {
	s := &Store{
		engine: engine,
		doc:    []byte(`{}`),
	}
	if err := opts.Apply(s, options); err != nil {
		panic(err)
	}
	return s
}

// Get reads the value at a gjson path.
func (s *Store) Get(path string) gjson.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gjson.GetBytes(s.doc, path)
}

// Set writes value at path and broadcasts the change, carrying the
// previous value at the path as Old.
func (s *Store) Set(ctx context.Context, path string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache set %s: %w", path, err)
	}

	s.mu.Lock()
	old := gjson.GetBytes(s.doc, path)
	doc, err := sjson.SetRawBytes(s.doc, path, raw)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cache set %s: %w", path, err)
	}
	s.doc = doc
	s.mu.Unlock()

	slog.Debug("cache path set", slog.String("path", path))
	return s.broadcast(ctx, Change{Path: path, Old: old.Value(), New: value})
}

// Delete removes the value at path and broadcasts the change. Paths
// that do not exist are a silent no-op, without a broadcast.
func (s *Store) Delete(ctx context.Context, path string) error {
	s.mu.Lock()
	old := gjson.GetBytes(s.doc, path)
	if !old.Exists() {
		s.mu.Unlock()
		return nil
	}
	doc, err := sjson.DeleteBytes(s.doc, path)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("cache delete %s: %w", path, err)
	}
	s.doc = doc
	s.mu.Unlock()

	slog.Debug("cache path deleted", slog.String("path", path))
	return s.broadcast(ctx, Change{Path: path, Old: old.Value()})
}

// Bytes returns a copy of the current document.
func (s *Store) Bytes() []byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.doc)
}

// broadcast runs outside the document lock so receivers may read the
// store during the change notification.
func (s *Store) broadcast(ctx context.Context, change Change) error {
	change.Timestamp = strfmt.DateTime(time.Now())
	_, err := s.engine.Broadcast(ctx, change.Message())
	return err
}
