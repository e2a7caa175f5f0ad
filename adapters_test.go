package dlcs

import (
	"context"
	"testing"

	"github.com/WinUP/dlcs-core/cache"
	"github.com/WinUP/dlcs-core/message"
	"github.com/WinUP/dlcs-core/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type paramWatcher struct {
	hits []string
}

func (w *paramWatcher) Listeners() []Declaration {
	return []Declaration{
		ResourceListener{
			Method:  "OnOne",
			Address: message.Exact("http://a"),
			Tags:    message.Matchers{message.Exact("x")},
			Params:  map[string]any{"k": 1},
		},
		ResourceListener{Method: "OnTwo", Params: map[string]any{"k": 2}},
	}
}

func (w *paramWatcher) OnOne(_ context.Context, _ resource.Response) {
	w.hits = append(w.hits, "one")
}

func (w *paramWatcher) OnTwo(_ context.Context, _ resource.Response) {
	w.hits = append(w.hits, "two")
}

func TestResourceListenerFilters(t *testing.T) {
	c := New()
	watcher := &paramWatcher{}
	_, err := c.Set(watcher)
	require.NoError(t, err)

	manager := resource.NewManager(c.Engine())
	manager.RegisterLoader("http", resource.StaticLoader(map[string]any{"a": "payload"}))

	req := resource.NewRequest("http", "a").
		WithTags("x", "y").
		WithParams(map[string]any{"k": 1})
	_, err = manager.Load(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, []string{"one"}, watcher.hits,
		"all filters must agree, a params mismatch alone rejects")
}

func TestResponseFilterMatches(t *testing.T) {
	resp := resource.Response{
		Request: resource.NewRequest("http", "a").
			WithTags("x", "y.1").
			WithParams(map[string]any{"k": 1}),
	}

	tests := []struct {
		name   string
		filter ResponseFilter
		want   bool
	}{
		{"zero filter matches everything", ResponseFilter{}, true},
		{"address hit", ResponseFilter{address: message.Exact("http://a")}, true},
		{"address miss", ResponseFilter{address: message.Exact("http://b")}, false},
		{"each matcher satisfied by some tag", ResponseFilter{tags: message.Matchers{message.Exact("x"), message.Prefix("y")}}, true},
		{"one unsatisfied matcher rejects", ResponseFilter{tags: message.Matchers{message.Exact("x"), message.Exact("z")}}, false},
		{"params hit", ResponseFilter{params: map[string]any{"k": 1}}, true},
		{"params value mismatch", ResponseFilter{params: map[string]any{"k": 2}}, false},
		{"params key absent from request", ResponseFilter{params: map[string]any{"missing": 1}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.matches(resp))
		})
	}
}

type settingsPane struct {
	changes []cache.Change
}

func (p *settingsPane) Listeners() []Declaration {
	return []Declaration{
		MemoryCacheListener{Method: "OnSettings", Path: message.Prefix("settings")},
	}
}

func (p *settingsPane) OnSettings(_ context.Context, change cache.Change) {
	p.changes = append(p.changes, change)
}

func TestMemoryCacheListener(t *testing.T) {
	ctx := context.Background()
	c := New()
	pane := &settingsPane{}
	_, err := c.Set(pane)
	require.NoError(t, err)

	store := cache.NewStore(c.Engine())
	require.NoError(t, store.Set(ctx, "settings.volume", 3))
	require.NoError(t, store.Set(ctx, "player.score", 10))

	require.Len(t, pane.changes, 1, "only paths under the matcher are observed")
	assert.Equal(t, "settings.volume", pane.changes[0].Path)
	assert.EqualValues(t, 3, pane.changes[0].New)
}

func TestOnResponse(t *testing.T) {
	ctx := context.Background()
	c := New()
	board := &scoreboard{}
	_, err := c.Set(board)
	require.NoError(t, err)

	var got []resource.Response
	err = c.OnResponse(board, func(_ context.Context, resp resource.Response) {
		got = append(got, resp)
	},
		ForAddress(message.Exact("file://a.json")),
		ForTags(message.Exact("x")),
		ForParams(map[string]any{"k": 1}),
	)
	require.NoError(t, err)

	match := resource.Response{
		Request: resource.NewRequest("file", "a.json").
			WithTags("x").
			WithParams(map[string]any{"k": 1}),
		Value: "hit",
	}
	miss := resource.Response{
		Request: resource.NewRequest("file", "b.json").
			WithTags("x").
			WithParams(map[string]any{"k": 1}),
		Value: "wrong address",
	}

	for _, resp := range []resource.Response{match, miss} {
		_, err = c.Engine().Broadcast(ctx, resp.Message())
		require.NoError(t, err)
	}

	require.Len(t, got, 1)
	assert.Equal(t, "hit", got[0].Value)

	// unknown identity and nil handler are silent no-ops
	require.NoError(t, c.OnResponse(&scoreboard{}, func(context.Context, resource.Response) {}))
	require.NoError(t, c.OnResponse(board, nil))
}

func TestOnMemoryCache(t *testing.T) {
	ctx := context.Background()
	c := New()
	board := &scoreboard{}
	_, err := c.Set(board)
	require.NoError(t, err)

	var settings []cache.Change
	var everything []cache.Change
	require.NoError(t, c.OnMemoryCache(board, func(_ context.Context, change cache.Change) {
		settings = append(settings, change)
	}, message.Prefix("settings")))
	require.NoError(t, c.OnMemoryCache(board, func(_ context.Context, change cache.Change) {
		everything = append(everything, change)
	}, nil))

	store := cache.NewStore(c.Engine())
	require.NoError(t, store.Set(ctx, "settings.volume", 3))
	require.NoError(t, store.Set(ctx, "player.score", 10))

	require.Len(t, settings, 1)
	assert.Equal(t, "settings.volume", settings[0].Path)
	assert.Len(t, everything, 2, "a nil matcher observes every change")

	require.NoError(t, c.OnMemoryCache(board, nil, nil))
}

func TestAdapterIgnoresForeignPayloads(t *testing.T) {
	ctx := context.Background()
	c := New()
	watcher := &paramWatcher{}
	pane := &settingsPane{}
	_, err := c.Set(watcher)
	require.NoError(t, err)
	_, err = c.Set(pane)
	require.NoError(t, err)

	// reserved mask and tag, but the payload is not what the adapter
	// expects
	_, err = c.Engine().Broadcast(ctx, message.New(resource.ResponseMask, "plain string").WithTags(resource.ResponseTag))
	require.NoError(t, err)
	_, err = c.Engine().Broadcast(ctx, message.New(cache.ChangeMask, 42).WithTags(cache.ChangeTag))
	require.NoError(t, err)

	assert.Empty(t, watcher.hits)
	assert.Empty(t, pane.changes)
}

type bogusDeclaration struct{}

func (bogusDeclaration) declaration() {}

func TestBuildNodeRejectsUnknownDeclarations(t *testing.T) {
	assert.PanicsWithValue(t, "unknown declaration type: dlcs.bogusDeclaration", func() {
		_, _ = buildNode(&scoreboard{}, bogusDeclaration{})
	})
}
