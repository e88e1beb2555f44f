package query

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/phonecat/internal/catalog"
	"github.com/five82/phonecat/internal/state"
)

const (
	phoneP1 = `{"id":"p1","name":"Pixel 9","brand":"Google","price":799,"rating":4.5,"storageGB":128,"ramGB":12,"batteryCapacity":4700,"screenSize":6.3,"usageTypes":["Photography"],"is5G":true}`
	phoneP2 = `{"id":"p2","name":"iPhone 16","brand":"Apple","price":999,"rating":4.7,"storageGB":256,"ramGB":8,"batteryCapacity":3561,"screenSize":6.1,"usageTypes":[],"is5G":true,"hasWirelessCharging":true}`
	phoneP3 = `{"id":"p3","name":"Galaxy S24","brand":"Samsung","price":899,"rating":4.6,"storageGB":256,"ramGB":8,"batteryCapacity":4000,"screenSize":6.2,"usageTypes":["Business","Gaming"],"isWaterResistant":true}`
)

type recordedRequest struct {
	path     string
	rawQuery string
}

// catalogServer serves canned bodies by request path and records what it saw.
type catalogServer struct {
	mu     sync.Mutex
	seen   []recordedRequest
	routes map[string]string
	srv    *httptest.Server
}

func newCatalogServer(t *testing.T, routes map[string]string) *catalogServer {
	t.Helper()
	cs := &catalogServer{routes: routes}
	cs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cs.mu.Lock()
		cs.seen = append(cs.seen, recordedRequest{path: r.URL.Path, rawQuery: r.URL.RawQuery})
		cs.mu.Unlock()

		body, ok := cs.routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *catalogServer) requests() []recordedRequest {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return append([]recordedRequest(nil), cs.seen...)
}

func newTestDispatcher(t *testing.T, apiURL string) (*Dispatcher, *state.Store) {
	t.Helper()
	client, err := catalog.NewClient(apiURL, 2*time.Second)
	require.NoError(t, err)
	store := state.NewStore(catalog.ListQuery(0, 20), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewDispatcher(client, store, 20), store
}

func ids(phones []catalog.Phone) []string {
	out := make([]string, 0, len(phones))
	for _, p := range phones {
		out = append(out, p.ID)
	}
	return out
}

func TestDispatcher_Scenarios(t *testing.T) {
	cs := newCatalogServer(t, map[string]string{
		"/api/v1/phones":             `{"success":true,"message":"ok","data":{"content":[` + phoneP1 + `,` + phoneP2 + `],"totalElements":2,"totalPages":1,"number":0,"size":20,"first":true,"last":true}}`,
		"/api/v1/phones/search":      `{"success":true,"message":"ok","data":[` + phoneP3 + `]}`,
		"/api/v1/phones/brand/Apple": `{"success":true,"message":"ok","data":[]}`,
	})
	d, store := newTestDispatcher(t, cs.srv.URL)
	ctx := context.Background()

	// Startup list with a paginated envelope.
	require.True(t, d.Run(ctx, LoadDefault()))
	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.LastError)
	assert.Equal(t, []string{"p1", "p2"}, ids(snap.Results))
	require.NotNil(t, snap.Page)
	assert.Equal(t, 1, snap.Page.TotalPages)

	// Free-text search.
	require.True(t, d.Run(ctx, Search("Galaxy")))
	snap = store.Snapshot()
	assert.Equal(t, []string{"p3"}, ids(snap.Results))
	assert.Equal(t, catalog.ModeSearch, snap.Query.Mode)
	assert.Equal(t, []string{"Business", "Gaming"}, snap.Results[0].UsageTypes)
	assert.Nil(t, snap.Page)

	// Brand with no matches is an empty result, not an error.
	require.True(t, d.Run(ctx, FilterByBrand("Apple")))
	snap = store.Snapshot()
	assert.False(t, snap.Loading)
	assert.NoError(t, snap.LastError)
	assert.Empty(t, snap.Results)

	reqs := cs.requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, recordedRequest{path: "/api/v1/phones", rawQuery: "page=0&size=20"}, reqs[0])
	assert.Equal(t, recordedRequest{path: "/api/v1/phones/search", rawQuery: "query=Galaxy"}, reqs[1])
	assert.Equal(t, recordedRequest{path: "/api/v1/phones/brand/Apple"}, reqs[2])
}

func TestDispatcher_TransportFailureKeepsPreviousGrid(t *testing.T) {
	cs := newCatalogServer(t, map[string]string{
		"/api/v1/phones": `{"success":true,"data":[` + phoneP1 + `,` + phoneP2 + `]}`,
	})
	d, store := newTestDispatcher(t, cs.srv.URL)
	ctx := context.Background()

	require.True(t, d.Run(ctx, LoadDefault()))
	prev := store.Snapshot().Results

	// Simulate the service going away before the next query.
	cs.srv.Close()
	require.True(t, d.Run(ctx, FilterByType("Gaming")))

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, prev, snap.Results)
	require.Error(t, snap.LastError)
	assert.ErrorIs(t, snap.LastError, catalog.ErrTransport)
	assert.Equal(t, catalog.ModeType, snap.Query.Mode)
}

func TestDispatcher_ApplicationFailureKeepsPreviousGrid(t *testing.T) {
	cs := newCatalogServer(t, map[string]string{
		"/api/v1/phones":             `{"success":true,"data":[` + phoneP1 + `]}`,
		"/api/v1/phones/price-range": `{"success":false,"message":"Minimum price cannot be greater than maximum price","data":null}`,
	})
	d, store := newTestDispatcher(t, cs.srv.URL)
	ctx := context.Background()

	require.True(t, d.Run(ctx, LoadDefault()))
	require.True(t, d.Run(ctx, FilterByPrice(100, 200)))

	snap := store.Snapshot()
	assert.Equal(t, []string{"p1"}, ids(snap.Results))
	assert.ErrorIs(t, snap.LastError, catalog.ErrApplication)
	assert.ErrorContains(t, snap.LastError, "Minimum price")
}

func TestDispatcher_BlankSearchIssuesDefaultRequest(t *testing.T) {
	cs := newCatalogServer(t, map[string]string{
		"/api/v1/phones": `{"success":true,"data":[]}`,
	})
	d, _ := newTestDispatcher(t, cs.srv.URL)
	ctx := context.Background()

	d.Run(ctx, LoadDefault())
	d.Run(ctx, Search(""))
	d.Run(ctx, Search("   "))

	reqs := cs.requests()
	require.Len(t, reqs, 3)
	assert.Equal(t, reqs[0], reqs[1])
	assert.Equal(t, reqs[0], reqs[2])
}

func TestDispatcher_MarksLoadingBeforeNetwork(t *testing.T) {
	f := newBlockingFetcher()
	store := state.NewStore(catalog.ListQuery(0, 20), nil)
	d := NewDispatcher(f, store, 20)

	p := d.Dispatch(context.Background(), Search("Pixel"))
	snap := store.Snapshot()
	assert.True(t, snap.Loading)
	assert.Equal(t, p.Generation, snap.Generation)
	assert.Equal(t, "Pixel", snap.Query.Param)
	assert.Zero(t, f.calls(), "no request until Await")

	done := make(chan state.Settlement, 1)
	go func() { done <- p.Await() }()
	f.release <- catalog.Listing{Phones: []catalog.Phone{{ID: "a", UsageTypes: []string{}}}}
	require.True(t, store.Settle(<-done))
	assert.False(t, store.Snapshot().Loading)
	assert.Equal(t, 1, f.calls())
}

func TestDispatcher_NewDispatchCancelsPrevious(t *testing.T) {
	f := newBlockingFetcher()
	store := state.NewStore(catalog.ListQuery(0, 20), nil)
	d := NewDispatcher(f, store, 20)

	first := d.Dispatch(context.Background(), Search("Galaxy"))
	firstDone := make(chan state.Settlement, 1)
	go func() { firstDone <- first.Await() }()

	second := d.Dispatch(context.Background(), FilterByBrand("Apple"))
	require.Greater(t, second.Generation, first.Generation)

	stale := <-firstDone
	failed, ok := stale.Outcome.(state.Failed)
	require.True(t, ok, "superseded request should fail")
	assert.ErrorIs(t, failed.Err, context.Canceled)
	assert.False(t, store.Settle(stale), "superseded settlement is discarded")
	assert.True(t, store.Snapshot().Loading)

	secondDone := make(chan state.Settlement, 1)
	go func() { secondDone <- second.Await() }()
	f.release <- catalog.Listing{Phones: []catalog.Phone{{ID: "apple", UsageTypes: []string{}}}}
	require.True(t, store.Settle(<-secondDone))

	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []string{"apple"}, ids(snap.Results))
}

func TestDispatcher_CancelAbortsInFlight(t *testing.T) {
	f := newBlockingFetcher()
	store := state.NewStore(catalog.ListQuery(0, 20), nil)
	d := NewDispatcher(f, store, 20)

	p := d.Dispatch(context.Background(), LoadDefault())
	done := make(chan state.Settlement, 1)
	go func() { done <- p.Await() }()
	d.Cancel()

	st := <-done
	require.True(t, store.Settle(st))
	snap := store.Snapshot()
	assert.False(t, snap.Loading)
	assert.ErrorIs(t, snap.LastError, context.Canceled)
}

func TestPending_AwaitRecoversPanic(t *testing.T) {
	store := state.NewStore(catalog.ListQuery(0, 20), nil)
	d := NewDispatcher(panicFetcher{}, store, 20)

	st := d.Dispatch(context.Background(), LoadDefault()).Await()
	_, ok := st.Outcome.(state.Failed)
	require.True(t, ok)
	require.True(t, store.Settle(st))
	assert.False(t, store.Snapshot().Loading)
}

// blockingFetcher holds each Fetch until a listing is released or the
// request context ends.
type blockingFetcher struct {
	mu      sync.Mutex
	n       int
	release chan catalog.Listing
}

func newBlockingFetcher() *blockingFetcher {
	return &blockingFetcher{release: make(chan catalog.Listing)}
}

func (f *blockingFetcher) Fetch(ctx context.Context, _ catalog.Query) (catalog.Listing, error) {
	f.mu.Lock()
	f.n++
	f.mu.Unlock()
	select {
	case l := <-f.release:
		return l, nil
	case <-ctx.Done():
		return catalog.Listing{}, &catalog.Error{Kind: catalog.ErrTransport, Err: ctx.Err()}
	}
}

func (f *blockingFetcher) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}

type panicFetcher struct{}

func (panicFetcher) Fetch(context.Context, catalog.Query) (catalog.Listing, error) {
	panic("fetcher exploded")
}
