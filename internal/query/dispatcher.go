package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/five82/phonecat/internal/catalog"
	"github.com/five82/phonecat/internal/state"
)

// Dispatcher turns intents into catalog requests. Each dispatch supersedes the
// previous one: the older request is cancelled and its generation retired.
type Dispatcher struct {
	fetcher  catalog.Fetcher
	store    *state.Store
	pageSize int

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewDispatcher builds a dispatcher writing to store. A non-positive pageSize
// uses catalog.DefaultPageSize.
func NewDispatcher(fetcher catalog.Fetcher, store *state.Store, pageSize int) *Dispatcher {
	if pageSize <= 0 {
		pageSize = catalog.DefaultPageSize
	}
	return &Dispatcher{fetcher: fetcher, store: store, pageSize: pageSize}
}

// PageSize returns the page length used for list queries.
func (d *Dispatcher) PageSize() int {
	return d.pageSize
}

// Pending is a dispatched query that has not settled yet.
type Pending struct {
	Generation uint64
	Query      catalog.Query

	ctx     context.Context
	cancel  context.CancelFunc
	fetcher catalog.Fetcher
}

// Dispatch resolves in, cancels any in-flight request and marks the store as
// loading before returning. The network call happens in Pending.Await.
func (d *Dispatcher) Dispatch(ctx context.Context, in Intent) Pending {
	q := Resolve(in, d.pageSize)
	reqCtx, cancel := context.WithCancel(ctx)

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.cancel = cancel
	gen := d.store.Begin(q)
	d.mu.Unlock()

	return Pending{
		Generation: gen,
		Query:      q,
		ctx:        reqCtx,
		cancel:     cancel,
		fetcher:    d.fetcher,
	}
}

// Cancel aborts the in-flight request, if any.
func (d *Dispatcher) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

// Await performs the request and returns its settlement. It blocks; callers
// run it off the UI loop. A panicking fetcher settles as a failure.
func (p Pending) Await() (st state.Settlement) {
	st = state.Settlement{Generation: p.Generation, Query: p.Query}
	defer func() {
		if r := recover(); r != nil {
			st.Outcome = state.Failed{Err: fmt.Errorf("fetch %s: panic: %v", p.Query.Mode, r)}
		}
	}()
	if p.cancel != nil {
		defer p.cancel()
	}
	if p.fetcher == nil {
		st.Outcome = state.Failed{Err: fmt.Errorf("dispatcher has no fetcher")}
		return st
	}

	listing, err := p.fetcher.Fetch(p.ctx, p.Query)
	if err != nil {
		st.Outcome = state.Failed{Err: err}
		return st
	}
	st.Outcome = state.Ok{Listing: listing}
	return st
}

// Run dispatches in, waits for the response and applies it to the store. It
// reports whether the settlement was applied.
func (d *Dispatcher) Run(ctx context.Context, in Intent) bool {
	return d.store.Settle(d.Dispatch(ctx, in).Await())
}
