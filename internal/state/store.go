package state

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/phonecat/internal/catalog"
)

// Snapshot represents the query state the UI renders from.
type Snapshot struct {
	Query               catalog.Query // latest dispatched query
	Results             []catalog.Phone
	Page                *catalog.PageInfo
	Loading             bool
	LastError           error
	Generation          uint64
	HasResults          bool // at least one query has succeeded
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// IsOffline returns true when the service has been unreachable for multiple
// consecutive queries.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2 && errors.Is(s.LastError, catalog.ErrTransport)
}

// Outcome is the validated result of one dispatched query: either Ok or Failed.
type Outcome interface {
	outcome()
}

// Ok carries the records of a successful query.
type Ok struct {
	Listing catalog.Listing
}

// Failed carries the reason a query did not produce records.
type Failed struct {
	Err error
}

func (Ok) outcome()     {}
func (Failed) outcome() {}

// Settlement pairs an outcome with the generation of the dispatch it answers.
type Settlement struct {
	Generation uint64
	Query      catalog.Query
	Outcome    Outcome
}

// Store owns the single query state. Begin and Settle are its only writers.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
	logger   *slog.Logger
	now      func() time.Time
}

// NewStore returns a store in the startup state: loading the given query.
func NewStore(initial catalog.Query, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		snapshot: Snapshot{Query: initial, Loading: true},
		logger:   logger,
		now:      time.Now,
	}
}

// Begin records q as the latest intent, marks the state as loading and
// returns the generation token the eventual settlement must present.
func (s *Store) Begin(q catalog.Query) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Generation++
	s.snapshot.Query = q
	s.snapshot.Loading = true
	return s.snapshot.Generation
}

// Settle applies a settlement. Settlements from superseded dispatches are
// discarded and Settle returns false. When applied, failures keep the
// previous results and Loading is always cleared last.
func (s *Store) Settle(st Settlement) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st.Generation != s.snapshot.Generation {
		s.logger.Debug("discarded stale settlement",
			"generation", st.Generation,
			"latest", s.snapshot.Generation,
			"mode", st.Query.Mode.String())
		return false
	}
	defer func() { s.snapshot.Loading = false }()

	s.snapshot.LastUpdated = s.now()
	switch o := st.Outcome.(type) {
	case Ok:
		s.snapshot.Results = cloneResults(o.Listing.Phones)
		if s.snapshot.Results == nil {
			s.snapshot.Results = []catalog.Phone{}
		}
		s.snapshot.Page = clonePage(o.Listing.Page)
		s.snapshot.LastError = nil
		s.snapshot.HasResults = true
		s.snapshot.ConsecutiveFailures = 0
	case Failed:
		s.fail(st, o.Err)
	default:
		s.fail(st, fmt.Errorf("settlement has no outcome"))
	}
	return true
}

func (s *Store) fail(st Settlement, err error) {
	if err == nil {
		err = fmt.Errorf("query failed without a reason")
	}
	s.snapshot.LastError = err
	// A cancelled request says nothing about whether the service is reachable.
	if !errors.Is(err, context.Canceled) {
		s.snapshot.ConsecutiveFailures++
	}

	attrs := []any{
		"generation", st.Generation,
		"mode", st.Query.Mode.String(),
		"param", st.Query.Param,
		"error", err,
	}
	if kind := catalog.Kind(err); kind != nil {
		attrs = append(attrs, "kind", kind.Error())
	}
	var fetchErr *catalog.Error
	if errors.As(err, &fetchErr) && fetchErr.RequestID != "" {
		attrs = append(attrs, "request_id", fetchErr.RequestID)
	}
	if errors.Is(err, context.Canceled) {
		s.logger.Debug("query cancelled", attrs...)
		return
	}
	s.logger.Warn("query failed", attrs...)
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Results = cloneResults(s.snapshot.Results)
	snap.Page = clonePage(s.snapshot.Page)
	return snap
}

func cloneResults(items []catalog.Phone) []catalog.Phone {
	if items == nil {
		return nil
	}
	dup := make([]catalog.Phone, len(items))
	copy(dup, items)
	return dup
}

func clonePage(p *catalog.PageInfo) *catalog.PageInfo {
	if p == nil {
		return nil
	}
	dup := *p
	return &dup
}
