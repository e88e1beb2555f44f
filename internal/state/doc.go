// Package state owns the query state shared by the dispatcher and the UI.
//
// # Overview
//
// A single Store holds the latest dispatched query, the records currently on
// screen, the loading flag and the last failure. The Presentation Mapper and
// the UI only ever read Snapshot copies; the Store itself is the only writer.
//
// # Lifecycle
//
//	NewStore(List page 0)     Loading=true (eager fetch on startup)
//	Begin(q)  → gen           Loading=true, Query=q, Generation=gen
//	Settle({gen, Ok})         Results replaced, LastError cleared, Loading=false
//	Settle({gen, Failed})     Results kept,     LastError set,     Loading=false
//	Settle({old gen, ...})    discarded, returns false
//
// There is no separate error mode: a failure is visible only through
// LastError while the previous results stay on screen.
//
// # Generation Tokens
//
// Every Begin increments the generation and returns it. A settlement is
// applied only when it presents the latest generation, so a slow response to
// a superseded query can never overwrite the answer to a newer one. Because a
// stale settlement is ignored entirely, the loading flag stays owned by the
// newest dispatch until that dispatch settles.
//
// # Outcomes
//
// Outcome is a closed sum type with two variants, Ok and Failed. Settle
// switches on the variant rather than on raw payload fields; envelope
// inspection happens once, in the catalog package.
//
// # Failure Logging
//
// Failed settlements are logged through log/slog with the mode, parameter,
// failure kind and request ID. Cancelled requests are logged at debug level.
//
// # Concurrency Model
//
// The Store uses a readers-writer lock:
//
//   - Begin(), Settle(): write lock
//   - Snapshot(): read lock, returns copies of slices and the page pointer
//
// Loading is cleared in a deferred call inside Settle, so it runs even if
// applying the outcome panics.
package state
