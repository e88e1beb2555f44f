// Package present maps a state.Snapshot to the View the UI draws.
//
// Map is a pure function: the same snapshot always yields the same View and
// nothing outside its argument is consulted. Three bodies exist:
//
//	Loading  -> StatusLoading, no cards (previous results are hidden)
//	no rows  -> StatusEmpty with EmptyMessage (an empty result is not an error)
//	rows     -> StatusGrid, one Card per record in service order
//
// A failure never replaces the body. It is surfaced through View.Notice while
// the last good results stay visible. Relative times such as "updated 3s ago"
// depend on the clock and are rendered by the UI instead.
package present
