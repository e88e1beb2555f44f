// Package ui is the Bubble Tea front end for phonecat.
//
// The Model owns no catalog data of its own. Every key that changes the
// query goes through query.Dispatcher, which marks the state.Store as
// loading before any network call. The request then runs inside a tea.Cmd
// and its settlement comes back to Update as a settledMsg, so the store is
// only ever written from the update loop. What is drawn comes from
// present.Map applied to the latest store snapshot.
//
// Layout, top to bottom:
//
//   - header: active query, result count, freshness or offline marker
//   - command bar: short key hints and the active theme
//   - body: spinner, empty message or the card grid
//   - footer: prompt line, input errors, failure notice or paging hints
//
// Overlays (help, phone detail, diagnostics log) replace the main view
// until closed with esc.
package ui
