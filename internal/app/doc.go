// Package app is the composition root for phonecat.
//
// Run loads configuration, opens the log file, restores preferences and
// builds the chain the UI drives:
//
//	config.Load()            file, .env and PHONECAT_* variables
//	openLogger()             slog text handler on the log file
//	prefs.Load()             theme and last search
//	catalog.NewClient()      HTTP client for the catalog service
//	state.NewStore()         single source of truth for the result surface
//	query.NewDispatcher()    intent -> request -> settlement
//	ui.Run()                 Bubble Tea program (blocks)
//
// Nothing is written to the terminal outside the TUI. Configuration errors are
// returned before the UI starts; catalog failures are shown inside it.
package app
