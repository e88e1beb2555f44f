// Package logtail reads the end of phonecat's diagnostics log for the in-app
// log overlay.
//
// # Reading
//
// Read extracts the last maxLines lines with a ring buffer in one pass, so
// memory stays O(maxLines) however large the file grows:
//
//	lines, err := logtail.Read(cfg.LogFile, 400)
//
// A missing file returns nil, nil; the log is created lazily on first write.
// Other I/O errors are returned wrapped.
//
// # Parsing
//
// The log is written by slog.TextHandler, one record per line:
//
//	time=2026-10-14T09:30:02.114+02:00 level=WARN msg="query failed" mode=type param=Gaming request_id=5f0c...
//
// ParseLine splits a line into time, level, message and the remaining
// attributes, undoing strconv quoting. Lines in any other shape (a panic
// trace, output from an older build) are kept as raw INFO entries with
// Parsed set to false rather than dropped. ParseLines applies a minimum level
// so the overlay can hide debug chatter.
//
// Styling is left to the UI; this package has no terminal dependencies.
package logtail
