package ui

import "time"

// Grid geometry.
const (
	// CardWidth is the outer width of one card including its border.
	CardWidth = 38

	// CardHeight is the outer height of one card including its border.
	CardHeight = 11

	// CardGap is the number of blank columns between cards.
	CardGap = 1

	// chromeHeight is the number of lines taken by header, command bar and
	// footer around the grid.
	chromeHeight = 3
)

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which the header drops hints.
	LayoutCompactWidth = 100
)

// Log overlay limits.
const (
	// LogTailLines is how many lines of the diagnostics log the overlay reads.
	LogTailLines = 400
)

// Timing constants.
const (
	// DefaultUIInterval drives the "updated 3s ago" header refresh.
	DefaultUIInterval = time.Second
)

// gridColumns returns how many cards fit side by side in width.
func gridColumns(width int) int {
	cols := (width + CardGap) / (CardWidth + CardGap)
	return max(cols, 1)
}
