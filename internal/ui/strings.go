package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// truncate shortens value to at most limit terminal cells, ending with an
// ellipsis when something was cut. Wide runes count as two cells.
func truncate(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	return runewidth.Truncate(value, limit, "...")
}

// truncateMiddle keeps both ends of value and drops cells from the middle.
// Used for URLs and paths where the tail matters.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	const ellipsis = "…"
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}
	keep := limit - runewidth.StringWidth(ellipsis)
	head := keep / 2
	tail := keep - head

	prefix := runewidth.Truncate(value, head, "")
	runes := []rune(value)
	suffixWidth := 0
	start := len(runes)
	for start > 0 {
		w := runewidth.RuneWidth(runes[start-1])
		if suffixWidth+w > tail {
			break
		}
		suffixWidth += w
		start--
	}
	return prefix + ellipsis + string(runes[start:])
}

// padRight pads s with spaces to width cells.
func padRight(s string, width int) string {
	if width <= 0 {
		return s
	}
	return runewidth.FillRight(s, width)
}

// wrapLines splits text into at most maxLines lines of width cells, breaking
// on spaces. The last line is truncated when text does not fit.
func wrapLines(text string, width, maxLines int) []string {
	words := strings.Fields(text)
	if len(words) == 0 || width <= 0 || maxLines <= 0 {
		return nil
	}
	var lines []string
	var cur strings.Builder
	for i, w := range words {
		candidate := w
		if cur.Len() > 0 {
			candidate = cur.String() + " " + w
		}
		if runewidth.StringWidth(candidate) <= width {
			cur.Reset()
			cur.WriteString(candidate)
			continue
		}
		if cur.Len() > 0 {
			lines = append(lines, cur.String())
		}
		if len(lines) == maxLines-1 {
			rest := strings.Join(words[i:], " ")
			lines = append(lines, truncate(rest, width))
			return lines
		}
		cur.Reset()
		cur.WriteString(truncate(w, width))
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}
