package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders text segments that all share one background color.
// Rendering segments separately leaves ANSI resets between them, which shows
// up as gaps in the background. See: https://github.com/charmbracelet/lipgloss/discussions/78
type BgStyle struct {
	bg    lipgloss.Color
	space string // cached styled space
}

// NewBgStyle creates a background helper for the given color.
func NewBgStyle(bgColor string) BgStyle {
	bg := lipgloss.Color(bgColor)
	return BgStyle{
		bg:    bg,
		space: lipgloss.NewStyle().Background(bg).Render(" "),
	}
}

// Render renders text with style so every cell, spaces included, carries the
// background color.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	wordStyle := style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return wordStyle.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = wordStyle.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

// Space returns a single styled space.
func (b BgStyle) Space() string {
	return b.space
}

// Spaces returns n styled spaces.
func (b BgStyle) Spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return lipgloss.NewStyle().Background(b.bg).Render(strings.Repeat(" ", n))
}

// Join joins already-rendered parts with a styled separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, lipgloss.NewStyle().Background(b.bg).Render(sep))
}

// Badges renders labels as pills separated by styled spaces. Pills that do
// not fit in width are folded into a trailing "+N" counter.
func (b BgStyle) Badges(labels []string, style lipgloss.Style, width int) string {
	var parts []string
	used := 0
	for i, label := range labels {
		pill := style.Render(label)
		w := lipgloss.Width(pill)
		if len(parts) > 0 {
			w++
		}
		reserve := 0
		if i < len(labels)-1 {
			reserve = 4 // " +N"
		}
		if width > 0 && len(parts) > 0 && used+w+reserve > width {
			parts = append(parts, b.Render("+"+strconv.Itoa(len(labels)-i), lipgloss.NewStyle()))
			break
		}
		parts = append(parts, pill)
		used += w
	}
	return strings.Join(parts, b.space)
}

// FillLine pads rendered content to width with the background color.
func (b BgStyle) FillLine(content string, width int) string {
	return lipgloss.NewStyle().Background(b.bg).Width(width).Render(content)
}
