package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/phonecat/internal/present"
)

const detailWidth = 60

// renderDetail renders the selected phone as a centered modal.
func (m Model) renderDetail() string {
	c, ok := m.selectedCard()
	if !ok {
		return m.renderMain()
	}
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	inner := detailWidth - 6

	var b strings.Builder
	writeSection := func(title string) {
		b.WriteString("\n")
		b.WriteString(bg.Render(title, styles.AccentText.Bold(true)))
		b.WriteString("\n")
	}
	writeField := func(label, value string) {
		if value == "" {
			return
		}
		b.WriteString(bg.Render(padRight(label, 12), styles.MutedText))
		b.WriteString(bg.Render(truncate(value, inner-12), styles.Text))
		b.WriteString("\n")
	}

	b.WriteString(bg.Render(truncate(c.Name, inner), styles.Text.Bold(true)))
	b.WriteString("\n")
	b.WriteString(bg.Render(c.Brand, styles.MutedText))
	b.WriteString("\n")

	for _, line := range wrapLines(c.Description, inner, 6) {
		b.WriteString("\n")
		b.WriteString(bg.Render(line, styles.FaintText))
	}
	if c.Description != "" {
		b.WriteString("\n")
	}

	writeSection("Price")
	b.WriteString(bg.Render(c.Price, styles.PriceText.Bold(true)))
	b.WriteString(bg.Spaces(2))
	b.WriteString(bg.Render(c.Rating, styles.RatingText))
	if c.Reviews != "" {
		b.WriteString(bg.Space())
		b.WriteString(bg.Render("("+c.Reviews+")", styles.MutedText))
	}
	b.WriteString("\n")

	writeSection("Specs")
	for _, s := range c.Specs {
		writeField(s.Label, s.Value)
	}
	writeField("Released", c.Released)

	if len(c.UsageBadges) > 0 || len(c.FeatureBadges) > 0 {
		writeSection("Tags")
		if len(c.UsageBadges) > 0 {
			b.WriteString(bg.Badges(c.UsageBadges, styles.UsageBadge, inner))
			b.WriteString("\n")
		}
		if len(c.FeatureBadges) > 0 {
			b.WriteString(bg.Badges(c.FeatureBadges, styles.FeatureBadge, inner))
			b.WriteString("\n")
		}
	}

	if c.ImageURL != "" {
		writeSection("Image")
		b.WriteString(bg.Render(truncateMiddle(c.ImageURL, inner), styles.InfoText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(bg.Render("id "+c.ID, styles.FaintText))
	b.WriteString(bg.Spaces(2))
	b.WriteString(bg.Render("esc to close", styles.FaintText))

	lines := strings.Split(b.String(), "\n")
	for i, line := range lines {
		lines[i] = bg.FillLine(line, inner)
	}

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Background(lipgloss.Color(m.theme.Surface)).
		Padding(1, 2).
		Width(detailWidth - 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(strings.Join(lines, "\n")),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}

// selectedCard returns the card under the cursor.
func (m Model) selectedCard() (present.Card, bool) {
	if m.view.Status != present.StatusGrid || m.selected < 0 || m.selected >= len(m.view.Cards) {
		return present.Card{}, false
	}
	return m.view.Cards[m.selected], true
}

// handleDetailKey processes input while the detail modal is open.
func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Detail), msg.String() == "q":
		m.overlay = overlayNone
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Right), key.Matches(msg, m.keys.Left):
		// Step through cards without leaving the modal.
		next, cmd := m.handleGridKey(msg)
		return next, cmd
	}
	return m, nil
}
