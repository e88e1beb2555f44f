package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/phonecat/internal/present"
)

// cardInnerWidth is the content width inside a card's border and padding.
const cardInnerWidth = CardWidth - 4

// renderBody renders the area below the command bar.
func (m Model) renderBody() string {
	height := m.bodyHeight()
	styles := m.theme.Styles()

	switch m.view.Status {
	case present.StatusLoading:
		msg := m.spinner.View() + " " + styles.MutedText.Render(m.view.Message)
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	case present.StatusEmpty:
		msg := styles.MutedText.Render(m.view.Message)
		return lipgloss.Place(m.width, height, lipgloss.Center, lipgloss.Center, msg)
	default:
		return m.grid.View()
	}
}

// renderGrid lays the cards out in rows and loads them into the viewport.
func (m *Model) renderGrid() {
	if !m.ready || m.view.Status != present.StatusGrid {
		m.grid.SetContent("")
		return
	}
	cols := gridColumns(m.width)
	var rows []string
	for start := 0; start < len(m.view.Cards); start += cols {
		end := min(start+cols, len(m.view.Cards))
		cells := make([]string, 0, 2*(end-start))
		for i := start; i < end; i++ {
			if i > start {
				cells = append(cells, strings.Repeat(" ", CardGap))
			}
			cells = append(cells, m.renderCard(m.view.Cards[i], i == m.selected))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	m.grid.SetContent(strings.Join(rows, "\n"))
	m.scrollToSelected()
}

// renderCard draws one phone card.
func (m Model) renderCard(c present.Card, selected bool) string {
	bgColor := m.theme.SurfaceAlt
	border := m.theme.Border
	if selected {
		bgColor = m.theme.FocusBg
		border = m.theme.BorderFocus
	}
	styles := m.theme.Styles().WithBackground(bgColor)
	bg := NewBgStyle(bgColor)
	w := cardInnerWidth

	lines := make([]string, 0, CardHeight-2)

	// Name and brand share the first line.
	brand := truncate(c.Brand, w/3)
	name := truncate(c.Name, w-len([]rune(brand))-1)
	gap := w - lipgloss.Width(name) - lipgloss.Width(brand)
	lines = append(lines, bg.Render(name, styles.Text.Bold(true))+bg.Spaces(gap)+bg.Render(brand, styles.MutedText))

	desc := wrapLines(c.Description, w, 2)
	for len(desc) < 2 {
		desc = append(desc, "")
	}
	for _, d := range desc {
		lines = append(lines, bg.Render(d, styles.FaintText))
	}

	rating := c.Rating
	gap = w - lipgloss.Width(c.Price) - lipgloss.Width(rating)
	lines = append(lines, bg.Render(c.Price, styles.PriceText)+bg.Spaces(gap)+bg.Render(rating, styles.RatingText))

	for i := 0; i < len(c.Specs) && i < 4; i += 2 {
		left := specText(c.Specs[i])
		right := ""
		if i+1 < len(c.Specs) {
			right = specText(c.Specs[i+1])
		}
		lines = append(lines, bg.Render(padRight(truncate(left, w/2-1), w/2), styles.MutedText)+bg.Render(truncate(right, w-w/2), styles.MutedText))
	}

	lines = append(lines, bg.Badges(c.UsageBadges, styles.UsageBadge, w))
	lines = append(lines, bg.Badges(c.FeatureBadges, styles.FeatureBadge, w))

	for i, line := range lines {
		lines[i] = bg.FillLine(line, w)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(border)).
		BorderBackground(lipgloss.Color(m.theme.Background)).
		Background(lipgloss.Color(bgColor)).
		Padding(0, 1).
		Width(CardWidth - 2).
		Height(CardHeight - 2).
		MaxHeight(CardHeight).
		Render(strings.Join(lines, "\n"))
}

func specText(s present.Spec) string {
	return s.Label + ": " + s.Value
}

// handleGridKey moves the selection and scrolls the grid.
func (m Model) handleGridKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	count := len(m.view.Cards)
	if m.view.Status != present.StatusGrid || count == 0 {
		return m, nil
	}
	cols := gridColumns(m.width)
	prev := m.selected

	switch {
	case key.Matches(msg, m.keys.Down):
		if m.selected+cols < count {
			m.selected += cols
		} else {
			m.selected = count - 1
		}
	case key.Matches(msg, m.keys.Up):
		if m.selected-cols >= 0 {
			m.selected -= cols
		} else {
			m.selected = 0
		}
	case key.Matches(msg, m.keys.Right):
		m.selected = min(m.selected+1, count-1)
	case key.Matches(msg, m.keys.Left):
		m.selected = max(m.selected-1, 0)
	case key.Matches(msg, m.keys.Top):
		m.selected = 0
	case key.Matches(msg, m.keys.Bottom):
		m.selected = count - 1
	case key.Matches(msg, m.keys.PageDown):
		m.grid.HalfPageDown()
		return m, nil
	case key.Matches(msg, m.keys.PageUp):
		m.grid.HalfPageUp()
		return m, nil
	}

	if m.selected != prev {
		m.renderGrid()
	}
	return m, nil
}

// scrollToSelected keeps the selected card's row inside the viewport.
func (m *Model) scrollToSelected() {
	row := m.selected / gridColumns(m.width)
	top := row * CardHeight
	bottom := top + CardHeight
	switch {
	case top < m.grid.YOffset:
		m.grid.SetYOffset(top)
	case bottom > m.grid.YOffset+m.grid.Height:
		m.grid.SetYOffset(bottom - m.grid.Height)
	}
}
