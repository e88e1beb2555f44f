package ui

import (
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/five82/phonecat/internal/query"
)

// renderHeader renders the status bar: caption, count, freshness and API.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	compact := m.width < LayoutCompactWidth

	parts := []string{bg.Render("phonecat", styles.Logo)}

	if m.view.Caption != "" {
		parts = append(parts, bg.Render(m.view.Caption, styles.Text.Bold(true)))
	}
	if m.view.Count != "" {
		parts = append(parts, bg.Render(m.view.Count, styles.MutedText))
	}

	switch {
	case m.snapshot.Loading:
		parts = append(parts, m.spinner.View()+bg.Space()+bg.Render("loading", styles.WarningText))
	case m.view.Offline:
		parts = append(parts, bg.Render("● OFFLINE", styles.DangerText.Bold(true)))
	case !m.snapshot.LastUpdated.IsZero():
		parts = append(parts, bg.Render("updated "+humanize.Time(m.snapshot.LastUpdated), styles.FaintText))
	}

	if !compact && m.apiURL != "" {
		parts = append(parts, bg.Render(truncateMiddle(m.apiURL, 40), styles.FaintText))
	}

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(parts, "  "))
}

// renderCommandBar renders the short key hints and the active theme.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	colon := bg.Render(":", styles.FaintText)

	bindings := m.keys.ShortHelp()
	segments := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		h := b.Help()
		segments = append(segments,
			bg.Render(h.Key, styles.AccentText)+colon+bg.Render(h.Desc, styles.MutedText))
	}
	segments = append(segments,
		bg.Render("T", styles.AccentText)+colon+bg.Render(m.theme.Name, styles.FaintText))

	return styles.Header.Width(m.width).MaxHeight(1).Render(bg.Join(segments, "  "))
}

// renderFooter shows the prompt while one is open, otherwise the latest
// input error, the failure notice or paging hints.
func (m Model) renderFooter() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	footer := styles.Footer.Width(m.width).MaxHeight(1)

	if m.prompting {
		return footer.Render(m.prompt.View())
	}

	var parts []string
	switch {
	case m.flash != "":
		parts = append(parts, bg.Render(m.flash, styles.WarningText))
	case m.view.Notice != "":
		parts = append(parts,
			bg.Render(m.view.Notice, styles.DangerText),
			bg.Render("L for log", styles.FaintText))
	default:
		parts = append(parts, m.pageHints(styles, bg)...)
	}
	return footer.Render(bg.Join(parts, "  "))
}

func (m Model) pageHints(styles Styles, bg BgStyle) []string {
	var hints []string
	if _, ok := query.PrevPage(m.snapshot); ok {
		hints = append(hints, bg.Render("p", styles.AccentText)+bg.Render(" prev", styles.MutedText))
	}
	if _, ok := query.NextPage(m.snapshot); ok {
		hints = append(hints, bg.Render("n", styles.AccentText)+bg.Render(" next", styles.MutedText))
	}
	if len(m.view.Cards) > 0 {
		hints = append(hints, bg.Render("enter", styles.AccentText)+bg.Render(" details", styles.MutedText))
	}
	if len(hints) == 0 {
		return []string{bg.Render(strings.TrimSpace(m.view.Caption), styles.FaintText)}
	}
	return hints
}
