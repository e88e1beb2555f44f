package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/phonecat/internal/config"
	"github.com/five82/phonecat/internal/query"
)

type promptSpec struct {
	label       string
	placeholder string
}

var promptSpecs = map[query.Kind]promptSpec{
	query.KindSearch: {label: "Search", placeholder: "name, brand or description"},
	query.KindBrand:  {label: "Brand", placeholder: "Apple"},
	query.KindType:   {label: "Type", placeholder: "Gaming, Photography, Business..."},
	query.KindPrice:  {label: "Price", placeholder: "200-800"},
	query.KindPage:   {label: "Page", placeholder: "1"},
}

// openPrompt focuses the input line for kind, prefilled with value.
func (m *Model) openPrompt(kind query.Kind, value string) tea.Cmd {
	spec := promptSpecs[kind]
	m.prompting = true
	m.promptKind = kind
	m.flash = ""
	m.prompt.Prompt = spec.label + ": "
	m.prompt.Placeholder = spec.placeholder
	m.prompt.PromptStyle = m.theme.Styles().AccentText.Bold(true)
	m.prompt.TextStyle = m.theme.Styles().Text
	m.prompt.SetValue(value)
	m.prompt.CursorEnd()
	return tea.Batch(m.prompt.Focus(), textinput.Blink)
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
	m.prompt.SetValue("")
}

// handlePromptKey processes keyboard input while the prompt is open.
func (m Model) handlePromptKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.closePrompt()
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		kind, raw := m.promptKind, m.prompt.Value()
		m.closePrompt()
		in, err := query.ParseIntent(kind, raw)
		if err != nil {
			m.flash = err.Error()
			return m, nil
		}
		if kind == query.KindSearch {
			m.prefs.LastSearch = strings.TrimSpace(raw)
			m.savePrefs()
		}
		cmd := m.dispatch(in)
		return m, cmd
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// quickFilterIntent turns a configured quick filter into an intent.
func quickFilterIntent(f config.QuickFilter) (query.Intent, error) {
	switch f.Kind {
	case "search":
		return query.ParseIntent(query.KindSearch, f.Value)
	case "brand":
		return query.ParseIntent(query.KindBrand, f.Value)
	case "type":
		return query.ParseIntent(query.KindType, f.Value)
	case "price":
		return query.ParseIntent(query.KindPrice, f.Value)
	default:
		return query.Intent{}, fmt.Errorf("quick filter %q: unknown kind %q", f.Label, f.Kind)
	}
}
