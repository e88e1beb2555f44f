package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/five82/phonecat/internal/logtail"
)

// Attributes folded into the entry subject instead of the detail list.
const (
	attrGeneration = "generation"
	attrMode       = "mode"
)

func formatLogEntries(entries []logtail.Entry) []string {
	if len(entries) == 0 {
		return nil
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, formatLogEntry(e))
	}
	return lines
}

func formatLogEntry(e logtail.Entry) string {
	if !e.Parsed {
		return strings.TrimSpace(e.Raw)
	}
	var parts []string
	if !e.Time.IsZero() {
		parts = append(parts, e.Time.In(time.Local).Format("2006-01-02 15:04:05"))
	}
	parts = append(parts, e.Level.String())
	header := strings.Join(parts, " ")
	if subject := composeSubject(e.Attr(attrGeneration), e.Attr(attrMode)); subject != "" {
		header += " " + subject
	}
	if message := strings.TrimSpace(e.Message); message != "" {
		header += " – " + message
	}

	var builder strings.Builder
	builder.WriteString(header)
	for _, a := range e.Attrs {
		if a.Key == attrGeneration || a.Key == attrMode {
			continue
		}
		value := strings.TrimSpace(a.Value)
		if value == "" {
			continue
		}
		builder.WriteString("\n    - ")
		builder.WriteString(a.Key)
		builder.WriteString(": ")
		builder.WriteString(value)
	}
	return builder.String()
}

func composeSubject(generation, mode string) string {
	generation = strings.TrimSpace(generation)
	mode = strings.TrimSpace(mode)
	switch {
	case generation != "" && mode != "":
		return fmt.Sprintf("Query #%s (%s)", generation, mode)
	case generation != "":
		return fmt.Sprintf("Query #%s", generation)
	default:
		return mode
	}
}
