package logtail

import (
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Entry is one parsed slog text-handler line.
type Entry struct {
	Time    time.Time
	Level   slog.Level
	Message string
	Attrs   []Attr
	Raw     string
	Parsed  bool // false when the line was not key=value formatted
}

// Attr is a key=value pair following the message.
type Attr struct {
	Key   string
	Value string
}

// Attr returns the value for key, or "" when absent.
func (e Entry) Attr(key string) string {
	for _, a := range e.Attrs {
		if a.Key == key {
			return a.Value
		}
	}
	return ""
}

// ParseLine decodes a line written by slog.TextHandler. Lines in any other
// shape come back with Parsed false, level info and the raw text as message.
func ParseLine(line string) Entry {
	entry := Entry{Raw: line, Level: slog.LevelInfo, Message: strings.TrimSpace(line)}
	pairs, ok := splitPairs(line)
	if !ok || len(pairs) == 0 {
		return entry
	}

	sawLevel := false
	entry.Message = ""
	for _, p := range pairs {
		switch p.Key {
		case slog.TimeKey:
			if t, err := time.Parse(time.RFC3339Nano, p.Value); err == nil {
				entry.Time = t
			}
		case slog.LevelKey:
			var level slog.Level
			if err := level.UnmarshalText([]byte(p.Value)); err == nil {
				entry.Level = level
				sawLevel = true
			}
		case slog.MessageKey:
			entry.Message = p.Value
		default:
			entry.Attrs = append(entry.Attrs, p)
		}
	}
	if !sawLevel {
		return Entry{Raw: line, Level: slog.LevelInfo, Message: strings.TrimSpace(line)}
	}
	entry.Parsed = true
	return entry
}

// ParseLines parses each line and keeps entries at or above minLevel.
func ParseLines(lines []string, minLevel slog.Level) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		e := ParseLine(line)
		if e.Level < minLevel {
			continue
		}
		out = append(out, e)
	}
	return out
}

func splitPairs(line string) ([]Attr, bool) {
	var pairs []Attr
	rest := strings.TrimSpace(line)
	for rest != "" {
		eq := strings.IndexByte(rest, '=')
		if eq <= 0 || strings.ContainsAny(rest[:eq], " \t\"") {
			return nil, false
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := closingQuote(rest)
			if end < 0 {
				return nil, false
			}
			unquoted, err := strconv.Unquote(rest[:end+1])
			if err != nil {
				return nil, false
			}
			value = unquoted
			rest = rest[end+1:]
		} else {
			end := strings.IndexByte(rest, ' ')
			if end < 0 {
				end = len(rest)
			}
			value = rest[:end]
			rest = rest[end:]
		}
		pairs = append(pairs, Attr{Key: key, Value: value})
		rest = strings.TrimLeft(rest, " ")
	}
	return pairs, true
}

// closingQuote returns the index of the quote ending the string that starts
// at s[0], or -1.
func closingQuote(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}
