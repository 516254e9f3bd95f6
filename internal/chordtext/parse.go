// Package chordtext extracts display metadata from chord-sheet text.
// Sheets follow the ChordPro convention of {directive: value} lines; sync
// uses this only to re-derive title/key/tempo after pulling content.
package chordtext

import (
	"bufio"
	"strings"
)

// Meta is the display metadata carried by a chord sheet.
type Meta struct {
	Title         string
	Key           string
	Tempo         string
	TimeSignature string
}

// directive aliases accepted for each field, per the ChordPro convention.
var directives = map[string]*struct{ canonical string }{
	"title":     {"title"},
	"t":         {"title"},
	"key":       {"key"},
	"k":         {"key"},
	"tempo":     {"tempo"},
	"time":      {"time"},
	"meter":     {"time"},
	"signature": {"time"},
}

// Parse scans body for metadata directives. When no title directive is
// present, the first non-empty, non-directive line is used as the title.
func Parse(body string) Meta {
	var m Meta
	var fallbackTitle string

	sc := bufio.NewScanner(strings.NewReader(body))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "{") && strings.HasSuffix(line, "}") {
			name, value, ok := splitDirective(line)
			if !ok {
				continue
			}
			d, known := directives[name]
			if !known {
				continue
			}
			switch d.canonical {
			case "title":
				if m.Title == "" {
					m.Title = value
				}
			case "key":
				if m.Key == "" {
					m.Key = value
				}
			case "tempo":
				if m.Tempo == "" {
					m.Tempo = value
				}
			case "time":
				if m.TimeSignature == "" {
					m.TimeSignature = value
				}
			}
			continue
		}

		if fallbackTitle == "" {
			fallbackTitle = line
		}
	}

	if m.Title == "" {
		m.Title = fallbackTitle
	}
	return m
}

// splitDirective parses "{name: value}" into its parts.
func splitDirective(line string) (name, value string, ok bool) {
	inner := strings.TrimSuffix(strings.TrimPrefix(line, "{"), "}")
	name, value, found := strings.Cut(inner, ":")
	if !found {
		return "", "", false
	}
	return strings.ToLower(strings.TrimSpace(name)), strings.TrimSpace(value), true
}
