package dispatch

import (
	"sort"
	"strconv"
	"strings"
)

// UnusedFieldLog collects payload elements that no input field consumed.
type UnusedFieldLog struct {
	entries []string
}

func (l *UnusedFieldLog) Add(path string) {
	l.entries = append(l.entries, path)
}

func (l *UnusedFieldLog) Len() int {
	return len(l.entries)
}

// Entries are sorted and deduplicated.
func (l *UnusedFieldLog) Entries() []string {
	if len(l.entries) == 0 {
		return nil
	}

	sorted := append([]string(nil), l.entries...)
	sort.Strings(sorted)
	out := sorted[:1]
	for _, e := range sorted[1:] {
		if e != out[len(out)-1] {
			out = append(out, e)
		}
	}

	return out
}

// Warning renders the log as an RFC 7234 warn-value.
func (l *UnusedFieldLog) Warning() string {
	text := "Ignoring unknown fields in body: " + strings.Join(l.Entries(), ", ")
	return "299 - " + strconv.Quote(text)
}
