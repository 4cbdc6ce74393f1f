package analysis

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Label is a normalized category token (uppercase, trimmed).
type Label string

// LabelSequence is the ordered multiset of labels read from a document.
// Order is row order, then split order within a row.
type LabelSequence []Label

// NormalizeLabel trims surrounding whitespace, applies NFC and uppercases s.
// An empty result means the piece should be discarded.
func NormalizeLabel(s string) Label {
	s = strings.TrimSpace(norm.NFC.String(s))
	if s == "" {
		return ""
	}
	// Casers keep state; build one per call so extractors can run in parallel.
	return Label(cases.Upper(language.Und).String(s))
}

// SplitLabels splits a comma-separated cell into normalized labels,
// dropping empty pieces left by trailing or doubled commas.
func SplitLabels(cell string) LabelSequence {
	parts := strings.Split(cell, ",")
	out := make(LabelSequence, 0, len(parts))
	for _, p := range parts {
		if l := NormalizeLabel(p); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// Strings returns the sequence as plain strings.
func (s LabelSequence) Strings() []string {
	out := make([]string, len(s))
	for i, l := range s {
		out[i] = string(l)
	}
	return out
}
