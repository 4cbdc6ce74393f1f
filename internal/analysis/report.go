package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Report is the result of a frequency analysis over one document.
type Report struct {
	Name        string
	Rows        int // data rows read, header excluded
	Skipped     int // rows dropped for having fewer than two cells
	Total       int
	Empty       bool
	Target      Label
	Mode        Label
	Median      Median
	Variance    float64
	Probability float64
	Frequencies FrequencyMap
}

type reportJSON struct {
	Name        string          `json:"name,omitempty"`
	Rows        int             `json:"rows"`
	Skipped     int             `json:"skipped_rows"`
	Total       int             `json:"total"`
	Empty       bool            `json:"empty"`
	Mode        Label           `json:"mode,omitempty"`
	MostWorn    Label           `json:"most_worn,omitempty"`
	Median      *Median         `json:"median,omitempty"`
	Variance    float64         `json:"variance"`
	Target      Label           `json:"target"`
	Probability float64         `json:"probability"`
	Frequencies []CategoryCount `json:"frequencies"`
}

// MarshalJSON renders the report with frequencies as an ordered list.
func (r *Report) MarshalJSON() ([]byte, error) {
	out := reportJSON{
		Name:        r.Name,
		Rows:        r.Rows,
		Skipped:     r.Skipped,
		Total:       r.Total,
		Empty:       r.Empty,
		Variance:    r.Variance,
		Target:      r.Target,
		Probability: r.Probability,
		Frequencies: r.Frequencies.Entries(),
	}
	if !r.Empty {
		m := r.Median
		out.Mode, out.MostWorn, out.Median = r.Mode, r.Mode, &m
	}
	return json.Marshal(out)
}

// Text renders the human-readable report printed by the CLI.
func (r *Report) Text() string {
	var b strings.Builder
	b.WriteString("--- T-Shirt Color Analysis ---\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	if r.Empty {
		b.WriteString("No colors found to analyze.\n")
		r.writeSkipped(&b)
		return b.String()
	}
	b.WriteString(fmt.Sprintf("1. Mean (Most Frequent) Color: %s\n", r.Mode))
	b.WriteString(fmt.Sprintf("2. Most Worn Color: %s\n", r.Mode))
	b.WriteString(fmt.Sprintf("3. Median Color (alphabetically sorted): %s\n", r.Median))
	b.WriteString(fmt.Sprintf("4. Variance of Color Frequencies: %.2f\n", r.Variance))
	b.WriteString(fmt.Sprintf("5. Probability of choosing %s: %.2f or %.2f%%\n", r.Target, r.Probability, r.Probability*100))
	r.writeSkipped(&b)
	return b.String()
}

func (r *Report) writeSkipped(b *strings.Builder) {
	if r.Skipped > 0 {
		b.WriteString(fmt.Sprintf("⚠ Skipped %d row(s) with fewer than two cells\n", r.Skipped))
	}
}

// Markdown renders a bracketed summary suitable for writing to a file.
func (r *Report) Markdown() string {
	var b strings.Builder
	b.WriteString("[COLOR SUMMARY]\n")
	if r.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", r.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d", r.Rows))
	if r.Skipped > 0 {
		b.WriteString(fmt.Sprintf(" (skipped %d)", r.Skipped))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Labels: %d (distinct %d)\n\n", r.Total, r.Frequencies.Len()))

	if r.Empty {
		b.WriteString("[STATISTICS]\n- no data\n")
		return b.String()
	}
	b.WriteString("[STATISTICS]\n")
	b.WriteString(fmt.Sprintf("- mode: %s\n", r.Mode))
	b.WriteString(fmt.Sprintf("- most worn: %s\n", r.Mode))
	b.WriteString(fmt.Sprintf("- median: %s\n", r.Median))
	b.WriteString(fmt.Sprintf("- variance of counts: %.2f\n", r.Variance))
	b.WriteString(fmt.Sprintf("- P(%s): %.2f (%.2f%%)\n\n", r.Target, r.Probability, r.Probability*100))

	b.WriteString("[FREQUENCIES]\n")
	b.WriteString("| color | count | share |\n")
	b.WriteString("|---|---:|---:|\n")
	for _, kv := range r.Frequencies.Ranked() {
		share := float64(kv.Count) * 100.0 / float64(r.Total)
		b.WriteString(fmt.Sprintf("| %s | %d | %.1f%% |\n", safeVal(string(kv.Value)), kv.Count, share))
	}
	return b.String()
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
