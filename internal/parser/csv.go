package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

type csvExtractor struct{}

func (csvExtractor) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".csv") || strings.HasSuffix(name, ".tsv")
}

// Extract reads a CSV export of the same day/colors table. The delimiter is
// sniffed from the header line; the colors cell must be quoted when it
// contains commas.
func (csvExtractor) Extract(content []byte) (*Extraction, error) {
	r := csv.NewReader(bytes.NewReader(content))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = sniffDelimiter(content)

	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: read csv: %v", ErrMalformedInput, err)
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: csv has no rows", ErrMalformedInput)
	}
	return collect(rows), nil
}

func sniffDelimiter(content []byte) rune {
	first := content
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		first = content[:i]
	}
	best, bestN := ',', 0
	for _, d := range []rune{'\t', ';', ','} {
		if n := strings.Count(string(first), string(d)); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
