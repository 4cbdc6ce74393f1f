package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/shirtstats/internal/analysis"
)

var (
	// ErrInputNotFound indicates the document is missing or of an unsupported type.
	ErrInputNotFound = errors.New("input not found")
	// ErrMalformedInput indicates the document has no usable table.
	ErrMalformedInput = errors.New("malformed input")
)

// DocumentError ties an extraction failure to the document it came from.
type DocumentError struct {
	Path string
	Err  error
}

func (e *DocumentError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Extraction is the label sequence read from one document's table.
type Extraction struct {
	Source  string
	Labels  analysis.LabelSequence
	Rows    int // data rows, header excluded
	Skipped int // data rows with fewer than two cells
}

// Extractor reads a label sequence out of one document format.
type Extractor interface {
	CanParse(filename string) bool
	Extract(content []byte) (*Extraction, error)
}

var registry []Extractor

// Register adds an extractor implementation to the registry.
func Register(e Extractor) {
	registry = append(registry, e)
}

// Supported reports whether some registered extractor handles filename.
func Supported(filename string) bool {
	return lookup(filename) != nil
}

func lookup(filename string) Extractor {
	for _, e := range registry {
		if e.CanParse(filename) {
			return e
		}
	}
	return nil
}

// ExtractFile selects an extractor by file suffix and returns the labels it
// reads. Missing files and unknown suffixes fail with ErrInputNotFound.
func ExtractFile(path string) (*Extraction, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &DocumentError{Path: path, Err: fmt.Errorf("%w: file does not exist", ErrInputNotFound)}
		}
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("stat: %w", err)}
	}
	if info.IsDir() {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("%w: is a directory", ErrInputNotFound)}
	}
	ex := lookup(path)
	if ex == nil {
		ext := strings.ToLower(filepath.Ext(path))
		if ext == "" {
			ext = "(none)"
		}
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("%w: unsupported document type %s", ErrInputNotFound, ext)}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: fmt.Errorf("read file: %w", err)}
	}
	out, err := ex.Extract(data)
	if err != nil {
		return nil, &DocumentError{Path: path, Err: err}
	}
	out.Source = filepath.Base(path)
	return out, nil
}

// collect applies the row rules shared by every format: the first row is a
// header, rows need at least two cells, and the second cell holds a
// comma-separated list of labels.
func collect(rows [][]string) *Extraction {
	out := &Extraction{Labels: analysis.LabelSequence{}}
	if len(rows) <= 1 {
		return out
	}
	for _, cells := range rows[1:] {
		out.Rows++
		if len(cells) < 2 {
			out.Skipped++
			continue
		}
		out.Labels = append(out.Labels, analysis.SplitLabels(cells[1])...)
	}
	return out
}

func init() {
	Register(htmlExtractor{})
	Register(csvExtractor{})
	Register(xlsxExtractor{})
}
