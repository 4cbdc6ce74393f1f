package parser

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

type htmlExtractor struct{}

func (htmlExtractor) CanParse(filename string) bool {
	name := strings.ToLower(filename)
	return strings.HasSuffix(name, ".html") || strings.HasSuffix(name, ".htm")
}

func (htmlExtractor) Extract(content []byte) (*Extraction, error) {
	return ExtractHTML(content)
}

// ExtractHTML reads the first <table> of an HTML document. Every <tr> after
// the header contributes the labels found in its second <td>.
func ExtractHTML(content []byte) (*Extraction, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("%w: parse html: %v", ErrMalformedInput, err)
	}
	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("%w: no <table> element found", ErrMalformedInput)
	}
	trs := table.Find("tr")
	if trs.Length() == 0 {
		return nil, fmt.Errorf("%w: table has no rows", ErrMalformedInput)
	}
	rows := make([][]string, 0, trs.Length())
	trs.Each(func(_ int, tr *goquery.Selection) {
		tds := tr.Find("td")
		cells := make([]string, 0, tds.Length())
		tds.Each(func(_ int, td *goquery.Selection) {
			cells = append(cells, td.Text())
		})
		rows = append(rows, cells)
	})
	return collect(rows), nil
}
