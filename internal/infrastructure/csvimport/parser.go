// Package csvimport reads spreadsheet exports of the catalog. Files must be
// UTF-8 (a leading BOM is dropped) with a header row naming the columns.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// encodingProbe is how many leading bytes are checked for valid UTF-8
const encodingProbe = 4096

// Parser reads a CSV file row by row, addressing fields by header name
type Parser struct {
	reader    *csv.Reader
	headers   []string
	headerMap map[string]int
	line      int
}

// ParserOption configures a Parser
type ParserOption func(*csv.Reader)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(r *csv.Reader) { r.Comma = d }
}

// NewParser validates the encoding of r and reads its header row
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	buf := bufio.NewReader(r)
	if bom, err := buf.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = buf.Discard(3)
	}

	head, err := buf.Peek(encodingProbe)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(strings.TrimSpace(string(head))) == 0 {
		return nil, ErrEmptyFile
	}
	if !validUTF8(head, len(head) == encodingProbe) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(buf)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	for _, opt := range opts {
		opt(cr)
	}

	p := &Parser{reader: cr, headerMap: make(map[string]int)}
	record, err := cr.Read()
	if err == io.EOF {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	p.line = 1
	for i, h := range record {
		h = strings.ToLower(strings.TrimSpace(h))
		p.headers = append(p.headers, h)
		p.headerMap[h] = i
	}
	return p, nil
}

// validUTF8 checks b, tolerating a rune cut off at the end of a full
// sniff window
func validUTF8(b []byte, truncated bool) bool {
	if !truncated {
		return utf8.Valid(b)
	}
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return true
		}
		b = b[:len(b)-1]
	}
	return false
}

// Headers returns the lowercased header names in file order
func (p *Parser) Headers() []string {
	return p.headers
}

// Missing returns the required headers the file lacks
func (p *Parser) Missing(required ...string) []string {
	var missing []string
	for _, h := range required {
		if _, ok := p.headerMap[h]; !ok {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one data line keyed by header
type Row struct {
	Line int
	Data map[string]string
}

// Get returns the trimmed value of column, or "" when absent
func (r *Row) Get(column string) string {
	return r.Data[column]
}

// IsEmpty reports whether every field is blank
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// Next returns the next row, or io.EOF after the last one
func (p *Parser) Next() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.line++
	if err != nil {
		return nil, RowError{Line: p.line, Message: err.Error()}
	}
	row := &Row{Line: p.line, Data: make(map[string]string, len(p.headers))}
	for i, h := range p.headers {
		if i < len(record) {
			row.Data[h] = strings.TrimSpace(record[i])
		} else {
			row.Data[h] = ""
		}
	}
	return row, nil
}
