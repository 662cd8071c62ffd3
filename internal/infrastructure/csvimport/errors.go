package csvimport

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrEmptyFile       = errors.New("CSV file is empty")
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	ErrMissingHeader   = errors.New("CSV file missing header row")
)

// RowError locates a problem in the file
type RowError struct {
	Line    int
	Column  string
	Message string
}

func (e RowError) Error() string {
	if e.Column != "" {
		return fmt.Sprintf("line %d, column %q: %s", e.Line, e.Column, e.Message)
	}
	return fmt.Sprintf("line %d: %s", e.Line, e.Message)
}

// RowErrors collects every row problem found in one pass, up to a limit
type RowErrors []RowError

// maxRowErrors stops reporting after this many problems
const maxRowErrors = 50

func (e RowErrors) Error() string {
	lines := make([]string, 0, len(e))
	for _, re := range e {
		lines = append(lines, re.Error())
	}
	return fmt.Sprintf("%d invalid rows:\n%s", len(e), strings.Join(lines, "\n"))
}

func (e *RowErrors) add(err RowError) bool {
	*e = append(*e, err)
	return len(*e) < maxRowErrors
}
