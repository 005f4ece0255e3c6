package feed

import "fmt"

// ParseError reports a malformed row. Row is 1-based.
type ParseError struct {
	Feed   string
	Row    int
	Column string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("%s feed row %d: %v", e.Feed, e.Row, e.Err)
	}
	return fmt.Sprintf("%s feed row %d column %s: %v", e.Feed, e.Row, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type errMissingColumn struct {
	col, width int
}

func (e errMissingColumn) Error() string {
	return fmt.Sprintf("column %d missing, row has %d fields", e.col, e.width)
}
