package loader

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is matched by every *ParseError.
var ErrInvalidTree = errors.New("loader: invalid tree")

// ParseError reports a problem in a tree file. Line and Column are 1-based
// and zero when the position is unknown.
type ParseError struct {
	Path   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	pos := e.Path
	if pos == "" {
		pos = "<tree>"
	}
	if e.Line > 0 {
		pos = fmt.Sprintf("%s:%d:%d", pos, e.Line, e.Column)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", pos, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", pos, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrInvalidTree, e.Err}
	}
	return []error{ErrInvalidTree}
}
