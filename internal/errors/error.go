package errors

import (
	"bufio"
	"fmt"
	"os"
)

// Category groups error codes.
type Category string

const (
	CategoryCompose Category = "compose"
	CategoryConfig  Category = "config"
	CategoryLoad    Category = "load"
	CategoryOutput  Category = "output"
	CategoryPreview Category = "preview"
	CategoryCLI     Category = "cli"
)

// Location is a position in a tree or config file.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// WingmanError is a coded diagnostic.
type WingmanError struct {
	// Code is the registered code, e.g. "W003".
	Code string

	Category Category

	// Message is the short registered description.
	Message string

	// Detail explains this occurrence.
	Detail string

	Location *Location

	// Context holds the source lines around Location.
	Context []string

	// Suggestion is a hint on how to fix the problem.
	Suggestion string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (e *WingmanError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *WingmanError) Unwrap() error {
	return e.Wrapped
}

// WithLocation points the error at a file position and loads the
// surrounding lines for display.
func (e *WingmanError) WithLocation(file string, line, column int) *WingmanError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *WingmanError) WithSuggestion(s string) *WingmanError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *WingmanError) WithDetail(d string) *WingmanError {
	e.Detail = d
	return e
}

// WithDetailf is WithDetail with formatting.
func (e *WingmanError) WithDetailf(format string, args ...any) *WingmanError {
	return e.WithDetail(fmt.Sprintf(format, args...))
}

// Wrap wraps another error.
func (e *WingmanError) Wrap(err error) *WingmanError {
	e.Wrapped = err
	return e
}

// readContextLines reads up to contextSize lines centred on targetLine.
func readContextLines(filename string, targetLine, contextSize int) []string {
	if targetLine <= 0 {
		return nil
	}
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}

	return lines
}

// contextStart is the line number of e.Context[0].
func (e *WingmanError) contextStart() int {
	start := e.Location.Line - 5/2
	if start < 1 {
		start = 1
	}
	return start
}

// New creates a WingmanError from a registered code.
func New(code string) *WingmanError {
	template, ok := registry[code]
	if !ok {
		return &WingmanError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &WingmanError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates an uncoded WingmanError with a formatted message.
func Newf(category Category, format string, args ...any) *WingmanError {
	return &WingmanError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps err in a WingmanError with code, unless it already is one.
func FromError(err error, code string) *WingmanError {
	if err == nil {
		return nil
	}
	if we, ok := err.(*WingmanError); ok {
		return we
	}
	return New(code).Wrap(err).WithDetail(err.Error())
}
