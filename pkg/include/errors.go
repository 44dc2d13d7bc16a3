package include

import (
	"errors"
	"fmt"
)

// ErrMissingIncludeSource is returned for an Include element without a src.
var ErrMissingIncludeSource = errors.New(`wingman: Include requires a "src" prop`)

// ErrIncludeRead matches every ReadError.
var ErrIncludeRead = errors.New("wingman: include read failed")

// ReadError reports a file that could not be read during resolution.
type ReadError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *ReadError) Error() string {
	return fmt.Sprintf("wingman: reading include %s: %v", e.Path, e.Err)
}

// Unwrap returns ErrIncludeRead and the underlying error, so both
// errors.Is(err, ErrIncludeRead) and errors.Is(err, fs.ErrNotExist) hold.
func (e *ReadError) Unwrap() []error {
	return []error{ErrIncludeRead, e.Err}
}
