package bbox

import (
	"errors"
	"fmt"
)

// ErrNoPages is returned when a document opens but has no pages
var ErrNoPages = errors.New("document has no pages")

// AccessError reports a document that could not be opened or read
type AccessError struct {
	Path string
	Op   string
	Err  error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("cannot %s %q: %v", e.Op, e.Path, e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// IsAccessError reports whether err is or wraps an *AccessError
func IsAccessError(err error) bool {
	var ae *AccessError
	return errors.As(err, &ae)
}
