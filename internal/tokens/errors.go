package tokens

import (
	"errors"
	"fmt"
)

// ErrPathNotFound is the sentinel behind PathNotFoundError.
var ErrPathNotFound = errors.New("token path not found")

// PathNotFoundError reports a lookup that did not end on a token value.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("token path %q not found", e.Path)
}

// Is lets errors.Is match ErrPathNotFound.
func (e *PathNotFoundError) Is(target error) bool {
	return target == ErrPathNotFound
}
