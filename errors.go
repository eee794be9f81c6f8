package depscope

import (
	"errors"
	"fmt"
)

// ErrNotFound matches any *NotFoundError via errors.Is.
var ErrNotFound = errors.New("dependency not found")

// NotFoundError reports a strict lookup miss. It carries the key and
// namespace for diagnostics.
type NotFoundError struct {
	Key       string
	Namespace string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("depscope: dependency %q not found in namespace %q", e.Key, e.Namespace)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}
