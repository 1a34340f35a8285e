package notionblog

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrPostNotFound indicates a post was not found (or is not visible
	// under the requested publication constraint)
	ErrPostNotFound = errors.New("post not found")

	// ErrFriendNotFound indicates a friend link was not found
	ErrFriendNotFound = errors.New("friend not found")

	// ErrMissingToken indicates the service credential is absent; remote
	// operations cannot proceed without it
	ErrMissingToken = errors.New("notion token is required")

	// ErrBlockCycle indicates a cycle was detected in a page's block tree
	ErrBlockCycle = errors.New("cycle detected in block tree")

	// ErrMaxDepthExceeded indicates the block tree is nested deeper than
	// the configured traversal limit
	ErrMaxDepthExceeded = errors.New("block tree exceeds maximum depth")
)

// OperationError wraps a remote-call failure with the name of the operation
// that triggered it. All remote failures surface through this one kind.
type OperationError struct {
	Op  string
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("operation %s failed: %v", e.Op, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// UnsupportedPropertyError reports a property type tag outside the recognized
// set. Callers choose whether to log, default, or fail hard.
type UnsupportedPropertyError struct {
	Tag string
}

func (e *UnsupportedPropertyError) Error() string {
	return fmt.Sprintf("unsupported property type %q", e.Tag)
}

func wrapOp(op string, err error) error {
	if err == nil {
		return nil
	}
	return &OperationError{Op: op, Err: err}
}
