package ecs

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is wrapped by every checked accessor failure.
var ErrOutOfRange = errors.New("ecs: index out of range")

// RangeError reports a checked dense access past the end of a manager.
type RangeError struct {
	Index int
	Size  int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("ecs: index %d out of range [0:%d)", e.Index, e.Size)
}

func (e *RangeError) Unwrap() error { return ErrOutOfRange }

// ErrInconsistent is returned by Validate when the dense arrays and the
// index map disagree.
var ErrInconsistent = errors.New("ecs: manager storage inconsistent")
