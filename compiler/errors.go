package compiler

import (
	"errors"
	"fmt"
)

// ErrInvalidRun is matched by every argument binding error.
var ErrInvalidRun = errors.New("invalid task run")

// ArityError means a run bound too few or too many arguments.
type ArityError struct {
	Task     string
	Got      int
	Required int
	Max      int
}

func (e *ArityError) Error() string {
	if e.Required == e.Max {
		return fmt.Sprintf("task %s takes %d arguments, got %d", e.Task, e.Max, e.Got)
	}
	return fmt.Sprintf("task %s takes %d to %d arguments, got %d", e.Task, e.Required, e.Max, e.Got)
}

func (e *ArityError) Is(target error) bool { return target == ErrInvalidRun }

// UnknownBindingError means a named binding matches no parameter.
type UnknownBindingError struct {
	Task  string
	Param string
}

func (e *UnknownBindingError) Error() string {
	return fmt.Sprintf("task %s has no parameter %q", e.Task, e.Param)
}

func (e *UnknownBindingError) Is(target error) bool { return target == ErrInvalidRun }

// DuplicateBindingError means a parameter was bound twice.
type DuplicateBindingError struct {
	Task  string
	Param string
}

func (e *DuplicateBindingError) Error() string {
	return fmt.Sprintf("task %s: parameter %q bound more than once", e.Task, e.Param)
}

func (e *DuplicateBindingError) Is(target error) bool { return target == ErrInvalidRun }

// MissingBindingError means a parameter without a default was left unbound.
type MissingBindingError struct {
	Task  string
	Param string
}

func (e *MissingBindingError) Error() string {
	return fmt.Sprintf("task %s: parameter %q has no default and is not bound", e.Task, e.Param)
}

func (e *MissingBindingError) Is(target error) bool { return target == ErrInvalidRun }
