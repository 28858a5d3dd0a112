package signature

import (
	"errors"
	"fmt"
)

// ErrInvalidSignature is matched by every error Inspect and Validate return.
var ErrInvalidSignature = errors.New("invalid task signature")

// SignatureOrderError means a resource parameter follows a plain parameter.
type SignatureOrderError struct {
	Param string
}

func (e *SignatureOrderError) Error() string {
	return fmt.Sprintf("%s is a resource and follows a plain parameter", e.Param)
}

func (e *SignatureOrderError) Is(target error) bool { return target == ErrInvalidSignature }

// ResourceDefaultError means a resource parameter declares a default value.
type ResourceDefaultError struct {
	Param string
}

func (e *ResourceDefaultError) Error() string {
	return fmt.Sprintf("%s cannot be a resource and have a default", e.Param)
}

func (e *ResourceDefaultError) Is(target error) bool { return target == ErrInvalidSignature }

// AnnotationGrammarError means a resource tag is not "(input|output),(git|image)".
type AnnotationGrammarError struct {
	Param string
	Tag   string
}

func (e *AnnotationGrammarError) Error() string {
	return fmt.Sprintf("%s has illegal resource annotation %q", e.Param, e.Tag)
}

func (e *AnnotationGrammarError) Is(target error) bool { return target == ErrInvalidSignature }

type EmptyNameError struct {
	Index int
}

func (e *EmptyNameError) Error() string {
	return fmt.Sprintf("parameter[%d] name is required", e.Index)
}

func (e *EmptyNameError) Is(target error) bool { return target == ErrInvalidSignature }

// DuplicateParamError means two parameters share a name once sanitized.
type DuplicateParamError struct {
	Param string
}

func (e *DuplicateParamError) Error() string {
	return fmt.Sprintf("duplicate parameter %q", e.Param)
}

func (e *DuplicateParamError) Is(target error) bool { return target == ErrInvalidSignature }

// DefaultOrderError means a parameter without a default follows one with a default.
type DefaultOrderError struct {
	Param string
}

func (e *DefaultOrderError) Error() string {
	return fmt.Sprintf("%s has no default and follows a parameter with a default", e.Param)
}

func (e *DefaultOrderError) Is(target error) bool { return target == ErrInvalidSignature }
