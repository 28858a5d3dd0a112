package trace

import (
	"errors"
	"strings"
)

// ErrMisuse is matched by every MisuseError.
var ErrMisuse = errors.New("task body misuse")

// MisuseError aggregates what a task body did wrong during its trace.
type MisuseError struct {
	Issues []string
}

func (e *MisuseError) Error() string {
	if len(e.Issues) == 0 {
		return "task body misuse"
	}
	return "task body misuse: " + strings.Join(e.Issues, "; ")
}

func (e *MisuseError) Is(target error) bool { return target == ErrMisuse }

func (e *MisuseError) Add(issue string) {
	if strings.TrimSpace(issue) == "" {
		return
	}
	e.Issues = append(e.Issues, issue)
}

func (e *MisuseError) OrNil() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
}
