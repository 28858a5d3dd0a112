package trace

import (
	"errors"

	"github.com/animus-labs/fluid-go/tekton"
)

var ErrRecorderSealed = errors.New("step recorder is sealed")

// Recorder is the ordered step buffer of a single trace. It is not shared
// between traces and needs no locking: a trace runs the body on one goroutine.
type Recorder struct {
	steps  []tekton.Step
	sealed bool
}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Append(step tekton.Step) error {
	if r.sealed {
		return ErrRecorderSealed
	}
	r.steps = append(r.steps, step)
	return nil
}

func (r *Recorder) Len() int { return len(r.steps) }

// Take hands the recorded steps to the caller, leaves the recorder empty
// and seals it.
func (r *Recorder) Take() []tekton.Step {
	out := r.steps
	r.steps = nil
	r.sealed = true
	if out == nil {
		out = []tekton.Step{}
	}
	return out
}
