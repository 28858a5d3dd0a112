package trace

import (
	"fmt"
	"sync"

	"github.com/animus-labs/fluid-go/internal/platform/k8s"
	"github.com/animus-labs/fluid-go/tekton"
)

// StepSpec declares one step. Name is derived when empty.
type StepSpec struct {
	Name    string
	Image   string
	Command []string
	Args    []string
	Env     []tekton.EnvVar
}

// Env builds an ordered env list from alternating names and values. A
// trailing name without a value gets an empty value.
func Env(kv ...string) []tekton.EnvVar {
	out := make([]tekton.EnvVar, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		v := tekton.EnvVar{Name: kv[i]}
		if i+1 < len(kv) {
			v.Value = kv[i+1]
		}
		out = append(out, v)
	}
	return out
}

// Builder is handed to a task body for the duration of one trace.
type Builder struct {
	mu     sync.Mutex
	rec    *Recorder
	namer  Namer
	names  map[string]struct{}
	issues MisuseError
}

func newBuilder(namer Namer) *Builder {
	return &Builder{
		rec:   NewRecorder(),
		namer: namer,
		names: make(map[string]struct{}),
	}
}

// Step records a step declaration. Steps declared after the trace has
// returned fail with ErrRecorderSealed.
func (b *Builder) Step(spec StepSpec) error {
	name := spec.Name
	if name == "" {
		name = b.namer.Name(KindStep, 1)
	}
	name = k8s.SafeName(name)

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rec.sealed {
		return ErrRecorderSealed
	}
	if spec.Image == "" {
		b.issues.Add(fmt.Sprintf("step[%s] image is required", name))
	}
	if name == "" {
		b.issues.Add(fmt.Sprintf("step[%d] name is empty once sanitized", b.rec.Len()))
	} else if _, dup := b.names[name]; dup {
		b.issues.Add(fmt.Sprintf("duplicate step name %q", name))
	}
	b.names[name] = struct{}{}

	step := tekton.Step{
		Name:    name,
		Image:   spec.Image,
		Command: cloneStrings(spec.Command),
		Args:    cloneStrings(spec.Args),
	}
	if spec.Env != nil {
		step.Env = append([]tekton.EnvVar{}, spec.Env...)
	}
	return b.rec.Append(step)
}

func (b *Builder) misuse(format string, args ...any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.rec.sealed {
		return
	}
	b.issues.Add(fmt.Sprintf(format, args...))
}

func (b *Builder) finish() ([]tekton.Step, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	steps := b.rec.Take()
	if err := b.issues.OrNil(); err != nil {
		return nil, err
	}
	return steps, nil
}

func cloneStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string(nil), in...)
}
