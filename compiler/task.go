package compiler

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/animus-labs/fluid-go/compiler/signature"
	"github.com/animus-labs/fluid-go/compiler/trace"
	"github.com/animus-labs/fluid-go/internal/platform/k8s"
	"github.com/animus-labs/fluid-go/tekton"
)

// Task is a declared task: its immutable manifest plus the run entry point.
type Task struct {
	session  *Session
	sig      signature.Signature
	manifest tekton.Task
	runs     atomic.Int64
}

// Task validates params, traces body and emits the resulting Task manifest.
// Nothing is emitted when validation or the trace fails.
func (s *Session) Task(ctx context.Context, name string, params []signature.Decl, body trace.Body) (*Task, error) {
	safe := k8s.SafeName(strings.TrimSpace(name))
	if safe == "" {
		return nil, fmt.Errorf("task name %q is empty once sanitized", name)
	}
	logger := s.logger.With("task", safe)

	sig, err := signature.Compile(params...)
	if err != nil {
		logger.Error("invalid task signature", "error", err)
		return nil, fmt.Errorf("task %s: %w", safe, err)
	}
	steps, err := trace.Run(sig, body, s.namers(safe))
	if err != nil {
		logger.Error("task trace failed", "error", err)
		return nil, fmt.Errorf("task %s: %w", safe, err)
	}

	t := &Task{session: s, sig: sig, manifest: assembleTask(safe, sig, steps)}
	if err := s.emit(ctx, t.Manifest()); err != nil {
		return nil, err
	}
	logger.Info("task compiled", "params", len(sig.Params), "steps", len(steps))
	return t, nil
}

func (t *Task) Name() string { return t.manifest.Metadata.Name }

// Signature returns a copy of the inspected parameter list.
func (t *Task) Signature() signature.Signature { return t.sig.Clone() }

// Manifest returns a copy of the compiled Task.
func (t *Task) Manifest() tekton.Task { return cloneTask(t.manifest) }

func assembleTask(name string, sig signature.Signature, steps []tekton.Step) tekton.Task {
	spec := tekton.TaskSpec{
		Inputs: tekton.TaskInputs{
			Params:    []tekton.ParamSpec{},
			Resources: []tekton.TaskResource{},
		},
		Outputs: tekton.TaskOutputs{Resources: []tekton.TaskResource{}},
		Steps:   steps,
	}
	for i, p := range sig.Params {
		if p.IsResource() {
			res := tekton.TaskResource{Name: p.SafeName(), Type: string(p.ResourceType)}
			if p.IO == signature.Input {
				spec.Inputs.Resources = append(spec.Inputs.Resources, res)
			} else {
				spec.Outputs.Resources = append(spec.Outputs.Resources, res)
			}
			continue
		}
		param := tekton.ParamSpec{Name: p.SafeName(), Type: tekton.ParamTypeString}
		if sig.HasDefault(i) && p.Default != nil {
			def := *p.Default
			param.Default = &def
		}
		spec.Inputs.Params = append(spec.Inputs.Params, param)
	}
	return tekton.NewTask(name, spec)
}

func cloneTask(in tekton.Task) tekton.Task {
	out := in
	out.Spec.Inputs.Params = make([]tekton.ParamSpec, len(in.Spec.Inputs.Params))
	for i, p := range in.Spec.Inputs.Params {
		if p.Default != nil {
			def := *p.Default
			p.Default = &def
		}
		out.Spec.Inputs.Params[i] = p
	}
	out.Spec.Inputs.Resources = append([]tekton.TaskResource{}, in.Spec.Inputs.Resources...)
	out.Spec.Outputs.Resources = append([]tekton.TaskResource{}, in.Spec.Outputs.Resources...)
	out.Spec.Steps = make([]tekton.Step, len(in.Spec.Steps))
	for i, step := range in.Spec.Steps {
		step.Command = append([]string{}, step.Command...)
		step.Args = append([]string{}, step.Args...)
		if step.Env != nil {
			step.Env = append([]tekton.EnvVar{}, step.Env...)
		}
		out.Spec.Steps[i] = step
	}
	return out
}
