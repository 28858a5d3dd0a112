package compiler

import (
	"context"
	"fmt"

	"github.com/animus-labs/fluid-go/compiler/signature"
	"github.com/animus-labs/fluid-go/identity"
	"github.com/animus-labs/fluid-go/internal/platform/k8s"
	"github.com/animus-labs/fluid-go/tekton"
)

// Binding binds a parameter by name. For resource parameters Value is the
// name a resource declarator returned.
type Binding struct {
	Name  string
	Value string
}

func Bind(name, value string) Binding {
	return Binding{Name: name, Value: value}
}

type boundArg struct {
	index int
	value string
}

// Run binds args positionally, in signature order, and emits the TaskRun.
// Trailing parameters with defaults may be omitted. The service account
// active in ctx, if any, is attached.
func (t *Task) Run(ctx context.Context, args ...string) (tekton.TaskRun, error) {
	params := t.sig.Params
	if len(args) < t.sig.Required() || len(args) > len(params) {
		return tekton.TaskRun{}, &ArityError{
			Task:     t.Name(),
			Got:      len(args),
			Required: t.sig.Required(),
			Max:      len(params),
		}
	}
	bound := make([]boundArg, 0, len(args))
	for i, v := range args {
		bound = append(bound, boundArg{index: i, value: v})
	}
	return t.run(ctx, bound)
}

// RunNamed binds arguments by parameter name. Parameters with defaults may
// be left unbound.
func (t *Task) RunNamed(ctx context.Context, bindings ...Binding) (tekton.TaskRun, error) {
	values := make(map[int]string, len(bindings))
	for _, b := range bindings {
		i, _, ok := t.sig.Lookup(b.Name)
		if !ok {
			return tekton.TaskRun{}, &UnknownBindingError{Task: t.Name(), Param: b.Name}
		}
		if _, dup := values[i]; dup {
			return tekton.TaskRun{}, &DuplicateBindingError{Task: t.Name(), Param: b.Name}
		}
		values[i] = b.Value
	}

	bound := make([]boundArg, 0, len(values))
	for i, p := range t.sig.Params {
		v, ok := values[i]
		if !ok {
			if !t.sig.HasDefault(i) {
				return tekton.TaskRun{}, &MissingBindingError{Task: t.Name(), Param: p.Name}
			}
			continue
		}
		bound = append(bound, boundArg{index: i, value: v})
	}
	return t.run(ctx, bound)
}

func (t *Task) run(ctx context.Context, bound []boundArg) (tekton.TaskRun, error) {
	serviceAccount, _ := identity.ServiceAccount(ctx)
	run := assembleTaskRun(t.Name(), runName(t.Name(), t.runs.Add(1)), t.sig, bound, serviceAccount)
	if err := t.session.emit(ctx, run); err != nil {
		return tekton.TaskRun{}, err
	}
	t.session.logger.Info("task run assembled",
		"task", t.Name(),
		"name", run.Metadata.Name,
		"params", len(run.Spec.Inputs.Params),
		"service_account", serviceAccount,
	)
	return run, nil
}

// runName names the seq-th run of a task: "<task>-run" for the first,
// "<task>-run-<seq>" after that.
func runName(taskName string, seq int64) string {
	if seq <= 1 {
		return k8s.SafeName(taskName + "-run")
	}
	return k8s.SafeName(fmt.Sprintf("%s-run-%d", taskName, seq))
}

func assembleTaskRun(taskName, name string, sig signature.Signature, bound []boundArg, serviceAccount string) tekton.TaskRun {
	spec := tekton.TaskRunSpec{
		TaskRef: tekton.TaskRef{Name: taskName},
		Inputs: tekton.TaskRunInputs{
			Params:    []tekton.Param{},
			Resources: []tekton.TaskResourceBinding{},
		},
		Outputs:            tekton.TaskRunOutputs{Resources: []tekton.TaskResourceBinding{}},
		ServiceAccountName: serviceAccount,
	}
	for _, arg := range bound {
		p := sig.Params[arg.index]
		if !p.IsResource() {
			spec.Inputs.Params = append(spec.Inputs.Params, tekton.Param{Name: p.SafeName(), Value: arg.value})
			continue
		}
		binding := tekton.TaskResourceBinding{
			Name:        p.SafeName(),
			ResourceRef: tekton.ResourceRef{Name: arg.value},
		}
		if p.IO == signature.Input {
			spec.Inputs.Resources = append(spec.Inputs.Resources, binding)
		} else {
			spec.Outputs.Resources = append(spec.Outputs.Resources, binding)
		}
	}
	return tekton.NewTaskRun(name, spec)
}
