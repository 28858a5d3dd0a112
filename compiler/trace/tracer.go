// Package trace runs a task body once against symbolic placeholders and
// captures the steps it declares, in declaration order.
//
// The body never sees concrete argument values: plain parameters are
// "$(inputs.params.<name>)" references and resources are ResourceRefs, so
// the captured steps hold for every later TaskRun.
package trace

import (
	"fmt"

	"github.com/animus-labs/fluid-go/compiler/signature"
	"github.com/animus-labs/fluid-go/tekton"
)

// Body declares a task's steps through b.
type Body func(b *Builder, args Args)

// Run invokes body exactly once with a fresh recorder and returns the
// recorded steps. sig must already be validated.
func Run(sig signature.Signature, body Body, namer Namer) (steps []tekton.Step, err error) {
	if body == nil {
		return nil, &MisuseError{Issues: []string{"task body is required"}}
	}
	if namer == nil {
		namer = Counting("")
	}

	b := newBuilder(namer)
	args := Args{sig: sig, b: b}

	defer func() {
		if r := recover(); r != nil {
			_, _ = b.finish()
			steps, err = nil, &MisuseError{Issues: []string{fmt.Sprintf("task body panicked: %v", r)}}
		}
	}()
	body(b, args)
	return b.finish()
}
