// Package emit delivers compiled manifests: as YAML documents on a writer,
// as objects in S3-compatible storage, as resources created in a cluster,
// or as rows in the manifest catalog.
package emit

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/animus-labs/fluid-go/tekton"
)

// Emitter accepts one manifest record at a time.
type Emitter interface {
	Emit(ctx context.Context, obj tekton.Object) error
}

type Func func(ctx context.Context, obj tekton.Object) error

func (f Func) Emit(ctx context.Context, obj tekton.Object) error { return f(ctx, obj) }

// Discard drops every record.
var Discard Emitter = Func(func(context.Context, tekton.Object) error { return nil })

// Multi fans a record out to every emitter in order and joins their errors.
func Multi(emitters ...Emitter) Emitter {
	return Func(func(ctx context.Context, obj tekton.Object) error {
		var errs []error
		for _, e := range emitters {
			if e == nil {
				continue
			}
			if err := e.Emit(ctx, obj); err != nil {
				errs = append(errs, fmt.Errorf("emit %s %s: %w", obj.GetKind(), obj.GetName(), err))
			}
		}
		return errors.Join(errs...)
	})
}

// Collector keeps emitted records in memory, in emission order.
type Collector struct {
	mu   sync.Mutex
	objs []tekton.Object
}

func (c *Collector) Emit(_ context.Context, obj tekton.Object) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.objs = append(c.objs, obj)
	return nil
}

func (c *Collector) Objects() []tekton.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]tekton.Object(nil), c.objs...)
}

// Kind returns the collected records of one kind.
func (c *Collector) Kind(kind string) []tekton.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []tekton.Object
	for _, obj := range c.objs {
		if obj.GetKind() == kind {
			out = append(out, obj)
		}
	}
	return out
}
