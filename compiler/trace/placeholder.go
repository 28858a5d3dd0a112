package trace

import (
	"fmt"

	"github.com/animus-labs/fluid-go/compiler/signature"
	"github.com/animus-labs/fluid-go/internal/platform/k8s"
)

// ParamRef is the runtime reference Tekton substitutes with a param value.
func ParamRef(name string) string {
	return fmt.Sprintf("$(inputs.params.%s)", k8s.SafeName(name))
}

// ResourceFieldRef is the runtime reference to a field of a bound resource.
func ResourceFieldRef(io signature.IO, name, field string) string {
	return fmt.Sprintf("$(%ss.resources.%s.%s)", io, k8s.SafeName(name), field)
}

// ResourceRef stands in for a resource parameter during the trace.
type ResourceRef struct {
	param signature.Parameter
	b     *Builder
}

func (r ResourceRef) Name() string { return r.param.SafeName() }

func (r ResourceRef) IO() signature.IO { return r.param.IO }

func (r ResourceRef) Type() signature.ResourceType { return r.param.ResourceType }

func (r ResourceRef) URL() string {
	if r.b == nil {
		return ""
	}
	return ResourceFieldRef(r.param.IO, r.param.Name, "url")
}

// Revision is only defined for git resources.
func (r ResourceRef) Revision() string {
	if r.b == nil {
		return ""
	}
	if r.param.ResourceType != signature.Git {
		r.b.misuse("%s is a %s resource and has no revision", r.param.Name, r.param.ResourceType)
		return ""
	}
	return ResourceFieldRef(r.param.IO, r.param.Name, "revision")
}

func (r ResourceRef) String() string { return r.URL() }

// Args exposes the placeholder of every parameter, in signature order.
type Args struct {
	sig signature.Signature
	b   *Builder
}

func (a Args) Len() int { return len(a.sig.Params) }

// Param returns the placeholder of a plain parameter.
func (a Args) Param(name string) string {
	_, p, ok := a.sig.Lookup(name)
	if !ok {
		a.b.misuse("unknown parameter %q", name)
		return ""
	}
	if p.IsResource() {
		a.b.misuse("%s is a resource, not a plain parameter", name)
		return ""
	}
	return ParamRef(p.Name)
}

// Resource returns the placeholder of a resource parameter.
func (a Args) Resource(name string) ResourceRef {
	_, p, ok := a.sig.Lookup(name)
	if !ok {
		a.b.misuse("unknown parameter %q", name)
		return ResourceRef{}
	}
	if !p.IsResource() {
		a.b.misuse("%s is a plain parameter, not a resource", name)
		return ResourceRef{}
	}
	return ResourceRef{param: p, b: a.b}
}

// At returns the placeholder at position i: a string for plain parameters,
// a ResourceRef for resources.
func (a Args) At(i int) any {
	if i < 0 || i >= len(a.sig.Params) {
		a.b.misuse("parameter index %d out of range", i)
		return nil
	}
	p := a.sig.Params[i]
	if p.IsResource() {
		return ResourceRef{param: p, b: a.b}
	}
	return ParamRef(p.Name)
}
