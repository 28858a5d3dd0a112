// Package signature turns an author-supplied parameter list into the ordered
// Parameter sequence a task is compiled from, and enforces the rules that
// make the symbolic trace safe: resources first, resources without defaults,
// and well-formed resource tags.
package signature

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/animus-labs/fluid-go/internal/platform/k8s"
)

// Kind tells plain parameters from resource slots.
type Kind int

const (
	Plain Kind = iota
	Resource
)

func (k Kind) String() string {
	if k == Resource {
		return "resource"
	}
	return "plain"
}

// IO is the direction of a resource: consumed or produced by the task.
type IO string

const (
	Input  IO = "input"
	Output IO = "output"
)

// ResourceType is the kind of external resource a slot binds.
type ResourceType string

const (
	Git   ResourceType = "git"
	Image ResourceType = "image"
)

var resourceTag = regexp.MustCompile(`^(input|output),(git|image)$`)

// ParseTag resolves a "<io>,<type>" resource annotation.
func ParseTag(tag string) (IO, ResourceType, bool) {
	m := resourceTag.FindStringSubmatch(tag)
	if m == nil {
		return "", "", false
	}
	return IO(m[1]), ResourceType(m[2]), true
}

// Decl is one entry of a declared parameter list.
type Decl struct {
	name     string
	def      *string
	tag      string
	resource bool
}

// Param declares a plain parameter without a default.
func Param(name string) Decl {
	return Decl{name: name}
}

// ParamDefault declares a plain parameter with a default value.
func ParamDefault(name, def string) Decl {
	return Param(name).WithDefault(def)
}

// InputResource declares a resource the task consumes.
func InputResource(name string, typ ResourceType) Decl {
	return Annotated(name, string(Input)+","+string(typ))
}

// OutputResource declares a resource the task produces.
func OutputResource(name string, typ ResourceType) Decl {
	return Annotated(name, string(Output)+","+string(typ))
}

// Annotated declares a resource by its string tag, e.g. "input,git".
// The tag is checked by Validate.
func Annotated(name, tag string) Decl {
	return Decl{name: name, tag: tag, resource: true}
}

// WithDefault gives d a default value. Only plain parameters may carry one;
// Validate rejects a defaulted resource.
func (d Decl) WithDefault(def string) Decl {
	d.def = &def
	return d
}

// Parameter is one inspected entry of a signature. IO and ResourceType are
// set only for resources whose tag parsed.
type Parameter struct {
	Name         string
	Default      *string
	Kind         Kind
	IO           IO
	ResourceType ResourceType
	// Tag is the annotation as declared; empty for plain parameters.
	Tag string
}

// SafeName is the name as it appears in manifests.
func (p Parameter) SafeName() string {
	return k8s.SafeName(p.Name)
}

func (p Parameter) IsResource() bool {
	return p.Kind == Resource
}

// Signature is the inspected parameter list. Parameters before DefaultsStart
// have no default; DefaultsStart never exceeds len(Params).
type Signature struct {
	Params        []Parameter
	DefaultsStart int
}

// Clone returns a copy sharing no memory with s.
func (s Signature) Clone() Signature {
	params := make([]Parameter, len(s.Params))
	for i, p := range s.Params {
		if p.Default != nil {
			def := *p.Default
			p.Default = &def
		}
		params[i] = p
	}
	return Signature{Params: params, DefaultsStart: s.DefaultsStart}
}

// Required is the number of leading parameters a run must bind.
func (s Signature) Required() int {
	return s.DefaultsStart
}

func (s Signature) Lookup(name string) (int, Parameter, bool) {
	for i, p := range s.Params {
		if p.Name == name {
			return i, p, true
		}
	}
	return -1, Parameter{}, false
}

// HasDefault reports whether the parameter at index i carries a default.
func (s Signature) HasDefault(i int) bool {
	return i >= s.DefaultsStart && i < len(s.Params)
}

// Inspect builds the Parameter sequence from decls. It only rejects empty
// and duplicate names; ordering rules are left to Validate.
func Inspect(decls []Decl) (Signature, error) {
	params := make([]Parameter, 0, len(decls))
	seen := make(map[string]struct{}, len(decls))
	numDefaults := 0
	for i, d := range decls {
		name := strings.TrimSpace(d.name)
		if name == "" {
			return Signature{}, &EmptyNameError{Index: i}
		}
		safe := k8s.SafeName(name)
		if safe == "" {
			return Signature{}, &EmptyNameError{Index: i}
		}
		if _, dup := seen[safe]; dup {
			return Signature{}, &DuplicateParamError{Param: name}
		}
		seen[safe] = struct{}{}

		if d.def != nil {
			numDefaults++
		}

		p := Parameter{Name: name, Default: d.def, Kind: Plain}
		if d.resource {
			p.Kind = Resource
			p.Tag = d.tag
			if io, typ, ok := ParseTag(d.tag); ok {
				p.IO = io
				p.ResourceType = typ
			}
		}
		params = append(params, p)
	}
	return Signature{Params: params, DefaultsStart: len(params) - numDefaults}, nil
}

// Validate makes a single left-to-right pass and fails on the first
// violation. Defaults must form a suffix of the list, so that every
// parameter at or after DefaultsStart has one.
func Validate(sig Signature) error {
	seenPlain, seenDefault := false, false
	for i, p := range sig.Params {
		if p.IsResource() {
			if seenPlain {
				return &SignatureOrderError{Param: p.Name}
			}
			if p.Default != nil || i >= sig.DefaultsStart {
				return &ResourceDefaultError{Param: p.Name}
			}
			if p.IO == "" || p.ResourceType == "" {
				return &AnnotationGrammarError{Param: p.Name, Tag: p.Tag}
			}
			continue
		}
		seenPlain = true
		if p.Default != nil {
			seenDefault = true
		} else if seenDefault {
			return &DefaultOrderError{Param: p.Name}
		}
	}
	return nil
}

// Compile runs Inspect then Validate.
func Compile(decls ...Decl) (Signature, error) {
	sig, err := Inspect(decls)
	if err != nil {
		return Signature{}, err
	}
	if err := Validate(sig); err != nil {
		return Signature{}, err
	}
	return sig, nil
}

func (p Parameter) String() string {
	if p.IsResource() {
		return fmt.Sprintf("%s: %s", p.Name, p.Tag)
	}
	if p.Default != nil {
		return fmt.Sprintf("%s=%q", p.Name, *p.Default)
	}
	return p.Name
}
