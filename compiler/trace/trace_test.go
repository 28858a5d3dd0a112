package trace

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/animus-labs/fluid-go/compiler/signature"
	"github.com/animus-labs/fluid-go/tekton"
)

func mustSignature(t *testing.T, decls ...signature.Decl) signature.Signature {
	t.Helper()
	sig, err := signature.Compile(decls...)
	if err != nil {
		t.Fatalf("Compile() err=%v", err)
	}
	return sig
}

func TestRecorderTakeSealsAndEmpties(t *testing.T) {
	rec := NewRecorder()
	if got := rec.Take(); got == nil || len(got) != 0 {
		t.Fatalf("Take() on empty recorder=%v, want empty non-nil", got)
	}

	rec = NewRecorder()
	for _, name := range []string{"a", "b", "c"} {
		if err := rec.Append(tekton.Step{Name: name}); err != nil {
			t.Fatalf("Append(%s) err=%v", name, err)
		}
	}
	steps := rec.Take()
	if len(steps) != 3 || steps[0].Name != "a" || steps[2].Name != "c" {
		t.Fatalf("Take()=%+v", steps)
	}
	if rec.Len() != 0 {
		t.Fatalf("Len()=%d after Take, want 0", rec.Len())
	}
	if err := rec.Append(tekton.Step{Name: "d"}); !errors.Is(err, ErrRecorderSealed) {
		t.Fatalf("Append after Take err=%v, want ErrRecorderSealed", err)
	}
}

func TestRunHelloWorld(t *testing.T) {
	sig := mustSignature(t, signature.Param("hello"), signature.ParamDefault("world", "X"))
	steps, err := Run(sig, func(b *Builder, args Args) {
		_ = b.Step(StepSpec{Image: "ubuntu", Command: []string{"echo"}, Args: []string{args.Param("hello")}})
		_ = b.Step(StepSpec{Image: "ubuntu", Command: []string{"echo"}, Args: []string{args.Param("world")}})
	}, Counting("echo-hello-world"))
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	want := []tekton.Step{
		{Name: "echo-hello-world-step-1", Image: "ubuntu", Command: []string{"echo"}, Args: []string{"$(inputs.params.hello)"}},
		{Name: "echo-hello-world-step-2", Image: "ubuntu", Command: []string{"echo"}, Args: []string{"$(inputs.params.world)"}},
	}
	if !reflect.DeepEqual(steps, want) {
		t.Fatalf("steps=%+v, want %+v", steps, want)
	}
}

func TestRunResourcePlaceholders(t *testing.T) {
	sig := mustSignature(t,
		signature.InputResource("docker_source", signature.Git),
		signature.OutputResource("built_image", signature.Image),
		signature.Param("path_to_dockerfile"),
	)
	steps, err := Run(sig, func(b *Builder, args Args) {
		src := args.Resource("docker_source")
		img := args.At(1).(ResourceRef)
		_ = b.Step(StepSpec{
			Name:    "build",
			Image:   "gcr.io/kaniko-project/executor:v0.14.0",
			Command: []string{"/kaniko/executor"},
			Args:    []string{src.URL(), src.Revision(), img.URL(), args.At(2).(string)},
		})
	}, nil)
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	want := []string{
		"$(inputs.resources.docker-source.url)",
		"$(inputs.resources.docker-source.revision)",
		"$(outputs.resources.built-image.url)",
		"$(inputs.params.path-to-dockerfile)",
	}
	if !reflect.DeepEqual(steps[0].Args, want) {
		t.Fatalf("args=%v, want %v", steps[0].Args, want)
	}
}

func TestRunNeverUsesDefaults(t *testing.T) {
	sig := mustSignature(t, signature.ParamDefault("world", "El mundo"))
	steps, err := Run(sig, func(b *Builder, args Args) {
		_ = b.Step(StepSpec{Image: "ubuntu", Args: []string{args.Param("world")}})
	}, nil)
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if steps[0].Args[0] != "$(inputs.params.world)" {
		t.Fatalf("placeholder=%q", steps[0].Args[0])
	}
}

func TestStepEnvPreservesOrder(t *testing.T) {
	sig := mustSignature(t)
	steps, err := Run(sig, func(b *Builder, _ Args) {
		_ = b.Step(StepSpec{Image: "ubuntu", Env: Env("B", "2", "A", "1")})
		_ = b.Step(StepSpec{Image: "ubuntu"})
	}, nil)
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	want := []tekton.EnvVar{{Name: "B", Value: "2"}, {Name: "A", Value: "1"}}
	if !reflect.DeepEqual(steps[0].Env, want) {
		t.Fatalf("env=%+v, want %+v", steps[0].Env, want)
	}
	if steps[1].Env != nil {
		t.Fatalf("step without env got %+v", steps[1].Env)
	}
	if steps[1].Command == nil || steps[1].Args == nil {
		t.Fatalf("command and args must render as empty lists")
	}
}

func TestEnvTrailingName(t *testing.T) {
	got := Env("A", "1", "B")
	want := []tekton.EnvVar{{Name: "A", Value: "1"}, {Name: "B"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Env()=%+v, want %+v", got, want)
	}
}

func TestRunExplicitNamesAreSanitized(t *testing.T) {
	steps, err := Run(mustSignature(t), func(b *Builder, _ Args) {
		_ = b.Step(StepSpec{Name: "build_image.v2", Image: "ubuntu"})
	}, nil)
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if steps[0].Name != "build-image-v2" {
		t.Fatalf("name=%q", steps[0].Name)
	}
}

func TestCallSiteNames(t *testing.T) {
	var line int
	var file string
	steps, err := Run(mustSignature(t), func(b *Builder, _ Args) {
		_, file, line, _ = runtime.Caller(0)
		_ = b.Step(StepSpec{Image: "ubuntu"})
		_ = b.Step(StepSpec{Image: "ubuntu"})
	}, CallSites(""))
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if !strings.HasSuffix(file, "trace_test.go") {
		t.Fatalf("unexpected caller file %q", file)
	}
	want := []string{
		fmt.Sprintf("trace-test-go-%d", line+1),
		fmt.Sprintf("trace-test-go-%d", line+2),
	}
	if steps[0].Name != want[0] || steps[1].Name != want[1] {
		t.Fatalf("names=%q,%q, want %q", steps[0].Name, steps[1].Name, want)
	}
}

func TestCallSiteNamesAreDeterministic(t *testing.T) {
	body := func(b *Builder, _ Args) {
		_ = b.Step(StepSpec{Image: "ubuntu"})
	}
	first, err := Run(mustSignature(t), body, CallSites(""))
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	second, err := Run(mustSignature(t), body, CallSites(""))
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("traces differ: %+v vs %+v", first, second)
	}
}

func TestCallSiteDuplicateLineIsMisuse(t *testing.T) {
	_, err := Run(mustSignature(t), func(b *Builder, _ Args) {
		for i := 0; i < 2; i++ {
			_ = b.Step(StepSpec{Image: "ubuntu"})
		}
	}, CallSites(""))
	if !errors.Is(err, ErrMisuse) || !strings.Contains(err.Error(), "duplicate step name") {
		t.Fatalf("err=%v, want duplicate step name misuse", err)
	}
}

func TestRunMisuse(t *testing.T) {
	sig := mustSignature(t,
		signature.OutputResource("image", signature.Image),
		signature.Param("flag"),
	)
	tests := []struct {
		name  string
		body  Body
		issue string
	}{
		{
			name:  "unknown param",
			body:  func(b *Builder, args Args) { _ = b.Step(StepSpec{Image: "u", Args: []string{args.Param("nope")}}) },
			issue: `unknown parameter "nope"`,
		},
		{
			name:  "plain lookup of resource",
			body:  func(b *Builder, args Args) { _ = args.Param("image") },
			issue: "image is a resource",
		},
		{
			name:  "resource lookup of plain",
			body:  func(b *Builder, args Args) { _ = args.Resource("flag").URL() },
			issue: "flag is a plain parameter",
		},
		{
			name:  "revision of image",
			body:  func(b *Builder, args Args) { _ = args.Resource("image").Revision() },
			issue: "has no revision",
		},
		{
			name:  "index out of range",
			body:  func(b *Builder, args Args) { _ = args.At(5) },
			issue: "out of range",
		},
		{
			name:  "missing image",
			body:  func(b *Builder, args Args) { _ = b.Step(StepSpec{Name: "x"}) },
			issue: "image is required",
		},
		{
			name: "duplicate explicit name",
			body: func(b *Builder, args Args) {
				_ = b.Step(StepSpec{Name: "x", Image: "u"})
				_ = b.Step(StepSpec{Name: "x", Image: "u"})
			},
			issue: `duplicate step name "x"`,
		},
		{
			name:  "panic",
			body:  func(b *Builder, args Args) { panic("boom") },
			issue: "task body panicked: boom",
		},
	}
	for _, tt := range tests {
		steps, err := Run(sig, tt.body, nil)
		if !errors.Is(err, ErrMisuse) {
			t.Fatalf("%s: err=%v, want ErrMisuse", tt.name, err)
		}
		if !strings.Contains(err.Error(), tt.issue) {
			t.Fatalf("%s: err=%q, want issue %q", tt.name, err, tt.issue)
		}
		if steps != nil {
			t.Fatalf("%s: expected no steps, got %+v", tt.name, steps)
		}
	}

	if _, err := Run(sig, nil, nil); !errors.Is(err, ErrMisuse) {
		t.Fatalf("nil body err=%v, want ErrMisuse", err)
	}
}

func TestLeakedBuilderIsSealed(t *testing.T) {
	var leaked *Builder
	steps, err := Run(mustSignature(t), func(b *Builder, _ Args) {
		leaked = b
		_ = b.Step(StepSpec{Image: "ubuntu"})
	}, nil)
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if err := leaked.Step(StepSpec{Image: "ubuntu"}); !errors.Is(err, ErrRecorderSealed) {
		t.Fatalf("late Step err=%v, want ErrRecorderSealed", err)
	}
	if len(steps) != 1 {
		t.Fatalf("late step leaked into trace: %+v", steps)
	}
}

func TestConcurrentTracesDoNotInterleave(t *testing.T) {
	sig := mustSignature(t, signature.Param("n"))
	var wg sync.WaitGroup
	results := make([][]tekton.Step, 8)
	errs := make([]error, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Run(sig, func(b *Builder, args Args) {
				for j := 0; j <= i; j++ {
					_ = b.Step(StepSpec{Image: "ubuntu", Args: []string{args.Param("n")}})
				}
			}, Counting(fmt.Sprintf("task-%d", i)))
		}(i)
	}
	wg.Wait()
	for i, steps := range results {
		if errs[i] != nil {
			t.Fatalf("trace %d err=%v", i, errs[i])
		}
		if len(steps) != i+1 {
			t.Fatalf("trace %d recorded %d steps, want %d", i, len(steps), i+1)
		}
		for j, step := range steps {
			if want := fmt.Sprintf("task-%d-step-%d", i, j+1); step.Name != want {
				t.Fatalf("trace %d step %d name=%q, want %q", i, j, step.Name, want)
			}
		}
	}
}

func TestCountingNamerPerKind(t *testing.T) {
	n := Counting("session")
	got := []string{n.Name(KindGit, 1), n.Name(KindImage, 1), n.Name(KindGit, 1)}
	want := []string{"session-git-1", "session-image-1", "session-git-2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("names=%v, want %v", got, want)
	}
	if got := Counting("").Name(KindStep, 1); got != "step-1" {
		t.Fatalf("unscoped name=%q", got)
	}
}

func TestResourceRefAccessors(t *testing.T) {
	sig := mustSignature(t,
		signature.InputResource("docker_source", signature.Git),
		signature.OutputResource("built_image", signature.Image),
		signature.Param("path"),
	)
	var (
		n        int
		src, img ResourceRef
		rendered string
	)
	_, err := Run(sig, func(b *Builder, args Args) {
		n = args.Len()
		src = args.Resource("docker_source")
		img = args.Resource("built_image")
		rendered = fmt.Sprint(img)
	}, nil)
	if err != nil {
		t.Fatalf("Run() err=%v", err)
	}
	if n != 3 {
		t.Fatalf("Len()=%d, want 3", n)
	}
	if src.Name() != "docker-source" || src.IO() != signature.Input || src.Type() != signature.Git {
		t.Fatalf("source ref name=%q io=%q type=%q", src.Name(), src.IO(), src.Type())
	}
	if img.IO() != signature.Output || img.Type() != signature.Image {
		t.Fatalf("image ref io=%q type=%q", img.IO(), img.Type())
	}
	if rendered != "$(outputs.resources.built-image.url)" || img.String() != img.URL() {
		t.Fatalf("String()=%q, want the url reference", rendered)
	}

	var zero ResourceRef
	if zero.String() != "" || zero.URL() != "" || zero.Revision() != "" {
		t.Fatalf("zero ResourceRef rendered a reference")
	}
}
