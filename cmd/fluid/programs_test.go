package main

import (
	"context"
	"testing"

	"github.com/animus-labs/fluid-go/compiler"
	"github.com/animus-labs/fluid-go/emit"
	"github.com/animus-labs/fluid-go/identity"
	"github.com/animus-labs/fluid-go/tekton"
)

func TestProgramsCompile(t *testing.T) {
	collector := &emit.Collector{}
	s := compiler.NewSession(compiler.WithEmitter(collector))
	ctx := identity.WithServiceAccount(context.Background(), "builder")

	for _, p := range programs {
		if err := p.compile(ctx, s); err != nil {
			t.Fatalf("%s: err=%v", p.name, err)
		}
	}

	kinds := map[string]int{}
	for _, obj := range collector.Objects() {
		kinds[obj.GetKind()]++
	}
	if kinds[tekton.KindTask] != 2 || kinds[tekton.KindTaskRun] != 2 || kinds[tekton.KindPipelineResource] != 2 {
		t.Fatalf("emitted kinds=%v", kinds)
	}

	runs := collector.Kind(tekton.KindTaskRun)
	hello := runs[0].(tekton.TaskRun)
	if hello.Metadata.Name != "echo-hello-world-run" || hello.Spec.ServiceAccountName != "builder" {
		t.Fatalf("hello run=%+v", hello)
	}
	docker := runs[1].(tekton.TaskRun)
	if docker.Spec.Inputs.Resources[0].ResourceRef.Name != "git-1" {
		t.Fatalf("docker source ref=%+v", docker.Spec.Inputs.Resources)
	}
	if docker.Spec.Outputs.Resources[0].ResourceRef.Name != "image-1" {
		t.Fatalf("docker image ref=%+v", docker.Spec.Outputs.Resources)
	}
	if len(docker.Spec.Inputs.Params) != 2 || docker.Spec.Inputs.Params[0].Name != "path-to-dockerfile" {
		t.Fatalf("docker params=%+v", docker.Spec.Inputs.Params)
	}
}

func TestSelectPrograms(t *testing.T) {
	got, err := selectPrograms([]string{"build-docker"})
	if err != nil || len(got) != 1 || got[0].name != "build-docker" {
		t.Fatalf("selectPrograms()=%v err=%v", got, err)
	}
	if _, err := selectPrograms([]string{"nope"}); err == nil {
		t.Fatalf("expected error for unknown program")
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" stdout, ,catalog ")
	if len(got) != 2 || got[0] != "stdout" || got[1] != "catalog" {
		t.Fatalf("splitList()=%v", got)
	}
}
