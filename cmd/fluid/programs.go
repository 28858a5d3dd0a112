package main

import (
	"context"
	"fmt"

	"github.com/animus-labs/fluid-go/compiler"
	"github.com/animus-labs/fluid-go/compiler/signature"
	"github.com/animus-labs/fluid-go/compiler/trace"
)

type program struct {
	name    string
	compile func(ctx context.Context, s *compiler.Session) error
}

var programs = []program{
	{name: "echo-hello-world", compile: echoHelloWorld},
	{name: "build-docker", compile: buildDocker},
}

func programNames() []string {
	names := make([]string, 0, len(programs))
	for _, p := range programs {
		names = append(names, p.name)
	}
	return names
}

func selectPrograms(names []string) ([]program, error) {
	out := make([]program, 0, len(names))
	for _, name := range names {
		found := false
		for _, p := range programs {
			if p.name == name {
				out = append(out, p)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown program %q", name)
		}
	}
	return out, nil
}

func echoHelloWorld(ctx context.Context, s *compiler.Session) error {
	task, err := s.Task(ctx, "echo_hello_world", []signature.Decl{
		signature.Param("hello"),
		signature.ParamDefault("world", "El mundo"),
	}, func(b *trace.Builder, args trace.Args) {
		_ = b.Step(trace.StepSpec{Image: "ubuntu", Command: []string{"echo"}, Args: []string{args.Param("hello")}})
		_ = b.Step(trace.StepSpec{Image: "ubuntu", Command: []string{"echo"}, Args: []string{args.Param("world")}})
	})
	if err != nil {
		return err
	}
	_, err = task.Run(ctx, "Aloha")
	return err
}

func buildDocker(ctx context.Context, s *compiler.Session) error {
	task, err := s.Task(ctx, "build_docker", []signature.Decl{
		signature.InputResource("docker_source", signature.Git),
		signature.OutputResource("built_image", signature.Image),
		signature.Param("path_to_dockerfile"),
		signature.Param("path_to_context"),
	}, func(b *trace.Builder, args trace.Args) {
		_ = b.Step(trace.StepSpec{
			Image:   "gcr.io/kaniko-project/executor:v0.14.0",
			Command: []string{"/kaniko/executor"},
			Args: []string{
				"--dockerfile", args.Param("path_to_dockerfile"),
				"--destination", args.Resource("built_image").URL(),
				"--context", args.Param("path_to_context"),
			},
			Env: trace.Env("DOCKER_CONFIG", "/tekton/home/.docker/"),
		})
	})
	if err != nil {
		return err
	}

	source, err := s.GitResource(ctx, "https://github.com/GoogleContainerTools/skaffold", "master")
	if err != nil {
		return err
	}
	image, err := s.ImageResource(ctx, "dockerhub.com/cxwangyi/leeroy-web")
	if err != nil {
		return err
	}
	_, err = task.RunNamed(ctx,
		compiler.Bind("docker_source", source),
		compiler.Bind("path_to_dockerfile", "Dockerfile"),
		compiler.Bind("path_to_context", "/workspace/docker-source/examples/microservices/leeroy-web"),
		compiler.Bind("built_image", image),
	)
	return err
}
