package compiler

import (
	"context"
	"fmt"

	"github.com/animus-labs/fluid-go/compiler/trace"
	"github.com/animus-labs/fluid-go/tekton"
)

// GitResource declares a git PipelineResource and returns its name for use
// as a resource argument.
func (s *Session) GitResource(ctx context.Context, url, revision string) (string, error) {
	name := s.resNamer.Name(trace.KindGit, 1)
	if err := s.declare(ctx, tekton.NewGitResource(name, url, revision)); err != nil {
		return "", err
	}
	return name, nil
}

// ImageResource declares an image PipelineResource and returns its name.
func (s *Session) ImageResource(ctx context.Context, url string) (string, error) {
	name := s.resNamer.Name(trace.KindImage, 1)
	if err := s.declare(ctx, tekton.NewImageResource(name, url)); err != nil {
		return "", err
	}
	return name, nil
}

// ServiceAccount declares a ServiceAccount holding secret and returns its
// name, ready for identity.WithServiceAccount.
func (s *Session) ServiceAccount(ctx context.Context, secret string) (string, error) {
	name := s.resNamer.Name(trace.KindServiceAccount, 1)
	if err := s.declare(ctx, tekton.NewServiceAccount(name, secret)); err != nil {
		return "", err
	}
	return name, nil
}

func (s *Session) declare(ctx context.Context, obj tekton.Object) error {
	if obj.GetName() == "" {
		return fmt.Errorf("%s name is empty once sanitized", obj.GetKind())
	}
	if err := s.emit(ctx, obj); err != nil {
		return err
	}
	s.logger.Info("resource declared", "kind", obj.GetKind(), "name", obj.GetName())
	return nil
}
