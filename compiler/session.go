// Package compiler compiles task definitions into Tekton manifests.
//
// A Session declares tasks and resources and hands every produced record to
// its emitter. Tasks are traced once, at declaration, with symbolic
// placeholders; each call to Task.Run binds concrete arguments into a new
// TaskRun. Sessions hold no process-wide state and are safe for concurrent use.
package compiler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/animus-labs/fluid-go/compiler/trace"
	"github.com/animus-labs/fluid-go/emit"
	"github.com/animus-labs/fluid-go/tekton"
)

type Session struct {
	id       string
	emitter  emit.Emitter
	logger   *slog.Logger
	namers   trace.NamerFactory
	resNamer trace.Namer
}

type Option func(*Session)

func WithEmitter(e emit.Emitter) Option {
	return func(s *Session) {
		if e != nil {
			s.emitter = e
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithID fixes the compilation id; by default a random UUID is used.
func WithID(id string) Option {
	return func(s *Session) {
		if id = strings.TrimSpace(id); id != "" {
			s.id = id
		}
	}
}

// WithCallSiteNames names unnamed steps and resources after the source line
// that declared them instead of numbering them.
func WithCallSiteNames() Option {
	return WithNamers(trace.CallSites)
}

func WithNamers(f trace.NamerFactory) Option {
	return func(s *Session) {
		if f != nil {
			s.namers = f
		}
	}
}

func NewSession(opts ...Option) *Session {
	s := &Session{
		id:      uuid.NewString(),
		emitter: emit.Discard,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		namers:  trace.Counting,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.resNamer = s.namers("")
	s.logger = s.logger.With("compilation_id", s.id)
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) emit(ctx context.Context, obj tekton.Object) error {
	if err := s.emitter.Emit(ctx, obj); err != nil {
		s.logger.Error("emit failed", "kind", obj.GetKind(), "name", obj.GetName(), "error", err)
		return err
	}
	s.logger.Debug("emitted", "kind", obj.GetKind(), "name", obj.GetName())
	return nil
}
