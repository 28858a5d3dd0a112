package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/animus-labs/fluid-go/compiler"
	"github.com/animus-labs/fluid-go/identity"
	"github.com/animus-labs/fluid-go/internal/platform/env"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	ctx := context.Background()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	callSites, err := env.Bool("FLUID_CALLSITE_NAMES", false)
	if err != nil {
		logger.Error("invalid env", "error", err)
		os.Exit(2)
	}

	fs := flag.NewFlagSet("fluid", flag.ContinueOnError)
	sinks := fs.String("sinks", strings.Join(env.List("FLUID_SINKS", []string{sinkStdout}), ","), "comma separated sinks: stdout, objectstore, cluster, catalog")
	programList := fs.String("programs", strings.Join(programNames(), ","), "comma separated programs to compile")
	serviceAccount := fs.String("service-account", env.String("FLUID_SERVICE_ACCOUNT", ""), "service account attached to task runs")
	namespace := fs.String("namespace", env.String("FLUID_NAMESPACE", ""), "namespace for the cluster sink")
	fs.BoolVar(&callSites, "callsite-names", callSites, "name steps and resources after their source line")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}

	selected, err := selectPrograms(splitList(*programList))
	if err != nil {
		logger.Error("invalid programs", "error", err)
		os.Exit(2)
	}

	id := uuid.NewString()
	emitter, closeSinks, err := openSinks(ctx, logger, sinkConfig{
		names:         splitList(*sinks),
		namespace:     *namespace,
		compilationID: id,
	})
	if err != nil {
		logger.Error("sink setup failed", "error", err)
		os.Exit(1)
	}
	defer closeSinks()

	opts := []compiler.Option{
		compiler.WithID(id),
		compiler.WithEmitter(emitter),
		compiler.WithLogger(logger),
	}
	if callSites {
		opts = append(opts, compiler.WithCallSiteNames())
	}
	session := compiler.NewSession(opts...)

	runCtx := identity.WithServiceAccount(ctx, *serviceAccount)
	for _, p := range selected {
		if err := p.compile(runCtx, session); err != nil {
			logger.Error("compilation failed", "program", p.name, "error", err)
			closeSinks()
			os.Exit(1)
		}
	}
	logger.Info("compilation finished", "compilation_id", session.ID(), "programs", len(selected))
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
