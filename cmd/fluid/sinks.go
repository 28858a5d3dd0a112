package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/animus-labs/fluid-go/emit"
	"github.com/animus-labs/fluid-go/internal/platform/k8s"
	"github.com/animus-labs/fluid-go/internal/platform/objectstore"
	"github.com/animus-labs/fluid-go/internal/platform/postgres"
)

const (
	sinkStdout      = "stdout"
	sinkObjectStore = "objectstore"
	sinkCluster     = "cluster"
	sinkCatalog     = "catalog"
)

type sinkConfig struct {
	names         []string
	namespace     string
	compilationID string
}

// openSinks connects every requested sink. The returned close func is safe to
// call more than once.
func openSinks(ctx context.Context, logger *slog.Logger, cfg sinkConfig) (emit.Emitter, func(), error) {
	if len(cfg.names) == 0 {
		return nil, nil, errors.New("at least one sink is required")
	}

	var (
		emitters []emit.Emitter
		closers  []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
		closers = nil
	}

	seen := map[string]bool{}
	for _, name := range cfg.names {
		name = strings.ToLower(name)
		if seen[name] {
			continue
		}
		seen[name] = true

		var (
			e   emit.Emitter
			err error
		)
		switch name {
		case sinkStdout:
			e = emit.NewYAMLWriter(os.Stdout)
		case sinkObjectStore:
			e, err = openObjectStore(ctx, cfg.compilationID)
		case sinkCluster:
			e, err = openCluster(cfg.namespace)
		case sinkCatalog:
			var closeDB func()
			e, closeDB, err = openCatalog(ctx, cfg.compilationID)
			if closeDB != nil {
				closers = append(closers, closeDB)
			}
		default:
			err = fmt.Errorf("unknown sink %q", name)
		}
		if err != nil {
			closeAll()
			return nil, nil, fmt.Errorf("%s: %w", name, err)
		}
		logger.Info("sink ready", "sink", name)
		emitters = append(emitters, e)
	}
	return emit.Multi(emitters...), closeAll, nil
}

func openObjectStore(ctx context.Context, compilationID string) (emit.Emitter, error) {
	cfg, err := objectstore.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	store, err := objectstore.NewMinioStore(cfg)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureBucket(ctx, cfg.Bucket, cfg.Region); err != nil {
		return nil, err
	}
	return emit.NewObjectStore(store, cfg.Bucket, cfg.Prefix, compilationID)
}

func openCluster(namespace string) (emit.Emitter, error) {
	client, err := k8s.NewInClusterClient()
	if err != nil {
		return nil, err
	}
	if namespace == "" {
		namespace = client.Namespace()
	}
	cluster, err := emit.NewCluster(client, namespace)
	if err != nil {
		return nil, err
	}
	cluster.IgnoreExisting = true
	return cluster, nil
}

func openCatalog(ctx context.Context, compilationID string) (emit.Emitter, func(), error) {
	cfg, err := postgres.ConfigFromEnv()
	if err != nil {
		return nil, nil, err
	}
	db, err := postgres.Open(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() { _ = db.Close() }
	catalog, err := emit.NewCatalog(db, cfg.Schema, compilationID)
	if err != nil {
		return nil, closeDB, err
	}
	if err := catalog.EnsureSchema(ctx); err != nil {
		return nil, closeDB, err
	}
	return catalog, closeDB, nil
}
