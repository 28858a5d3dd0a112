// Package identity carries the credential identity (a Kubernetes service
// account name) that TaskRuns assembled under a context run as.
package identity

import (
	"context"
	"strings"
)

type serviceAccountKey struct{}

// WithServiceAccount returns a context under which TaskRuns are bound to
// name. An empty name clears any identity set by an enclosing scope.
func WithServiceAccount(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, serviceAccountKey{}, strings.TrimSpace(name))
}

// ServiceAccount returns the identity active in ctx, if any.
func ServiceAccount(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	name, _ := ctx.Value(serviceAccountKey{}).(string)
	return name, name != ""
}

// Scope runs fn with name as the active identity, like a block that sets
// the identity on entry and discards it on exit.
func Scope(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	return fn(WithServiceAccount(ctx, name))
}
