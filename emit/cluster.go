package emit

import (
	"context"
	"errors"

	"github.com/animus-labs/fluid-go/internal/platform/k8s"
	"github.com/animus-labs/fluid-go/tekton"
)

// Creator is the part of the Kubernetes client Cluster needs.
type Creator interface {
	Create(ctx context.Context, namespace string, obj k8s.Object) error
}

// Cluster creates each record in a namespace. Declarations that already
// exist are left untouched when IgnoreExisting is set; a TaskRun that
// already exists is always an error.
type Cluster struct {
	client         Creator
	namespace      string
	IgnoreExisting bool
}

func NewCluster(client Creator, namespace string) (*Cluster, error) {
	if client == nil {
		return nil, errors.New("kubernetes client is required")
	}
	return &Cluster{client: client, namespace: namespace}, nil
}

func (c *Cluster) Emit(ctx context.Context, obj tekton.Object) error {
	err := c.client.Create(ctx, c.namespace, obj)
	if c.IgnoreExisting && obj.GetKind() != tekton.KindTaskRun && errors.Is(err, k8s.ErrAlreadyExists) {
		return nil
	}
	return err
}
