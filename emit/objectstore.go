package emit

import (
	"bytes"
	"context"
	"errors"
	"path"
	"strings"

	"github.com/animus-labs/fluid-go/internal/platform/objectstore"
	"github.com/animus-labs/fluid-go/tekton"
)

const yamlContentType = "application/yaml"

// ObjectStore uploads each record as YAML under
// <prefix>/<compilation>/<kind>/<name>.yaml.
type ObjectStore struct {
	store         objectstore.Store
	bucket        string
	prefix        string
	compilationID string
}

func NewObjectStore(store objectstore.Store, bucket, prefix, compilationID string) (*ObjectStore, error) {
	if store == nil {
		return nil, errors.New("object store is required")
	}
	bucket = strings.TrimSpace(bucket)
	if bucket == "" {
		return nil, errors.New("bucket is required")
	}
	compilationID = strings.TrimSpace(compilationID)
	if compilationID == "" {
		return nil, errors.New("compilation id is required")
	}
	return &ObjectStore{
		store:         store,
		bucket:        bucket,
		prefix:        strings.Trim(prefix, "/"),
		compilationID: compilationID,
	}, nil
}

func (o *ObjectStore) Key(obj tekton.Object) string {
	return path.Join(o.prefix, o.compilationID, strings.ToLower(obj.GetKind()), obj.GetName()+".yaml")
}

func (o *ObjectStore) Emit(ctx context.Context, obj tekton.Object) error {
	doc, err := MarshalYAML(obj)
	if err != nil {
		return err
	}
	return o.store.Put(ctx, o.bucket, o.Key(obj), bytes.NewReader(doc), int64(len(doc)), yamlContentType)
}
