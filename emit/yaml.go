package emit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/animus-labs/fluid-go/tekton"
)

const documentSeparator = "---\n"

// MarshalYAML renders obj as a single YAML document with two-space indent.
func MarshalYAML(obj tekton.Object) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(obj); err != nil {
		return nil, fmt.Errorf("encode %s %s: %w", obj.GetKind(), obj.GetName(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// YAMLWriter prints every record as a "---" prefixed YAML document.
type YAMLWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: w}
}

func (y *YAMLWriter) Emit(_ context.Context, obj tekton.Object) error {
	doc, err := MarshalYAML(obj)
	if err != nil {
		return err
	}
	y.mu.Lock()
	defer y.mu.Unlock()
	if _, err := io.WriteString(y.w, documentSeparator); err != nil {
		return err
	}
	_, err = y.w.Write(doc)
	return err
}
