package trace

import (
	"fmt"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/animus-labs/fluid-go/internal/platform/k8s"
)

const (
	KindStep           = "step"
	KindGit            = "git"
	KindImage          = "image"
	KindServiceAccount = "serviceaccount"
)

// Namer derives names for declarations that do not carry one. skip is the
// number of frames above Name's caller where the declaration was issued: a
// declaring method that calls Name directly passes 1.
type Namer interface {
	Name(kind string, skip int) string
}

type NamerFactory func(scope string) Namer

type countingNamer struct {
	scope string
	mu    sync.Mutex
	next  map[string]int
}

// Counting names declarations "<scope>-<kind>-<n>", n counting from 1 per kind.
func Counting(scope string) Namer {
	return &countingNamer{scope: scope, next: make(map[string]int)}
}

func (n *countingNamer) Name(kind string, _ int) string {
	n.mu.Lock()
	n.next[kind]++
	seq := n.next[kind]
	n.mu.Unlock()
	if n.scope == "" {
		return k8s.SafeName(fmt.Sprintf("%s-%d", kind, seq))
	}
	return k8s.SafeName(fmt.Sprintf("%s-%s-%d", n.scope, kind, seq))
}

type callSiteNamer struct{}

// CallSites names declarations after the source file and line that issued
// them. Moving a declaration renames it.
func CallSites(string) Namer { return callSiteNamer{} }

func (callSiteNamer) Name(kind string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return k8s.SafeName(kind)
	}
	return k8s.SafeName(fmt.Sprintf("%s-%d", filepath.Base(file), line))
}
