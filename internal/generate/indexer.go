package generate

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/igetcool/icodetest/internal/javasrc"
)

// Indexer loads and caches one project index per module root. A module root
// is the directory containing the main source root, e.g. the directory that
// holds src/main/java.
type Indexer struct {
	// MainRoot is the slash-separated main source root.
	MainRoot string
	Options  javasrc.IndexOptions

	mu      sync.Mutex
	indexes map[string]*javasrc.Index
}

// NewIndexer returns an Indexer for the given main root and options.
func NewIndexer(mainRoot string, opts javasrc.IndexOptions) *Indexer {
	return &Indexer{MainRoot: mainRoot, Options: opts}
}

// ModuleRoot returns the directory above the main source root in path.
func ModuleRoot(path, mainRoot string) (string, bool) {
	slashed := filepath.ToSlash(path)
	marker := "/" + strings.Trim(filepath.ToSlash(mainRoot), "/") + "/"
	i := strings.Index(slashed, marker)
	if i < 0 {
		return "", false
	}
	if i == 0 {
		return string(filepath.Separator), true
	}
	return filepath.FromSlash(slashed[:i]), true
}

// ForFile returns the index of the module containing path. Files outside any
// main source root get an empty index.
func (x *Indexer) ForFile(ctx context.Context, path string) (*javasrc.Index, error) {
	root, ok := ModuleRoot(path, x.MainRoot)
	if !ok {
		return javasrc.NewIndex(), nil
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if ix, ok := x.indexes[root]; ok {
		return ix, nil
	}
	ix, err := javasrc.LoadIndex(ctx, root, x.Options)
	if err != nil {
		return nil, err
	}
	if x.indexes == nil {
		x.indexes = make(map[string]*javasrc.Index)
	}
	x.indexes[root] = ix
	return ix, nil
}

// Preload registers an already built index for root.
func (x *Indexer) Preload(root string, ix *javasrc.Index) {
	x.mu.Lock()
	defer x.mu.Unlock()
	if x.indexes == nil {
		x.indexes = make(map[string]*javasrc.Index)
	}
	x.indexes[filepath.Clean(root)] = ix
}
