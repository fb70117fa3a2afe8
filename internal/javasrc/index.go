package javasrc

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/igetcool/icodetest/internal/parser"
	"golang.org/x/sync/errgroup"
)

// DefaultExclude lists directory names skipped while indexing.
var DefaultExclude = []string{".git", ".idea", ".gradle", "target", "build", "out", "node_modules"}

// DefaultSourceRoots are the Maven source roots. Exclusions never apply
// below them.
var DefaultSourceRoots = []string{"src/main/java", "src/test/java"}

// IndexOptions controls LoadIndex.
type IndexOptions struct {
	// Exclude lists directory base names that are not descended into.
	Exclude []string
	// SourceRoots are slash-separated source roots, relative to a module.
	// Package directories below them are never excluded.
	SourceRoots []string
	// Workers bounds concurrent parsing; zero means GOMAXPROCS.
	Workers int
}

// Index is a read-only view over every class declared under a root.
type Index struct {
	Root    string
	files   []*File
	byPath  map[string]*File
	classes map[string]*Class
}

// MethodRef is a method reachable from a type, with the type variables of
// its declaring class substituted by the arguments the type supplies.
type MethodRef struct {
	Method Method
	Owner  *Class
}

// LoadIndex parses every .java file under root concurrently and links them.
func LoadIndex(ctx context.Context, root string, opts IndexOptions) (*Index, error) {
	paths, err := JavaFiles(root, opts.Exclude, opts.SourceRoots)
	if err != nil {
		return nil, err
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	files := make([]*File, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			// Parsers are not goroutine-safe; each file gets its own.
			p, err := parser.NewParser(parser.Java)
			if err != nil {
				return err
			}
			defer p.Close()

			f, err := parseWith(gctx, p, path)
			if err != nil {
				return fmt.Errorf("index %s: %w", path, err)
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	ix := NewIndex(files...)
	ix.Root = root
	return ix, nil
}

// NewIndex links already-parsed files. Earlier files win when two declare
// the same qualified name.
func NewIndex(files ...*File) *Index {
	ix := &Index{
		byPath:  make(map[string]*File, len(files)),
		classes: make(map[string]*Class),
	}
	for _, f := range files {
		if f == nil {
			continue
		}
		ix.files = append(ix.files, f)
		ix.byPath[filepath.Clean(f.Path)] = f
		for _, c := range f.Classes {
			ix.register(c)
		}
	}
	for _, f := range ix.files {
		for _, c := range f.Classes {
			ix.link(c)
		}
	}
	return ix
}

func (ix *Index) register(c *Class) {
	if _, dup := ix.classes[c.QualifiedName]; !dup {
		ix.classes[c.QualifiedName] = c
	}
	for _, n := range c.Nested {
		ix.register(n)
	}
}

// File returns the parsed file at path.
func (ix *Index) File(path string) (*File, bool) {
	f, ok := ix.byPath[filepath.Clean(path)]
	return f, ok
}

// Files returns all indexed files in path order.
func (ix *Index) Files() []*File {
	return ix.files
}

// Lookup returns the class with the given qualified name.
func (ix *Index) Lookup(fqn string) (*Class, bool) {
	c, ok := ix.classes[fqn]
	return c, ok
}

// ResolveClass returns the class a type refers to, when indexed.
func (ix *Index) ResolveClass(t Type) (*Class, bool) {
	if !t.IsClassType() || !t.Resolved {
		return nil, false
	}
	return ix.Lookup(t.Name)
}

// Supertypes returns the direct supertypes of t with t's type arguments
// substituted into them.
func (ix *Index) Supertypes(t Type) []Type {
	c, ok := ix.ResolveClass(t)
	if !ok {
		return nil
	}
	bind := Bindings(c, t)
	var out []Type
	if c.Superclass != nil {
		out = append(out, c.Superclass.Substitute(bind))
	}
	for _, i := range c.Interfaces {
		out = append(out, i.Substitute(bind))
	}
	return out
}

// AllMethods returns the methods declared on t's class followed by those
// inherited from indexed supertypes, depth first. Parameter and return types
// are substituted along the inheritance chain, so for
//
//	interface OrderRepo extends CrudRepo<Order, Long> {}
//
// an inherited save(T) is reported as save(Order).
func (ix *Index) AllMethods(t Type) []MethodRef {
	var out []MethodRef
	seen := make(map[string]bool)
	ix.collectMethods(t, seen, &out)
	return out
}

func (ix *Index) collectMethods(t Type, seen map[string]bool, out *[]MethodRef) {
	c, ok := ix.ResolveClass(t)
	if !ok || seen[c.QualifiedName] {
		return
	}
	seen[c.QualifiedName] = true

	bind := Bindings(c, t)
	for _, m := range c.Methods {
		*out = append(*out, MethodRef{Method: substituteMethod(m, bind), Owner: c})
	}
	for _, st := range ix.Supertypes(t) {
		ix.collectMethods(st, seen, out)
	}
}

func substituteMethod(m Method, bind map[string]Type) Method {
	if len(bind) == 0 {
		return m
	}
	// Method type parameters shadow class ones.
	if len(m.TypeParams) > 0 {
		shadowed := make(map[string]Type, len(bind))
		for k, v := range bind {
			shadowed[k] = v
		}
		for _, p := range m.TypeParams {
			delete(shadowed, p)
		}
		bind = shadowed
	}
	out := m
	out.Return = m.Return.Substitute(bind)
	out.Params = make([]Param, len(m.Params))
	for i, p := range m.Params {
		p.Type = p.Type.Substitute(bind)
		out.Params[i] = p
	}
	return out
}

// Annotated returns the classes carrying an annotation denoting fqn, in
// file path order.
func (ix *Index) Annotated(fqn string) []*Class {
	var out []*Class
	for _, f := range ix.files {
		for _, c := range f.Classes {
			walkClasses(c, func(c *Class) {
				if _, ok := c.Annotation(fqn); ok {
					out = append(out, c)
				}
			})
		}
	}
	return out
}

func walkClasses(c *Class, fn func(*Class)) {
	fn(c)
	for _, n := range c.Nested {
		walkClasses(n, fn)
	}
}

// JavaFiles returns the .java files under root in lexical order. Directories
// named in exclude are not descended into unless they lie inside one of the
// sourceRoots, where every directory is a package. A nil exclude means
// DefaultExclude and a nil sourceRoots means DefaultSourceRoots.
func JavaFiles(root string, exclude, sourceRoots []string) ([]string, error) {
	if exclude == nil {
		exclude = DefaultExclude
	}
	if sourceRoots == nil {
		sourceRoots = DefaultSourceRoots
	}
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		skip[e] = true
	}

	// packages is the source root currently being walked, if any.
	var packages string
	if inSourceRoot(root, sourceRoots) {
		packages = root
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == root || within(path, packages) {
				return nil
			}
			if skip[d.Name()] {
				return filepath.SkipDir
			}
			if inSourceRoot(path, sourceRoots) {
				packages = path
			}
			return nil
		}
		if strings.HasSuffix(d.Name(), ".java") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// inSourceRoot reports whether path is a source root or lies below one.
func inSourceRoot(path string, sourceRoots []string) bool {
	slashed := "/" + strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	for _, sr := range sourceRoots {
		marker := "/" + strings.Trim(filepath.ToSlash(sr), "/")
		if marker == "/" {
			continue
		}
		if strings.HasSuffix(slashed, marker) || strings.Contains(slashed, marker+"/") {
			return true
		}
	}
	return false
}

func within(path, dir string) bool {
	return dir != "" && (path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)))
}
