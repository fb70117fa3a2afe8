package extract

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/igetcool/icodetest/internal/javasrc"
)

// ErrNotExtractable marks a file that cannot be prepared for generation:
// no path, missing file, no class name or no main source root in its path.
var ErrNotExtractable = errors.New("not extractable")

// Annotation names the extractor recognizes.
const (
	AnnotationAutowired      = "org.springframework.beans.factory.annotation.Autowired"
	AnnotationResource       = "javax.annotation.Resource"
	AnnotationRequestMapping = "org.springframework.web.bind.annotation.RequestMapping"
	AnnotationGetMapping     = "org.springframework.web.bind.annotation.GetMapping"
	AnnotationPostMapping    = "org.springframework.web.bind.annotation.PostMapping"
)

// Roots are the Maven-style source roots mapped onto each other.
type Roots struct {
	Main string
	Test string
}

// DefaultRoots is the standard Maven layout.
var DefaultRoots = Roots{Main: "src/main/java", Test: "src/test/java"}

// MethodPolicy decides which methods of a class are generation candidates.
type MethodPolicy interface {
	Accept(m javasrc.Method) bool
}

// DirectCallPolicy accepts every concrete, non-private method.
type DirectCallPolicy struct{}

func (DirectCallPolicy) Accept(m javasrc.Method) bool {
	return !m.Abstract && !m.IsPrivate()
}

// SimulatedHTTPPolicy accepts request-mapped handler methods.
type SimulatedHTTPPolicy struct{}

func (SimulatedHTTPPolicy) Accept(m javasrc.Method) bool {
	for _, a := range m.Annotations {
		if isMapping(a) {
			return true
		}
	}
	return false
}

func isMapping(a javasrc.Annotation) bool {
	return a.Is(AnnotationRequestMapping) || a.Is(AnnotationGetMapping) || a.Is(AnnotationPostMapping)
}

// Extractor builds ClassMeta values from files of an indexed project.
type Extractor struct {
	Index *javasrc.Index
	Roots Roots
}

// New returns an Extractor over ix using the default source roots.
func New(ix *javasrc.Index) *Extractor {
	return &Extractor{Index: ix, Roots: DefaultRoots}
}

// ExtractClass prepares the class in path. When include is non-empty only
// the method with that name is kept. Files that cannot be prepared return an
// error wrapping ErrNotExtractable.
func (e *Extractor) ExtractClass(path string, policy MethodPolicy, include string) (*ClassMeta, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty path", ErrNotExtractable)
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s does not exist", ErrNotExtractable, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	fileName := filepath.Base(path)
	className := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	if className == "" {
		return nil, fmt.Errorf("%w: %s has no class name", ErrNotExtractable, path)
	}

	roots := e.roots()
	dir := filepath.ToSlash(filepath.Dir(path))
	_, pkgDir, ok := strings.Cut(dir, roots.Main+"/")
	if !ok || pkgDir == "" {
		return nil, fmt.Errorf("%w: %s is not under %s", ErrNotExtractable, path, roots.Main)
	}

	file, ok := e.Index.File(path)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not in the project index", ErrNotExtractable, path)
	}

	pkg := strings.ReplaceAll(pkgDir, "/", ".")
	meta := &ClassMeta{
		SourcePath:    path,
		FileName:      fileName,
		PackageDir:    pkgDir,
		Package:       pkg,
		ClassName:     className,
		Qualified:     pkg + "." + className,
		BasePath:      classBasePath(file),
		Fields:        injectedFields(file),
		OutputDir:     filepath.FromSlash(strings.Replace(dir, roots.Main, roots.Test, 1)),
		TestClassName: className + "Test",
	}
	for _, c := range file.Classes {
		for _, m := range c.Methods {
			if !policy.Accept(m) {
				continue
			}
			if include != "" && m.Name != include {
				continue
			}
			meta.Methods = append(meta.Methods, ExtractMethod(m))
		}
	}
	return meta, nil
}

func (e *Extractor) roots() Roots {
	r := e.Roots
	if r.Main == "" {
		r.Main = DefaultRoots.Main
	}
	if r.Test == "" {
		r.Test = DefaultRoots.Test
	}
	r.Main = strings.Trim(filepath.ToSlash(r.Main), "/")
	r.Test = strings.Trim(filepath.ToSlash(r.Test), "/")
	return r
}

// injectedFields returns the @Autowired and @Resource fields of every
// top-level class in f.
func injectedFields(f *javasrc.File) []javasrc.Field {
	var out []javasrc.Field
	for _, c := range f.Classes {
		for _, fl := range c.Fields {
			if fl.HasAnnotation(AnnotationAutowired) || fl.HasAnnotation(AnnotationResource) {
				out = append(out, fl)
			}
		}
	}
	return out
}

// classBasePath returns the first class-level @RequestMapping whose value is
// a string literal.
func classBasePath(f *javasrc.File) string {
	for _, c := range f.Classes {
		for _, a := range c.Annotations {
			if !a.Is(AnnotationRequestMapping) {
				continue
			}
			if v, ok := a.StringValue("value"); ok {
				return v
			}
		}
	}
	return ""
}
