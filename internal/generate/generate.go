// Package generate drives a generation run: it makes sure the shared test
// base class exists, then extracts, renders and writes one test class per
// source file.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/igetcool/icodetest/internal/classify"
	"github.com/igetcool/icodetest/internal/config"
	"github.com/igetcool/icodetest/internal/emit"
	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/javasrc"
	"github.com/igetcool/icodetest/internal/layout"
	"github.com/igetcool/icodetest/internal/settings"
	"github.com/igetcool/icodetest/internal/style"
)

// ErrNoFiles is returned when a run is requested without files.
var ErrNoFiles = errors.New("no files to process")

// Application class annotations, tried in order when creating the base class.
const (
	AnnotationSpringBootApplication  = "org.springframework.boot.autoconfigure.SpringBootApplication"
	AnnotationSpringCloudApplication = "org.springframework.cloud.client.SpringCloudApplication"
)

// Operation is the kind of run.
type Operation int

const (
	// Fixed generates a test class for each given file.
	Fixed Operation = iota
	// Custom generates a test class for a single method, named
	// <Class>Test_<method>, always overwriting.
	Custom
	// Recursive generates for every file of a directory and offers
	// "overwrite all" when asking.
	Recursive
)

func (o Operation) String() string {
	switch o {
	case Custom:
		return "custom"
	case Recursive:
		return "recursive"
	default:
		return "fixed"
	}
}

// Request describes one run.
type Request struct {
	Files []string
	// Method restricts a Custom run to the named method.
	Method string
	Op     Operation
}

// Generator runs requests against a settings snapshot.
type Generator struct {
	Settings settings.Snapshot
	Roots    extract.Roots
	Indexer  *Indexer
	Prompter Prompter
	Logger   zerolog.Logger
	// NewID overrides the test method suffix source; nil means random.
	NewID func() string
}

// New returns a Generator with default roots, a fresh indexer and a prompter
// that skips existing files.
func New(snap settings.Snapshot, log zerolog.Logger) *Generator {
	return &Generator{
		Settings: snap,
		Roots:    extract.DefaultRoots,
		Indexer:  NewIndexer(extract.DefaultRoots.Main, javasrc.IndexOptions{SourceRoots: sourceRoots(extract.DefaultRoots)}),
		Prompter: FixedPrompter{Decision: Skip},
		Logger:   log,
	}
}

// NewFromConfig returns a Generator using the source layout of cfg.
func NewFromConfig(cfg *config.Config, snap settings.Snapshot, log zerolog.Logger) *Generator {
	g := New(snap, log)
	g.Roots = extract.Roots{Main: cfg.Source.MainRoot, Test: cfg.Source.TestRoot}
	g.Indexer = NewIndexer(cfg.Source.MainRoot, javasrc.IndexOptions{
		Exclude:     cfg.Source.Exclude,
		SourceRoots: sourceRoots(g.Roots),
	})
	return g
}

// Methods lists the candidate methods of the class in path as name(T1,T2),
// using the method selection of the configured style.
func (g *Generator) Methods(ctx context.Context, path string) ([]string, error) {
	id, err := style.ParseID(g.Settings.Style)
	if err != nil {
		return nil, err
	}
	ix, err := g.Indexer.ForFile(ctx, path)
	if err != nil {
		return nil, err
	}
	warnSyntax(g.Logger.With().Str("file", path).Logger(), ix, path)
	st := style.New(id, style.Env{Classifier: classify.New(ix)})
	ex := &extract.Extractor{Index: ix, Roots: g.Roots}
	meta, err := ex.ExtractClass(path, st.Policy(), "")
	if err != nil {
		return nil, err
	}
	return extract.Signatures(meta), nil
}

// Run executes req. Files that do not qualify are skipped silently and
// emission failures become failed report entries; any other error aborts the
// run without a report.
func (g *Generator) Run(ctx context.Context, req Request) (*Report, error) {
	if len(req.Files) == 0 {
		return nil, ErrNoFiles
	}
	log := g.Logger.With().Str("op", req.Op.String()).Logger()
	report := &Report{}

	base, err := g.ensureCommonBase(ctx, req.Files[0])
	if err != nil {
		return nil, fmt.Errorf("common base class: %w", err)
	}
	report.CommonBase = base

	id, err := style.ParseID(g.Settings.Style)
	if err != nil {
		return nil, err
	}

	overrideAll := false
	for _, path := range req.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		flog := log.With().Str("file", path).Logger()

		ix, err := g.Indexer.ForFile(ctx, path)
		if err != nil {
			return nil, err
		}
		st := style.New(id, style.Env{Classifier: classify.New(ix), NewID: g.NewID})

		include := ""
		if req.Op == Custom {
			include = req.Method
		}
		warnSyntax(flog, ix, path)
		ex := &extract.Extractor{Index: ix, Roots: g.Roots}
		meta, err := ex.ExtractClass(path, st.Policy(), include)
		if err != nil {
			if errors.Is(err, extract.ErrNotExtractable) {
				flog.Debug().Str("reason", err.Error()).Msg("skipped")
				continue
			}
			return nil, err
		}
		flog = flog.With().Str("class", meta.ClassName).Logger()

		if reason := unqualified(meta); reason != "" {
			flog.Debug().Str("reason", reason).Msg("skipped")
			continue
		}
		bases := extract.NewScanner(ix).CoreBases(meta)
		if len(bases) == 0 {
			flog.Debug().Str("reason", "no method calls an injected field").Msg("skipped")
			continue
		}

		target := *meta
		if req.Op == Custom && req.Method != "" {
			target = meta.ForMethod(req.Method)
		}

		if req.Op != Custom && !overrideAll && emit.Exists(target.OutputDir, target.TestClassName) {
			allowAll := req.Op == Recursive
			d, err := g.Prompter.ConfirmOverwrite(target.OutputPath(), allowAll)
			if err != nil {
				return nil, err
			}
			if d == Skip {
				flog.Info().Str("reason", "exists").Str("path", target.OutputPath()).Msg("skipped")
				continue
			}
			if d == OverwriteAll && allowAll {
				overrideAll = true
			}
		}

		content := g.render(st, &target, bases)
		entry := Entry{Class: target.ClassName, TestClass: target.TestClassName, Path: target.OutputPath()}
		if err := emit.Write(target.OutputDir, target.TestClassName, content, true); err != nil {
			entry.Err = err
			flog.Error().Err(err).Str("path", entry.Path).Msg("write failed")
		} else {
			flog.Info().Str("path", entry.Path).Int("tests", len(bases)).Msg("written")
		}
		report.Entries = append(report.Entries, entry)
	}
	return report, nil
}

// warnSyntax logs a source file that only parsed with error recovery; the
// generated test may miss members declared after the error.
func warnSyntax(log zerolog.Logger, ix *javasrc.Index, path string) {
	if f, ok := ix.File(path); ok && f.SyntaxErr != nil {
		log.Warn().Err(f.SyntaxErr).Msg("source has syntax errors")
	}
}

func unqualified(meta *extract.ClassMeta) string {
	switch {
	case len(meta.Fields) == 0:
		return "no injected fields"
	case len(meta.Methods) == 0:
		return "no candidate methods"
	case meta.OutputDir == "" || meta.TestClassName == "":
		return "no output location"
	}
	return ""
}

// render assembles the complete test class for meta.
func (g *Generator) render(st style.Style, meta *extract.ClassMeta, bases []extract.MethodCoreBase) string {
	imports := st.FieldImports(meta.Fields).Union(st.MethodImports(bases))
	tf := layout.TestFile{
		Package:   meta.Package,
		Qualified: meta.Qualified,
		ClassName: meta.TestClassName,
		Imports:   imports.Names(),
		Fields:    st.FieldBlock(meta.Fields, meta),
		Methods:   st.MethodBlock(bases, meta),
	}
	return tf.Render(g.Settings.JUnit, g.Settings.Common())
}

// ensureCommonBase writes the shared base class next to the test sources of
// the first file's module when it does not exist yet. It returns the written
// path, or "" when nothing was written.
func (g *Generator) ensureCommonBase(ctx context.Context, first string) (string, error) {
	common := g.Settings.Common()
	path, ok := layout.CommonBasePath(first, g.Roots.Main, g.Roots.Test, common)
	if !ok {
		return "", nil
	}
	dir := filepath.Dir(path)
	if emit.Exists(dir, common.Class) {
		return "", nil
	}

	ix, err := g.Indexer.ForFile(ctx, first)
	if err != nil {
		return "", err
	}
	app, ok := applicationClass(ix)
	if !ok {
		g.Logger.Debug().Str("file", first).Msg("no application class, base class not created")
		return "", nil
	}

	content := layout.CommonBase{
		Common:       common,
		AppQualified: app.QualifiedName,
		AppName:      app.Name,
	}.Render(g.Settings.CommonBody())
	if err := emit.Write(dir, common.Class, content, true); err != nil {
		return "", err
	}
	g.Logger.Info().Str("class", common.Class).Str("path", path).Str("app", app.QualifiedName).Msg("base class written")
	return path, nil
}

func applicationClass(ix *javasrc.Index) (*javasrc.Class, bool) {
	for _, fqn := range []string{AnnotationSpringBootApplication, AnnotationSpringCloudApplication} {
		if found := ix.Annotated(fqn); len(found) > 0 {
			return found[0], true
		}
	}
	return nil, false
}

// CollectJavaFiles returns every .java file below path, or below its
// directory when path is a file, in lexical order. Directories named in
// exclude are not descended into unless they are packages under one of the
// source roots.
func CollectJavaFiles(path string, exclude []string, roots extract.Roots) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", path, err)
	}
	root := path
	if !info.IsDir() {
		root = filepath.Dir(path)
	}
	if exclude == nil {
		exclude = []string{}
	}
	files, err := javasrc.JavaFiles(root, exclude, sourceRoots(roots))
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", root, err)
	}
	return files, nil
}

func sourceRoots(r extract.Roots) []string {
	var out []string
	for _, sr := range []string{r.Main, r.Test} {
		if sr != "" {
			out = append(out, sr)
		}
	}
	return out
}
