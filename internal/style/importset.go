package style

import (
	"sort"
	"strings"

	"github.com/igetcool/icodetest/internal/javasrc"
)

// ImportSet is an insertion-ordered set of types, keyed by canonical text.
type ImportSet struct {
	order []javasrc.Type
	seen  map[string]bool
}

// NewImportSet returns an empty set holding types.
func NewImportSet(types ...javasrc.Type) *ImportSet {
	s := &ImportSet{seen: make(map[string]bool)}
	s.Add(types...)
	return s
}

// Add inserts types not already present. Zero types are ignored.
func (s *ImportSet) Add(types ...javasrc.Type) {
	for _, t := range types {
		if t.IsZero() {
			continue
		}
		key := t.Canonical()
		if s.seen[key] {
			continue
		}
		s.seen[key] = true
		s.order = append(s.order, t)
	}
}

// Union adds every type of other to s and returns s.
func (s *ImportSet) Union(other *ImportSet) *ImportSet {
	if other != nil {
		s.Add(other.order...)
	}
	return s
}

// Types returns the types in insertion order.
func (s *ImportSet) Types() []javasrc.Type {
	return s.order
}

// Len returns the number of distinct types.
func (s *ImportSet) Len() int {
	return len(s.order)
}

// Names returns the sorted qualified names an import statement is needed
// for: the resolved classes in each type and its type arguments, excluding
// java.lang and java.util.
func (s *ImportSet) Names() []string {
	names := make(map[string]bool)
	for _, t := range s.order {
		collectImports(t, names)
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func collectImports(t javasrc.Type, into map[string]bool) {
	for _, a := range t.Args {
		collectImports(a, into)
	}
	e := t.Element()
	if !e.IsClassType() || !e.Resolved || !Importable(e.Name) {
		return
	}
	into[e.Name] = true
}

// Importable reports whether an import line is emitted for a qualified name.
func Importable(qualified string) bool {
	return qualified != "" &&
		strings.Contains(qualified, ".") &&
		!strings.HasPrefix(qualified, "java.lang") &&
		!strings.HasPrefix(qualified, "java.util")
}
