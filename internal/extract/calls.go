package extract

import (
	"regexp"
	"strings"

	"github.com/igetcool/icodetest/internal/javasrc"
)

// MethodSource lists the declared and inherited methods of a type, with
// generic substitution applied. *javasrc.Index implements it.
type MethodSource interface {
	AllMethods(t javasrc.Type) []javasrc.MethodRef
}

// Scanner finds invocations of injected fields in method bodies.
type Scanner struct {
	Methods MethodSource
}

// NewScanner returns a Scanner resolving signatures through src.
func NewScanner(src MethodSource) *Scanner {
	return &Scanner{Methods: src}
}

// Scan looks for field.name(args) in body. Every occurrence replaces the
// previous one, so the textually last call is the one reported. The call is
// found even when its signature cannot be resolved.
func (s *Scanner) Scan(body string, field javasrc.Field) (CallInfo, bool) {
	re := callPattern(field.Name)
	matches := re.FindAllStringSubmatch(body, -1)
	if len(matches) == 0 {
		return CallInfo{}, false
	}

	var candidates []javasrc.MethodRef
	if s.Methods != nil {
		candidates = s.Methods.AllMethods(field.Type)
	}

	info := CallInfo{Field: field}
	for _, m := range matches {
		name, arity := m[1], countArgs(m[2])
		info.Method = name
		info.Params, info.Return, info.Resolved = nil, javasrc.Type{}, false
		for _, ref := range candidates {
			if ref.Method.Name == name && len(ref.Method.Params) == arity {
				info.Params = ref.Method.Params
				info.Return = ref.Method.Return
				info.Resolved = true
			}
		}
	}
	return info, true
}

// CoreBases pairs each method of meta with the field calls in its body and
// keeps the methods that call at least one field.
func (s *Scanner) CoreBases(meta *ClassMeta) []MethodCoreBase {
	var out []MethodCoreBase
	for _, m := range meta.Methods {
		var calls []CallInfo
		for _, f := range meta.Fields {
			if info, ok := s.Scan(m.Body, f); ok {
				calls = append(calls, info)
			}
		}
		if len(calls) > 0 {
			out = append(out, MethodCoreBase{Method: m, Calls: calls})
		}
	}
	return out
}

// callPattern matches "field.method(args)". The leading word boundary keeps
// a field named repo from matching myrepo.save(); otherwise the scan stays
// textual, so calls in comments and strings still count.
func callPattern(field string) *regexp.Regexp {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(field) + `\s*\.\s*(\w+)\s*\((.*?)\)`)
}

// countArgs counts comma-separated arguments; blank text is a no-arg call.
func countArgs(args string) int {
	if strings.TrimSpace(args) == "" {
		return 0
	}
	return len(strings.Split(args, ","))
}
