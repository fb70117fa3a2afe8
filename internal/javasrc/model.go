// Package javasrc is the Java source model the generator queries.
//
// It turns tree-sitter parse trees into classes, fields, methods and
// annotations, resolves written type names to qualified names the way javac
// would for the common cases (imports, same package, java.lang), and keeps a
// project-wide Index so a field's declared type can be followed to its class,
// its supertypes and its inherited, generic-substituted methods.
//
// It is not a type checker. Names it cannot resolve are kept as written and
// marked unresolved; callers treat those as opaque.
package javasrc

import "strings"

// ClassKind is the kind of a type declaration.
type ClassKind string

const (
	KindClass      ClassKind = "class"
	KindInterface  ClassKind = "interface"
	KindEnum       ClassKind = "enum"
	KindRecord     ClassKind = "record"
	KindAnnotation ClassKind = "annotation"
)

// File is one parsed compilation unit.
type File struct {
	Path    string
	Package string
	Imports []Import
	// Classes holds the top-level type declarations in source order.
	Classes []*Class
	// SyntaxErr locates the first syntax error tree-sitter recovered from.
	SyntaxErr error
}

// Import is a single import declaration.
type Import struct {
	Name     string // qualified name, or package for on-demand imports
	Static   bool
	OnDemand bool
}

// Class is a class, interface, enum, record or annotation declaration.
type Class struct {
	Name          string
	QualifiedName string
	Package       string
	Kind          ClassKind
	Modifiers     []string
	Annotations   []Annotation
	TypeParams    []string
	Superclass    *Type
	Interfaces    []Type
	Fields        []Field
	Methods       []Method
	Nested        []*Class

	// Outer is the enclosing class for nested declarations.
	Outer *Class
	// File is the compilation unit that declares the class.
	File *File
}

// Field is a field declaration. A declaration with several declarators
// yields one Field per name.
type Field struct {
	Name        string
	Type        Type
	Modifiers   []string
	Annotations []Annotation
}

// Method is a method declaration. Constructors are not modelled.
type Method struct {
	Name        string
	Params      []Param
	Return      Type
	Modifiers   []string
	Annotations []Annotation
	TypeParams  []string
	// Body is the source text of the body block including braces; empty
	// for abstract and interface methods.
	Body     string
	Abstract bool
}

// Param is a formal parameter.
type Param struct {
	Name    string
	Type    Type
	VarArgs bool
}

// Annotation is an annotation usage.
type Annotation struct {
	// Name is the qualified annotation name when resolved, the written name otherwise.
	Name string
	// Candidates lists qualified names the annotation may denote when it was
	// only reachable through on-demand imports.
	Candidates []string
	// Values maps attribute names to their raw source text. A single
	// unnamed argument is stored under "value".
	Values map[string]string
}

// Is reports whether the annotation denotes the qualified name fqn.
func (a Annotation) Is(fqn string) bool {
	if a.Name == fqn {
		return true
	}
	for _, c := range a.Candidates {
		if c == fqn {
			return true
		}
	}
	return false
}

// StringValue returns the attribute value when it is a single string literal.
func (a Annotation) StringValue(key string) (string, bool) {
	raw, ok := a.Values[key]
	if !ok {
		return "", false
	}
	return unquoteJava(raw)
}

// HasModifier reports whether mods contains m.
func HasModifier(mods []string, m string) bool {
	for _, x := range mods {
		if x == m {
			return true
		}
	}
	return false
}

// IsAbstract reports whether the class is abstract.
func (c *Class) IsAbstract() bool {
	return HasModifier(c.Modifiers, "abstract")
}

// IsInterfaceLike reports whether the class is an interface, an abstract
// class or an enum. Such types cannot be instantiated with a no-arg constructor.
func (c *Class) IsInterfaceLike() bool {
	return c.Kind == KindInterface || c.Kind == KindEnum || c.Kind == KindAnnotation || c.IsAbstract()
}

// Annotation returns the first annotation on the class denoting fqn.
func (c *Class) Annotation(fqn string) (Annotation, bool) {
	return findAnnotation(c.Annotations, fqn)
}

// AsType returns the class as a raw resolved type.
func (c *Class) AsType() Type {
	return Type{Name: c.QualifiedName, Resolved: true}
}

// HasAnnotation reports whether the field carries an annotation denoting fqn.
func (f Field) HasAnnotation(fqn string) bool {
	_, ok := findAnnotation(f.Annotations, fqn)
	return ok
}

// IsPrivate reports whether the method is private.
func (m Method) IsPrivate() bool {
	return HasModifier(m.Modifiers, "private")
}

// Annotation returns the first annotation on the method denoting fqn.
func (m Method) Annotation(fqn string) (Annotation, bool) {
	return findAnnotation(m.Annotations, fqn)
}

// Signature renders the method the way the picker shows it: name(T1,T2).
func (m Method) Signature() string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Type.Presentable())
	}
	b.WriteByte(')')
	return b.String()
}

func findAnnotation(list []Annotation, fqn string) (Annotation, bool) {
	for _, a := range list {
		if a.Is(fqn) {
			return a, true
		}
	}
	return Annotation{}, false
}

// unquoteJava returns the content of a Java string literal.
func unquoteJava(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 || raw[0] != '"' || raw[len(raw)-1] != '"' {
		return "", false
	}
	body := raw[1 : len(raw)-1]
	if !strings.Contains(body, `\`) {
		return body, true
	}
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' || i+1 == len(body) {
			b.WriteByte(c)
			continue
		}
		i++
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case '0':
			b.WriteByte(0)
		default:
			b.WriteByte(body[i])
		}
	}
	return b.String(), true
}
