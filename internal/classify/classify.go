// Package classify answers the type questions the generator asks while
// rendering test code: is this a String, void, something Mockito cannot
// instantiate, a project class, and what literal stands in for a value of it.
package classify

import (
	"strings"

	"github.com/igetcool/icodetest/internal/javasrc"
)

// Kind is the literal family of a type.
type Kind int

const (
	Other Kind = iota
	Primitive
	Boxed
	String
	Collection
	Array
)

func (k Kind) String() string {
	switch k {
	case Primitive:
		return "primitive"
	case Boxed:
		return "boxed"
	case String:
		return "string"
	case Collection:
		return "collection"
	case Array:
		return "array"
	default:
		return "other"
	}
}

const (
	qualifiedString     = "java.lang.String"
	qualifiedVoid       = "java.lang.Void"
	qualifiedCollection = "java.util.Collection"
)

// primitiveLiterals maps primitive keywords and their wrappers to the literal
// used for a neutral value.
var primitiveLiterals = map[string]string{
	"int":       "0",
	"long":      "0L",
	"short":     "(short) 0",
	"byte":      "(byte) 0",
	"double":    "0.0",
	"float":     "0.0f",
	"char":      `'\0'`,
	"boolean":   "false",
	"Integer":   "0",
	"Long":      "0L",
	"Short":     "(short) 0",
	"Byte":      "(byte) 0",
	"Double":    "0.0",
	"Float":     "0.0f",
	"Character": `'\0'`,
	"Boolean":   "false",
}

var boxedNames = map[string]bool{
	"java.lang.Integer":   true,
	"java.lang.Long":      true,
	"java.lang.Short":     true,
	"java.lang.Byte":      true,
	"java.lang.Double":    true,
	"java.lang.Float":     true,
	"java.lang.Character": true,
	"java.lang.Boolean":   true,
}

// KindOf returns the literal family of t.
func KindOf(t javasrc.Type) Kind {
	switch {
	case t.IsZero():
		return Other
	case t.IsArray():
		return Array
	case t.IsPrimitive():
		return Primitive
	case t.Variable || t.IsWildcard():
		return Other
	case boxedNames[t.Name]:
		return Boxed
	case t.Name == qualifiedString:
		return String
	case t.Name == qualifiedCollection:
		return Collection
	}
	return Other
}

// ClassLookup resolves a type to a project class. *javasrc.Index implements it.
type ClassLookup interface {
	ResolveClass(t javasrc.Type) (*javasrc.Class, bool)
}

// Classifier answers type predicates against a project index.
type Classifier struct {
	lookup ClassLookup
}

// New returns a Classifier backed by lookup. A nil lookup knows no project
// classes, so nothing is custom.
func New(lookup ClassLookup) *Classifier {
	return &Classifier{lookup: lookup}
}

// IsString reports whether t is java.lang.String.
func (c *Classifier) IsString(t javasrc.Type) bool {
	return KindOf(t) == String
}

// IsVoid reports whether t is void or java.lang.Void. The zero Type counts
// as void: a method without a known return type returns nothing usable.
func (c *Classifier) IsVoid(t javasrc.Type) bool {
	if t.IsZero() || t.IsVoid() {
		return true
	}
	return t.ArrayDepth == 0 && t.Name == qualifiedVoid
}

// IsInterfaceLike reports whether t resolves to a project interface, enum or
// abstract class.
func (c *Classifier) IsInterfaceLike(t javasrc.Type) bool {
	cls, ok := c.Class(t)
	return ok && cls.IsInterfaceLike()
}

// IsCustom reports whether t resolves to a class declared in the project
// outside java.lang.
func (c *Classifier) IsCustom(t javasrc.Type) bool {
	cls, ok := c.Class(t)
	return ok && !strings.HasPrefix(cls.QualifiedName, "java.lang.")
}

// ResolvesToClass reports whether t is a resolved class or interface type,
// project-defined or not. Primitives, arrays and type variables do not.
func (c *Classifier) ResolvesToClass(t javasrc.Type) bool {
	return t.IsClassType() && t.Resolved
}

// DefaultLiteral returns the Java source literal used as a neutral value of t.
func (c *Classifier) DefaultLiteral(t javasrc.Type) string {
	return DefaultLiteral(t)
}

// DefaultLiteral returns the Java source literal used as a neutral value of
// t; it does not depend on the project index.
func DefaultLiteral(t javasrc.Type) string {
	switch KindOf(t) {
	case Primitive:
		return primitiveLiterals[t.Name]
	case Boxed:
		return primitiveLiterals[t.SimpleName()]
	case String:
		return `"0"`
	case Collection:
		return "new ArrayList<>()"
	case Array:
		return arrayLiteral(t)
	}
	return "null"
}

// arrayLiteral renders new int[0] for int[] and new int[0][] for int[][].
func arrayLiteral(t javasrc.Type) string {
	var b strings.Builder
	b.WriteString("new ")
	b.WriteString(t.Element().Canonical())
	b.WriteString("[0]")
	for i := 1; i < t.ArrayDepth; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

// Class returns the project class t refers to, ignoring type arguments.
func (c *Classifier) Class(t javasrc.Type) (*javasrc.Class, bool) {
	if c.lookup == nil {
		return nil, false
	}
	return c.lookup.ResolveClass(t.Erasure())
}
