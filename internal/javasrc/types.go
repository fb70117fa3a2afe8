package javasrc

import "strings"

// Type is a reference to a Java type as used in a declaration.
type Type struct {
	// Name is the qualified name when Resolved, the name as written otherwise.
	// Primitives and void use their keyword; wildcards use "?".
	Name       string
	Args       []Type
	ArrayDepth int
	// Variable marks a type variable such as T.
	Variable bool
	// Resolved is set once Name is a known qualified name or a keyword.
	Resolved bool
	// Bound is "extends" or "super" for bounded wildcards; the bound is Args[0].
	Bound string
}

var primitiveNames = map[string]bool{
	"boolean": true,
	"byte":    true,
	"char":    true,
	"short":   true,
	"int":     true,
	"long":    true,
	"float":   true,
	"double":  true,
}

// IsPrimitiveName reports whether name is a primitive type keyword.
func IsPrimitiveName(name string) bool {
	return primitiveNames[name]
}

// Void is the void return type.
var Void = Type{Name: "void", Resolved: true}

// IsPrimitive reports whether t is a primitive, non-array type.
func (t Type) IsPrimitive() bool {
	return t.ArrayDepth == 0 && primitiveNames[t.Name]
}

// IsVoid reports whether t is the primitive void.
func (t Type) IsVoid() bool {
	return t.ArrayDepth == 0 && t.Name == "void"
}

// IsArray reports whether t is an array type.
func (t Type) IsArray() bool {
	return t.ArrayDepth > 0
}

// IsWildcard reports whether t is a wildcard type argument.
func (t Type) IsWildcard() bool {
	return t.Name == "?"
}

// IsZero reports whether t is the zero Type, used for "no type".
func (t Type) IsZero() bool {
	return t.Name == ""
}

// IsClassType reports whether t names a class or interface: not primitive,
// not void, not an array, not a type variable and not a wildcard.
func (t Type) IsClassType() bool {
	return !t.IsZero() && t.ArrayDepth == 0 && !t.Variable && !t.IsWildcard() &&
		!primitiveNames[t.Name] && t.Name != "void"
}

// Component returns the element type of an array with one fewer dimension.
func (t Type) Component() Type {
	if t.ArrayDepth == 0 {
		return t
	}
	c := t
	c.ArrayDepth--
	return c
}

// Element returns the innermost element type of an array.
func (t Type) Element() Type {
	e := t
	e.ArrayDepth = 0
	return e
}

// Erasure drops type arguments, keeping array dimensions.
func (t Type) Erasure() Type {
	e := t
	e.Args = nil
	return e
}

// SimpleName is the last segment of Name.
func (t Type) SimpleName() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[i+1:]
	}
	return t.Name
}

// Package returns the package part of a resolved top-level name. It is a
// best effort for nested classes, whose outer class name is included.
func (t Type) Package() string {
	if i := strings.LastIndexByte(t.Name, '.'); i >= 0 {
		return t.Name[:i]
	}
	return ""
}

// Canonical renders the type with qualified names, e.g.
// java.util.Map<java.lang.String,com.x.Order>[].
func (t Type) Canonical() string {
	return t.render(true)
}

// Presentable renders the type with simple names, e.g. Map<String, Order>[].
func (t Type) Presentable() string {
	return t.render(false)
}

// String implements fmt.Stringer.
func (t Type) String() string {
	return t.Canonical()
}

func (t Type) render(qualified bool) string {
	var b strings.Builder
	t.write(&b, qualified)
	return b.String()
}

func (t Type) write(b *strings.Builder, qualified bool) {
	if t.IsWildcard() {
		b.WriteByte('?')
		if t.Bound != "" && len(t.Args) > 0 {
			b.WriteString(" " + t.Bound + " ")
			t.Args[0].write(b, qualified)
		}
		return
	}
	if qualified {
		b.WriteString(t.Name)
	} else {
		b.WriteString(t.SimpleName())
	}
	if len(t.Args) > 0 {
		sep := ", "
		if qualified {
			sep = ","
		}
		b.WriteByte('<')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteString(sep)
			}
			a.write(b, qualified)
		}
		b.WriteByte('>')
	}
	for i := 0; i < t.ArrayDepth; i++ {
		b.WriteString("[]")
	}
}

// Substitute replaces type variables bound in m. Array dimensions of the
// variable use are added to the replacement.
func (t Type) Substitute(m map[string]Type) Type {
	if len(m) == 0 {
		return t
	}
	if t.Variable {
		if r, ok := m[t.Name]; ok {
			r.ArrayDepth += t.ArrayDepth
			return r
		}
		return t
	}
	if len(t.Args) == 0 {
		return t
	}
	out := t
	out.Args = make([]Type, len(t.Args))
	for i, a := range t.Args {
		out.Args[i] = a.Substitute(m)
	}
	return out
}

// Bindings maps the type parameters of decl to the arguments of use. Missing
// arguments (raw use) leave the parameter unbound.
func Bindings(decl *Class, use Type) map[string]Type {
	if decl == nil || len(decl.TypeParams) == 0 || len(use.Args) == 0 {
		return nil
	}
	m := make(map[string]Type, len(decl.TypeParams))
	for i, p := range decl.TypeParams {
		if i < len(use.Args) {
			m[p] = use.Args[i]
		}
	}
	return m
}
