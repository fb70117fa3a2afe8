package javasrc

import "strings"

// javaLangTypes are the java.lang names visible without an import.
var javaLangTypes = map[string]bool{
	"AssertionError":                  true,
	"AutoCloseable":                   true,
	"Boolean":                         true,
	"Byte":                            true,
	"CharSequence":                    true,
	"Character":                       true,
	"Class":                           true,
	"ClassCastException":              true,
	"ClassNotFoundException":          true,
	"CloneNotSupportedException":      true,
	"Cloneable":                       true,
	"Comparable":                      true,
	"Deprecated":                      true,
	"Double":                          true,
	"Enum":                            true,
	"Error":                           true,
	"Exception":                       true,
	"Float":                           true,
	"FunctionalInterface":             true,
	"IllegalArgumentException":        true,
	"IllegalStateException":           true,
	"IndexOutOfBoundsException":       true,
	"Integer":                         true,
	"InterruptedException":            true,
	"Iterable":                        true,
	"Long":                            true,
	"Math":                            true,
	"NullPointerException":            true,
	"Number":                          true,
	"NumberFormatException":           true,
	"Object":                          true,
	"Override":                        true,
	"Record":                          true,
	"Runnable":                        true,
	"RuntimeException":                true,
	"SafeVarargs":                     true,
	"Short":                           true,
	"String":                          true,
	"StringBuffer":                    true,
	"StringBuilder":                   true,
	"SuppressWarnings":                true,
	"System":                          true,
	"Thread":                          true,
	"ThreadLocal":                     true,
	"Throwable":                       true,
	"UnsupportedOperationException":   true,
	"Void":                            true,
	"ArithmeticException":             true,
	"ReflectiveOperationException":    true,
	"ArrayIndexOutOfBoundsException":  true,
	"StringIndexOutOfBoundsException": true,
}

// resolver resolves written names in the context of one class.
type resolver struct {
	ix    *Index
	class *Class
}

// resolveType returns t with its name and its arguments resolved.
func (r resolver) resolveType(t Type) Type {
	if t.IsZero() {
		return t
	}
	if len(t.Args) > 0 {
		args := make([]Type, len(t.Args))
		for i, a := range t.Args {
			args[i] = r.resolveType(a)
		}
		t.Args = args
	}
	if t.Resolved || t.Variable {
		return t
	}
	if name, ok := r.resolveName(t.Name); ok {
		t.Name = name
		t.Resolved = true
	}
	return t
}

// resolveAnnotation resolves an annotation name, recording on-demand import
// candidates when the name stays unresolved.
func (r resolver) resolveAnnotation(a Annotation) Annotation {
	if name, ok := r.resolveName(a.Name); ok {
		a.Name = name
		return a
	}
	if strings.Contains(a.Name, ".") {
		return a
	}
	for _, imp := range r.class.File.Imports {
		if imp.OnDemand && !imp.Static {
			a.Candidates = append(a.Candidates, imp.Name+"."+a.Name)
		}
	}
	return a
}

func (r resolver) resolveName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		head, rest := name[:i], name[i+1:]
		if q, ok := r.resolveSimple(head); ok {
			return q + "." + rest, true
		}
		// A dotted name that does not start with a visible type is taken to be
		// fully qualified already.
		return name, isQualifiedLooking(name)
	}
	return r.resolveSimple(name)
}

func (r resolver) resolveSimple(name string) (string, bool) {
	// Enclosing classes and their members.
	for c := r.class; c != nil; c = c.Outer {
		if c.Name == name {
			return c.QualifiedName, true
		}
		if _, ok := r.ix.classes[c.QualifiedName+"."+name]; ok {
			return c.QualifiedName + "." + name, true
		}
	}

	file := r.class.File
	for _, imp := range file.Imports {
		if imp.Static || imp.OnDemand {
			continue
		}
		if imp.Name == name || strings.HasSuffix(imp.Name, "."+name) {
			return imp.Name, true
		}
	}

	if file.Package != "" {
		if _, ok := r.ix.classes[file.Package+"."+name]; ok {
			return file.Package + "." + name, true
		}
	} else if _, ok := r.ix.classes[name]; ok {
		return name, true
	}

	for _, imp := range file.Imports {
		if !imp.OnDemand || imp.Static {
			continue
		}
		if _, ok := r.ix.classes[imp.Name+"."+name]; ok {
			return imp.Name + "." + name, true
		}
	}

	if javaLangTypes[name] {
		return "java.lang." + name, true
	}
	return "", false
}

// isQualifiedLooking reports whether a dotted name starts with a lower-case
// package segment, as in com.example.Foo.
func isQualifiedLooking(name string) bool {
	return name != "" && name[0] >= 'a' && name[0] <= 'z'
}

// link resolves every type and annotation reference of c and its nested classes.
func (ix *Index) link(c *Class) {
	r := resolver{ix: ix, class: c}
	for i := range c.Annotations {
		c.Annotations[i] = r.resolveAnnotation(c.Annotations[i])
	}
	if c.Superclass != nil {
		sc := r.resolveType(*c.Superclass)
		c.Superclass = &sc
	}
	for i := range c.Interfaces {
		c.Interfaces[i] = r.resolveType(c.Interfaces[i])
	}
	for i := range c.Fields {
		f := &c.Fields[i]
		f.Type = r.resolveType(f.Type)
		for j := range f.Annotations {
			f.Annotations[j] = r.resolveAnnotation(f.Annotations[j])
		}
	}
	for i := range c.Methods {
		m := &c.Methods[i]
		m.Return = r.resolveType(m.Return)
		for j := range m.Params {
			m.Params[j].Type = r.resolveType(m.Params[j].Type)
		}
		for j := range m.Annotations {
			m.Annotations[j] = r.resolveAnnotation(m.Annotations[j])
		}
	}
	for _, n := range c.Nested {
		ix.link(n)
	}
}
