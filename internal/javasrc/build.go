package javasrc

import (
	"context"
	"fmt"
	"strings"

	"github.com/igetcool/icodetest/internal/parser"
	sitter "github.com/smacker/go-tree-sitter"
)

// ParseFile reads and parses one Java file. Syntax errors do not fail the
// parse; tree-sitter recovers and the model holds whatever was recognized.
func ParseFile(path string) (*File, error) {
	p, err := parser.NewParser(parser.Java)
	if err != nil {
		return nil, err
	}
	defer p.Close()
	return parseWith(context.Background(), p, path)
}

// ParseSource parses in-memory Java source attributed to path.
func ParseSource(path string, src []byte) (*File, error) {
	p, err := parser.NewParser(parser.Java)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := p.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	defer result.Close()
	result.FilePath = path
	return buildFile(result), nil
}

func parseWith(ctx context.Context, p *parser.Parser, path string) (*File, error) {
	result, err := p.ParseFile(path)
	if err != nil {
		return nil, err
	}
	defer result.Close()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return buildFile(result), nil
}

// builder converts one parse tree into a File.
type builder struct {
	res  *parser.ParseResult
	file *File
}

func buildFile(res *parser.ParseResult) *File {
	b := &builder{res: res, file: &File{Path: res.FilePath}}
	if pe := res.FirstError(); pe != nil {
		b.file.SyntaxErr = pe
	}
	root := res.Root
	for _, n := range parser.NamedChildren(root) {
		switch n.Type() {
		case "package_declaration":
			b.file.Package = b.packageName(n)
		case "import_declaration":
			if imp, ok := b.importDecl(n); ok {
				b.file.Imports = append(b.file.Imports, imp)
			}
		default:
			if parser.IsJavaTypeDeclaration(n) {
				if c := b.classDecl(n, nil, nil); c != nil {
					b.file.Classes = append(b.file.Classes, c)
				}
			}
		}
	}
	return b.file
}

func (b *builder) text(n *sitter.Node) string {
	return b.res.NodeText(n)
}

func (b *builder) packageName(n *sitter.Node) string {
	for _, c := range parser.NamedChildren(n) {
		if c.Type() == "scoped_identifier" || c.Type() == "identifier" {
			return b.text(c)
		}
	}
	return ""
}

func (b *builder) importDecl(n *sitter.Node) (Import, bool) {
	var imp Import
	for i := uint32(0); i < n.ChildCount(); i++ {
		child := n.Child(int(i))
		switch child.Type() {
		case "static":
			imp.Static = true
		case "scoped_identifier", "identifier":
			imp.Name = b.text(child)
		case "asterisk":
			imp.OnDemand = true
		}
	}
	return imp, imp.Name != ""
}

// classDecl builds a type declaration. scope holds the type variables
// visible from enclosing declarations.
func (b *builder) classDecl(n *sitter.Node, outer *Class, scope map[string]bool) *Class {
	nameNode := n.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	c := &Class{
		Name:    b.text(nameNode),
		Package: b.file.Package,
		Kind:    ClassKind(parser.JavaTypeDeclarations[n.Type()]),
		Outer:   outer,
		File:    b.file,
	}
	switch {
	case outer != nil:
		c.QualifiedName = outer.QualifiedName + "." + c.Name
	case c.Package != "":
		c.QualifiedName = c.Package + "." + c.Name
	default:
		c.QualifiedName = c.Name
	}
	c.Modifiers, c.Annotations = b.modifiers(n)

	inner := copyScope(scope)
	c.TypeParams = b.typeParams(n)
	for _, p := range c.TypeParams {
		inner[p] = true
	}

	if sc := n.ChildByFieldName("superclass"); sc != nil {
		if t, ok := b.firstType(sc, inner); ok {
			c.Superclass = &t
		}
	}
	if ifs := n.ChildByFieldName("interfaces"); ifs != nil {
		c.Interfaces = append(c.Interfaces, b.typeList(ifs, inner)...)
	}
	if ext := parser.ChildByType(n, "extends_interfaces"); ext != nil {
		c.Interfaces = append(c.Interfaces, b.typeList(ext, inner)...)
	}

	body := n.ChildByFieldName("body")
	if body == nil {
		return c
	}
	b.members(c, body, inner)
	return c
}

func (b *builder) members(c *Class, body *sitter.Node, scope map[string]bool) {
	for _, m := range parser.NamedChildren(body) {
		switch m.Type() {
		case "field_declaration", "constant_declaration":
			c.Fields = append(c.Fields, b.fieldDecl(m, scope)...)
		case "method_declaration":
			c.Methods = append(c.Methods, b.methodDecl(m, c, scope))
		case "enum_body_declarations":
			b.members(c, m, scope)
		default:
			if parser.IsJavaTypeDeclaration(m) {
				// Only inner (non-static) classes see outer type variables.
				nested := scope
				if mods, _ := b.modifiers(m); HasModifier(mods, "static") || m.Type() != "class_declaration" {
					nested = nil
				}
				if nc := b.classDecl(m, c, nested); nc != nil {
					c.Nested = append(c.Nested, nc)
				}
			}
		}
	}
}

func (b *builder) fieldDecl(n *sitter.Node, scope map[string]bool) []Field {
	mods, anns := b.modifiers(n)
	base := b.typeOf(n.ChildByFieldName("type"), scope)

	var fields []Field
	for _, d := range parser.ChildrenByType(n, "variable_declarator") {
		name := d.ChildByFieldName("name")
		if name == nil {
			continue
		}
		t := base
		if dims := d.ChildByFieldName("dimensions"); dims != nil {
			t.ArrayDepth += countDims(b.text(dims))
		}
		fields = append(fields, Field{
			Name:        b.text(name),
			Type:        t,
			Modifiers:   mods,
			Annotations: append([]Annotation(nil), anns...),
		})
	}
	return fields
}

func (b *builder) methodDecl(n *sitter.Node, owner *Class, scope map[string]bool) Method {
	mods, anns := b.modifiers(n)
	m := Method{
		Name:        b.text(n.ChildByFieldName("name")),
		Modifiers:   mods,
		Annotations: anns,
		TypeParams:  b.typeParams(n),
	}

	inner := scope
	if len(m.TypeParams) > 0 {
		inner = copyScope(scope)
		for _, p := range m.TypeParams {
			inner[p] = true
		}
	}

	m.Return = b.typeOf(n.ChildByFieldName("type"), inner)
	if dims := n.ChildByFieldName("dimensions"); dims != nil {
		m.Return.ArrayDepth += countDims(b.text(dims))
	}
	if params := n.ChildByFieldName("parameters"); params != nil {
		m.Params = b.params(params, inner)
	}

	if body := n.ChildByFieldName("body"); body != nil {
		m.Body = b.text(body)
	}
	m.Abstract = HasModifier(mods, "abstract") ||
		(m.Body == "" && owner.Kind == KindInterface && !HasModifier(mods, "static"))
	return m
}

func (b *builder) params(n *sitter.Node, scope map[string]bool) []Param {
	var out []Param
	for _, p := range parser.NamedChildren(n) {
		switch p.Type() {
		case "formal_parameter":
			t := b.typeOf(p.ChildByFieldName("type"), scope)
			if dims := p.ChildByFieldName("dimensions"); dims != nil {
				t.ArrayDepth += countDims(b.text(dims))
			}
			out = append(out, Param{Name: b.text(p.ChildByFieldName("name")), Type: t})
		case "spread_parameter":
			var param Param
			for _, c := range parser.NamedChildren(p) {
				switch {
				case c.Type() == "variable_declarator":
					param.Name = b.text(c.ChildByFieldName("name"))
				case c.Type() == "modifiers":
				case param.Type.IsZero():
					param.Type = b.typeOf(c, scope)
				}
			}
			param.Type.ArrayDepth++
			param.VarArgs = true
			out = append(out, param)
		}
	}
	return out
}

// modifiers returns the keyword modifiers and annotations of a declaration.
func (b *builder) modifiers(n *sitter.Node) ([]string, []Annotation) {
	mn := parser.ChildByType(n, "modifiers")
	if mn == nil {
		return nil, nil
	}
	var (
		mods []string
		anns []Annotation
	)
	for i := uint32(0); i < mn.ChildCount(); i++ {
		child := mn.Child(int(i))
		switch child.Type() {
		case "marker_annotation", "annotation":
			anns = append(anns, b.annotation(child))
		default:
			if isJavaModifier(child.Type()) {
				mods = append(mods, child.Type())
			}
		}
	}
	return mods, anns
}

func (b *builder) annotation(n *sitter.Node) Annotation {
	a := Annotation{Name: strings.Join(strings.Fields(b.text(n.ChildByFieldName("name"))), "")}
	args := n.ChildByFieldName("arguments")
	if args == nil {
		return a
	}
	a.Values = make(map[string]string)
	for _, arg := range parser.NamedChildren(args) {
		if arg.Type() == "element_value_pair" {
			key := b.text(arg.ChildByFieldName("key"))
			a.Values[key] = b.text(arg.ChildByFieldName("value"))
			continue
		}
		if arg.Type() == "comment" || arg.Type() == "block_comment" || arg.Type() == "line_comment" {
			continue
		}
		a.Values["value"] = b.text(arg)
	}
	return a
}

func (b *builder) typeParams(n *sitter.Node) []string {
	tp := n.ChildByFieldName("type_parameters")
	if tp == nil {
		tp = parser.ChildByType(n, "type_parameters")
	}
	if tp == nil {
		return nil
	}
	var names []string
	for _, p := range parser.ChildrenByType(tp, "type_parameter") {
		for _, c := range parser.NamedChildren(p) {
			if c.Type() == "type_identifier" || c.Type() == "identifier" {
				names = append(names, b.text(c))
				break
			}
		}
	}
	return names
}

// typeList collects the types of a superclass / super_interfaces /
// extends_interfaces node, looking through an intermediate type_list.
func (b *builder) typeList(n *sitter.Node, scope map[string]bool) []Type {
	var out []Type
	for _, c := range parser.NamedChildren(n) {
		if c.Type() == "type_list" {
			out = append(out, b.typeList(c, scope)...)
			continue
		}
		if isTypeNode(c.Type()) {
			out = append(out, b.typeOf(c, scope))
		}
	}
	return out
}

func (b *builder) firstType(n *sitter.Node, scope map[string]bool) (Type, bool) {
	list := b.typeList(n, scope)
	if len(list) == 0 {
		return Type{}, false
	}
	return list[0], true
}

// typeOf converts a type node into an unresolved Type. Resolution happens
// when the file is linked into an Index.
func (b *builder) typeOf(n *sitter.Node, scope map[string]bool) Type {
	if n == nil {
		return Type{}
	}
	switch n.Type() {
	case "integral_type", "floating_point_type", "boolean_type":
		return Type{Name: b.text(n), Resolved: true}
	case "void_type":
		return Void
	case "type_identifier", "identifier":
		name := b.text(n)
		return Type{Name: name, Variable: scope[name]}
	case "scoped_type_identifier":
		return Type{Name: strings.Join(strings.Fields(b.text(n)), "")}
	case "generic_type":
		var t Type
		for _, c := range parser.NamedChildren(n) {
			switch c.Type() {
			case "type_identifier", "scoped_type_identifier":
				t = b.typeOf(c, scope)
				t.Variable = false
			case "type_arguments":
				for _, a := range parser.NamedChildren(c) {
					if isTypeNode(a.Type()) || a.Type() == "wildcard" {
						t.Args = append(t.Args, b.typeOf(a, scope))
					}
				}
			}
		}
		return t
	case "array_type":
		t := b.typeOf(n.ChildByFieldName("element"), scope)
		if dims := n.ChildByFieldName("dimensions"); dims != nil {
			t.ArrayDepth += countDims(b.text(dims))
		}
		return t
	case "wildcard":
		t := Type{Name: "?", Resolved: true}
		for i := uint32(0); i < n.ChildCount(); i++ {
			c := n.Child(int(i))
			switch {
			case c.Type() == "extends" || c.Type() == "super":
				t.Bound = c.Type()
			case c.IsNamed() && isTypeNode(c.Type()):
				t.Args = []Type{b.typeOf(c, scope)}
			}
		}
		return t
	case "annotated_type":
		kids := parser.NamedChildren(n)
		for i := len(kids) - 1; i >= 0; i-- {
			if isTypeNode(kids[i].Type()) {
				return b.typeOf(kids[i], scope)
			}
		}
	}
	return Type{Name: strings.Join(strings.Fields(b.text(n)), "")}
}

func isTypeNode(t string) bool {
	switch t {
	case "integral_type", "floating_point_type", "boolean_type", "void_type",
		"type_identifier", "scoped_type_identifier", "generic_type", "array_type", "annotated_type":
		return true
	}
	return false
}

func countDims(s string) int {
	return strings.Count(s, "[")
}

func copyScope(scope map[string]bool) map[string]bool {
	out := make(map[string]bool, len(scope)+2)
	for k, v := range scope {
		out[k] = v
	}
	return out
}

var javaModifiers = map[string]bool{
	"public":       true,
	"protected":    true,
	"private":      true,
	"abstract":     true,
	"static":       true,
	"final":        true,
	"synchronized": true,
	"native":       true,
	"transient":    true,
	"volatile":     true,
	"strictfp":     true,
	"default":      true,
	"sealed":       true,
	"non-sealed":   true,
}

func isJavaModifier(s string) bool {
	return javaModifiers[s]
}
