package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"
)

// newJavaParser creates a tree-sitter parser configured for Java.
func newJavaParser() (*sitter.Parser, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	return parser, nil
}

// JavaTypeDeclarations maps tree-sitter declaration nodes to the kind of
// type they declare.
var JavaTypeDeclarations = map[string]string{
	"class_declaration":      "class",
	"interface_declaration":  "interface",
	"enum_declaration":       "enum",
	"record_declaration":     "record",
	"annotation_declaration": "annotation",
}

// IsJavaTypeDeclaration reports whether node declares a class-like type.
func IsJavaTypeDeclaration(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	_, ok := JavaTypeDeclarations[node.Type()]
	return ok
}

// ChildByType returns the first direct child of the given node type.
func ChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

// ChildrenByType returns all direct children of the given node type.
func ChildrenByType(node *sitter.Node, nodeType string) []*sitter.Node {
	if node == nil {
		return nil
	}
	var children []*sitter.Node
	for i := uint32(0); i < node.ChildCount(); i++ {
		child := node.Child(int(i))
		if child.Type() == nodeType {
			children = append(children, child)
		}
	}
	return children
}

// NamedChildren returns the named children of node.
func NamedChildren(node *sitter.Node) []*sitter.Node {
	if node == nil {
		return nil
	}
	children := make([]*sitter.Node, 0, node.NamedChildCount())
	for i := uint32(0); i < node.NamedChildCount(); i++ {
		children = append(children, node.NamedChild(int(i)))
	}
	return children
}
