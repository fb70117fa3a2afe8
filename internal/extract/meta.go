// Package extract pulls the facts a test generator needs out of a Java
// source file: the class under test, its injected fields, the candidate
// methods and, per method, which injected fields it calls and with what
// signature.
package extract

import (
	"path/filepath"

	"github.com/igetcool/icodetest/internal/javasrc"
)

// ClassMeta describes one source file prepared for test generation.
type ClassMeta struct {
	// SourcePath is the absolute path of the source file.
	SourcePath string
	FileName   string
	// PackageDir is the slash-separated directory below the main source root.
	PackageDir string
	Package    string
	ClassName  string
	Qualified  string
	// BasePath is the class-level request mapping, empty when absent.
	BasePath string

	Fields  []javasrc.Field
	Methods []MethodMeta

	// OutputDir is the test source directory mirroring the source package.
	OutputDir     string
	TestClassName string
}

// OutputPath is the file the generated test class is written to.
func (m ClassMeta) OutputPath() string {
	return filepath.Join(m.OutputDir, m.TestClassName+".java")
}

// ForMethod returns a copy whose test class is named after a single method,
// as in OrderServiceTest_place.
func (m ClassMeta) ForMethod(name string) ClassMeta {
	m.TestClassName = m.ClassName + "Test_" + name
	return m
}

// MethodMeta is one candidate method of the class under test.
type MethodMeta struct {
	Name   string
	Params []javasrc.Param
	Return javasrc.Type
	// Body is the body source including braces; empty for abstract methods.
	Body string
	// Verb is "get" or "post" when the method carries a request mapping.
	Verb string
	// Path is the literal value of the method's request mapping.
	Path string
	// Signature is the picker text, name(T1,T2).
	Signature string
}

// CallInfo records the invocation of one injected field inside a method body.
type CallInfo struct {
	Field javasrc.Field
	// Method is the name of the last invoked method on the field.
	Method string
	Params []javasrc.Param
	Return javasrc.Type
	// Resolved is false when the invoked method could not be matched against
	// the field type; Params and Return are then empty.
	Resolved bool
}

// MethodCoreBase pairs a method with the field calls found in its body.
type MethodCoreBase struct {
	Method MethodMeta
	Calls  []CallInfo
}
