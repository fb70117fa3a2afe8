package style

import (
	"fmt"
	"strings"

	"github.com/igetcool/icodetest/internal/classify"
	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/javasrc"
)

// Instantiator writes the Java lines that build sample objects and stub
// collaborator calls.
//
// Generated constructions assume a no-argument constructor and populate
// every set* method of the class with default literals, one line per
// parameter. Classes that break either assumption produce code the user
// has to repair.
type Instantiator struct {
	Classifier *classify.Classifier
}

// Instance declares name as a new instance of t and calls its setters. It
// returns "" for types that are not project classes.
func (in Instantiator) Instance(t javasrc.Type, name string) string {
	if !in.Classifier.IsCustom(t) {
		return ""
	}
	cls, ok := in.Classifier.Class(t)
	if !ok {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "\t\t%s %s = new %s();\n", cls.Name, name, cls.Name)
	for _, m := range cls.Methods {
		if !strings.HasPrefix(m.Name, "set") {
			continue
		}
		for _, p := range m.Params {
			fmt.Fprintf(&b, "\t\t%s.%s(%s);\n", name, m.Name, in.Classifier.DefaultLiteral(p.Type))
		}
	}
	return b.String()
}

// Stub renders the when(...).thenReturn(...) line for a recorded call,
// preceded by the constructions its arguments and return value need. Calls
// returning void, or whose signature is unknown, get a commented-out stub.
func (in Instantiator) Stub(call extract.CallInfo) string {
	var b strings.Builder
	args := make([]string, 0, len(call.Params))
	for _, p := range call.Params {
		args = append(args, in.value(&b, p.Type, mockName))
	}
	target := call.Field.Name + "." + call.Method

	if !call.Resolved || in.Classifier.IsVoid(call.Return) {
		fmt.Fprintf(&b, "\t\t// when(%s(%s)).thenReturn(%s);\n", target, strings.Join(args, ","), "")
		return b.String()
	}
	ret := in.value(&b, call.Return, mockName)
	fmt.Fprintf(&b, "\t\twhen(%s(%s)).thenReturn(%s);\n", target, strings.Join(args, ","), ret)
	return b.String()
}

func mockName(class string) string { return LowerFirst(class) + "Mock" }

func argName(class string) string { return "arg" + class }

// value returns the expression standing in for a value of t. Concrete
// project classes are constructed into a variable called naming(Class),
// whose construction lines are appended to b.
func (in Instantiator) value(b *strings.Builder, t javasrc.Type, naming func(string) string) string {
	if !in.Classifier.IsCustom(t) {
		return in.Classifier.DefaultLiteral(t)
	}
	if in.Classifier.IsInterfaceLike(t) {
		return "null"
	}
	cls, ok := in.Classifier.Class(t)
	if !ok {
		return "null"
	}
	name := naming(cls.Name)
	b.WriteString(in.Instance(t, name))
	return name
}
