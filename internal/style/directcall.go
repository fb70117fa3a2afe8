package style

import (
	"fmt"
	"strings"

	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/javasrc"
)

// directCall tests a method by calling it on an @InjectMocks instance.
type directCall struct {
	base
}

func (s *directCall) ID() ID { return DirectCall }

func (s *directCall) Policy() extract.MethodPolicy { return extract.DirectCallPolicy{} }

// MethodImports covers the tested methods' own signatures as well as the
// signatures of the calls they make.
func (s *directCall) MethodImports(bases []extract.MethodCoreBase) *ImportSet {
	set := NewImportSet()
	for _, mb := range bases {
		for _, p := range mb.Method.Params {
			set.Add(p.Type)
		}
		set.Add(mb.Method.Return)
	}
	s.callImports(bases, set)
	return set
}

func (s *directCall) FieldBlock(fields []javasrc.Field, meta *extract.ClassMeta) string {
	var b strings.Builder
	b.WriteString("\t@InjectMocks\n")
	fmt.Fprintf(&b, "\tprivate %s %s;\n", meta.ClassName, LowerFirst(meta.ClassName))
	mockFields(&b, fields)
	return b.String()
}

func (s *directCall) MethodBlock(bases []extract.MethodCoreBase, meta *extract.ClassMeta) string {
	call := func(m extract.MethodMeta) string { return s.CallMethod(m, meta) }
	return s.testMethods(bases, call, "\t\t//assertThat(object).isEqualTo(object);\n\n")
}

// CallMethod invokes m on the injected instance. A result that resolves to
// a class is captured in a variable inside a try block.
func (s *directCall) CallMethod(m extract.MethodMeta, meta *extract.ClassMeta) string {
	var b strings.Builder
	b.WriteString("\t\t// Run the test\n\n")

	cl := s.env.Classifier
	args := make([]string, 0, len(m.Params))
	for _, p := range m.Params {
		if cl.IsString(p.Type) {
			args = append(args, `"0"`)
			continue
		}
		args = append(args, s.inst.value(&b, p.Type, argName))
	}

	target := LowerFirst(meta.ClassName)
	invoke := fmt.Sprintf("%s.%s(%s);", target, m.Name, strings.Join(args, ","))
	if !cl.ResolvesToClass(m.Return) {
		b.WriteString("\t\t" + invoke + "\n")
		return b.String()
	}

	simple := m.Return.SimpleName()
	holder := "rr" + simple
	fmt.Fprintf(&b, "\t\t%s %s = %s;\n", simple, holder, cl.DefaultLiteral(m.Return))
	b.WriteString("\t\ttry {\n")
	fmt.Fprintf(&b, "\t\t\t%s = %s\n", holder, invoke)
	b.WriteString("\t\t} catch (Throwable throwable) {\n")
	b.WriteString("\t\t\t// handle exception\n")
	b.WriteString("\t\t}\n")
	return b.String()
}
