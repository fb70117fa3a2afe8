package style

import (
	"fmt"
	"strings"

	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/javasrc"
)

// simulatedHTTP tests a handler method by dispatching a MockMvc request to
// its mapped path.
type simulatedHTTP struct {
	base
}

func (s *simulatedHTTP) ID() ID { return SimulatedHTTP }

func (s *simulatedHTTP) Policy() extract.MethodPolicy { return extract.SimulatedHTTPPolicy{} }

// MethodImports covers only the calls made by the handlers; the handler
// itself is reached through a request string.
func (s *simulatedHTTP) MethodImports(bases []extract.MethodCoreBase) *ImportSet {
	set := NewImportSet()
	s.callImports(bases, set)
	return set
}

func (s *simulatedHTTP) FieldBlock(fields []javasrc.Field, _ *extract.ClassMeta) string {
	var b strings.Builder
	mockFields(&b, fields)
	return b.String()
}

func (s *simulatedHTTP) MethodBlock(bases []extract.MethodCoreBase, meta *extract.ClassMeta) string {
	call := func(m extract.MethodMeta) string { return s.CallMethod(m, meta) }
	return s.testMethods(bases, call, "\t\tassertThat(response.getStatus()).isEqualTo(HttpStatus.OK.value());\n")
}

// CallMethod performs the request. One parameter is sent as a placeholder
// body; several are sent as request parameters named after the Java
// parameters.
func (s *simulatedHTTP) CallMethod(m extract.MethodMeta, meta *extract.ClassMeta) string {
	verb := m.Verb
	if verb == "" {
		verb = "get"
	}

	var b strings.Builder
	b.WriteString("\t\t// Run the test\n\n")
	fmt.Fprintf(&b, "\t\tfinal MockHttpServletResponse response = mockMvc.perform(%s(\"%s\")\n", verb, meta.BasePath+m.Path)
	switch len(m.Params) {
	case 0:
	case 1:
		fmt.Fprintf(&b, "\t\t\t\t.content(\"%s\")\n", "content")
	default:
		for _, p := range m.Params {
			name := strings.TrimSpace(p.Name)
			value := name
			if !s.env.Classifier.IsString(p.Type) {
				value = s.env.Classifier.DefaultLiteral(p.Type)
			}
			fmt.Fprintf(&b, "\t\t\t\t.param(\"%s\", \"%s\")\n", name, value)
		}
	}
	b.WriteString("\t\t\t\t.accept(MediaType.APPLICATION_JSON))\n")
	b.WriteString("\t\t.andReturn().getResponse();\n\n")
	return b.String()
}
