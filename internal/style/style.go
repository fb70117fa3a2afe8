// Package style renders the body of a generated test class. A Style decides
// which methods are tested, how collaborators are declared and how the
// method under test is invoked: directly on an @InjectMocks instance, or
// through a MockMvc request.
package style

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/igetcool/icodetest/internal/classify"
	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/javasrc"
)

// ErrUnknownStyle is returned by Select for an unrecognized style tag.
var ErrUnknownStyle = errors.New("unknown request style")

// ID identifies a request style.
type ID int

const (
	DirectCall ID = iota + 1
	SimulatedHTTP
)

// Tags as stored in settings.
const (
	TagDirectCall    = "MethodCall"
	TagSimulatedHTTP = "MockMvc"
)

// Tag returns the settings tag of the style.
func (id ID) Tag() string {
	switch id {
	case DirectCall:
		return TagDirectCall
	case SimulatedHTTP:
		return TagSimulatedHTTP
	}
	return ""
}

func (id ID) String() string {
	return id.Tag()
}

// ParseID maps a settings tag to its style.
func ParseID(tag string) (ID, error) {
	switch tag {
	case TagDirectCall:
		return DirectCall, nil
	case TagSimulatedHTTP:
		return SimulatedHTTP, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStyle, tag)
}

// Style renders the style-specific parts of a test class. Implementations
// hold no mutable state; every call is a pure function of its inputs.
type Style interface {
	ID() ID
	// Policy selects the methods of the class under test to generate for.
	Policy() extract.MethodPolicy
	FieldImports(fields []javasrc.Field) *ImportSet
	MethodImports(bases []extract.MethodCoreBase) *ImportSet
	FieldBlock(fields []javasrc.Field, meta *extract.ClassMeta) string
	MethodBlock(bases []extract.MethodCoreBase, meta *extract.ClassMeta) string
	CallMethod(m extract.MethodMeta, meta *extract.ClassMeta) string
}

// Env is what styles need from the surrounding project.
type Env struct {
	Classifier *classify.Classifier
	// NewID returns the unique suffix of a test method name. Nil means a
	// random UUID without dashes.
	NewID func() string
}

// Select returns the style registered under tag.
func Select(tag string, env Env) (Style, error) {
	id, err := ParseID(tag)
	if err != nil {
		return nil, err
	}
	return New(id, env), nil
}

// New returns the style for id. It panics on an id outside the enum.
func New(id ID, env Env) Style {
	if env.Classifier == nil {
		env.Classifier = classify.New(nil)
	}
	if env.NewID == nil {
		env.NewID = RandomID
	}
	b := base{env: env, inst: Instantiator{Classifier: env.Classifier}}
	switch id {
	case DirectCall:
		return &directCall{base: b}
	case SimulatedHTTP:
		return &simulatedHTTP{base: b}
	}
	panic(fmt.Sprintf("style: invalid id %d", id))
}

// RandomID returns a dashless random UUID.
func RandomID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

// base carries what both styles share.
type base struct {
	env  Env
	inst Instantiator
}

func (b base) FieldImports(fields []javasrc.Field) *ImportSet {
	set := NewImportSet()
	for _, f := range fields {
		set.Add(f.Type)
	}
	return set
}

// callImports collects the signature types of every recorded call.
func (b base) callImports(bases []extract.MethodCoreBase, set *ImportSet) {
	for _, mb := range bases {
		for _, c := range mb.Calls {
			if !c.Resolved {
				continue
			}
			for _, p := range c.Params {
				set.Add(p.Type)
			}
			set.Add(c.Return)
		}
	}
}

func mockFields(b *strings.Builder, fields []javasrc.Field) {
	for _, f := range fields {
		b.WriteString("\t@Mock\n")
		fmt.Fprintf(b, "\tprivate %s %s;\n", f.Type.Presentable(), f.Name)
	}
}

// testMethods renders one test method per base. call renders the invocation
// and tail closes the verification block.
func (b base) testMethods(bases []extract.MethodCoreBase, call func(extract.MethodMeta) string, tail string) string {
	var out strings.Builder
	for _, mb := range bases {
		out.WriteString("\t@Test\n")
		fmt.Fprintf(&out, "\tpublic void test%s_%s() throws Exception {\n\n", Capitalize(mb.Method.Name), b.env.NewID())
		out.WriteString("\t\t// when ... thenReturn ...\n\n")
		for _, c := range mb.Calls {
			out.WriteString(b.inst.Stub(c))
		}
		out.WriteString("\n")
		out.WriteString(call(mb.Method))
		out.WriteString("\n")
		out.WriteString(verifyHeader)
		out.WriteString(tail)
		out.WriteString("\t}\n")
	}
	return out.String()
}

const verifyHeader = "\t\t// Verify the results\n\n" +
	"\t\t// Assert null or not null: isNull() | isNotNull() \n" +
	"\t\t// Assert string, collection, array or Iterable is empty or not: isEmpty() | isNotEmpty() \n" +
	"\t\t// Assert two objects are equal: isEqualTo() \n" +
	"\t\t//assertThat(object).isNull();\n" +
	"\t\t//assertThat(object).isNotNull();\n" +
	"\t\t//assertThat(object).isEmpty();\n" +
	"\t\t//assertThat(object).isNotEmpty();\n"

// LowerFirst lower-cases the first character only.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// Capitalize upper-cases the first character only.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
