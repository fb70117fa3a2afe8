// Package layout assembles complete Java source files: generated test
// classes and the shared Spring test base class they extend.
package layout

import (
	"fmt"
	"sort"
	"strings"
)

// JUnit is a JUnit major version tag as stored in settings.
type JUnit string

const (
	JUnit4 JUnit = "JUnit4"
	JUnit5 JUnit = "JUnit5"
)

// Valid reports whether v is a known version tag.
func (v JUnit) Valid() bool {
	return v == JUnit4 || v == JUnit5
}

const junit4Imports = "import org.junit.Test;\n" +
	"import static org.assertj.core.api.AssertionsForClassTypes.assertThat;\n"

const junit5Imports = "import org.junit.jupiter.api.Test;\n" +
	"import static org.assertj.core.api.Assertions.assertThat;\n" +
	"import static org.junit.jupiter.api.Assertions.*;\n"

// defaultImports is formatted with the common base package and class.
const defaultImports = "\n" +
	"import %s.%s;\n" +
	"import org.mockito.Mock;\n" +
	"import org.mockito.InjectMocks;\n" +
	"import org.springframework.http.HttpStatus;\n" +
	"import org.springframework.http.MediaType;\n" +
	"import org.springframework.mock.web.MockHttpServletResponse;\n" +
	"\n" +
	"import java.lang.*;\n" +
	"import java.util.*;\n" +
	"\n" +
	"import static org.assertj.core.api.AssertionsForClassTypes.assertThat;\n" +
	"import static org.mockito.Mockito.when;\n" +
	"import static org.springframework.test.web.servlet.request.MockMvcRequestBuilders.get;\n" +
	"import static org.springframework.test.web.servlet.request.MockMvcRequestBuilders.post;\n"

// Common names the shared base class generated tests extend.
type Common struct {
	Package string
	Class   string
}

// Qualified returns the qualified name of the base class.
func (c Common) Qualified() string {
	return c.Package + "." + c.Class
}

// TestFile is a generated test class ready to be rendered.
type TestFile struct {
	// Package and Qualified describe the class under test.
	Package   string
	Qualified string
	// ClassName is the name of the generated test class.
	ClassName string
	// Imports are extra qualified names to import; they are rendered sorted.
	Imports []string
	Fields  string
	Methods string
}

// Render produces the Java source of the test class.
func (f TestFile) Render(junit JUnit, common Common) string {
	var b strings.Builder
	fmt.Fprintf(&b, "package %s;\n", f.Package)
	b.WriteString(importLine(common.Qualified()))
	b.WriteString(importLine(f.Qualified))
	if junit == JUnit5 {
		b.WriteString(junit5Imports)
	} else {
		b.WriteString(junit4Imports)
	}
	fmt.Fprintf(&b, defaultImports, common.Package, common.Class)
	for _, name := range sortedUnique(f.Imports) {
		b.WriteString(importLine(name))
	}
	fmt.Fprintf(&b, "\npublic class %s extends %s {\n\n%s%s\n\n} ", f.ClassName, common.Class, f.Fields, f.Methods)
	return b.String()
}

// importLine renders an import statement, or nothing for names that need
// none.
func importLine(name string) string {
	if name == "" || strings.HasPrefix(name, "java.lang") || strings.HasPrefix(name, "java.util") {
		return ""
	}
	return "import " + name + ";\n"
}

func sortedUnique(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
