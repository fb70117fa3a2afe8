package layout

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
)

// CommonBody4 is the default JUnit 4 base class template. Its four %s verbs
// receive, in order: the base package, the application class qualified name,
// the application class simple name and the base class name.
const CommonBody4 = `package %s;

import %s;

import org.junit.Before;
import org.junit.runner.RunWith;
import org.springframework.test.context.junit4.SpringJUnit4ClassRunner;

//import org.springframework.test.context.web.WebAppConfiguration;
//import org.springframework.boot.test.autoconfigure.web.servlet.AutoConfigureMockMvc;
import org.springframework.beans.factory.annotation.Autowired;
import org.springframework.boot.test.context.SpringBootTest;
import org.springframework.test.context.ActiveProfiles;
import org.springframework.test.web.servlet.MockMvc;
import org.springframework.test.web.servlet.result.MockMvcResultMatchers;
import org.springframework.test.web.servlet.setup.MockMvcBuilders;
import org.springframework.web.context.WebApplicationContext;

//@WebAppConfiguration
//@AutoConfigureMockMvc
@ActiveProfiles("dev")
@RunWith(SpringJUnit4ClassRunner.class)
@SpringBootTest(classes = %s.class)
/**
 * Shared test base class (starts the application context).
 *
 * JUnit 5 replaces JUnit 4's @RunWith with @ExtendWith(SpringExtension.class).
 * Setup runs in a @Before method (JUnit 4) or a @BeforeEach method (JUnit 5).
 * The template takes four arguments, top to bottom:
 *   - base class package
 *   - application class import (package + class)
 *   - application class name
 *   - base class name
 */
public abstract class %s extends MockMvcResultMatchers {

    /** @Autowired */
    protected MockMvc mockMvc;

    @Autowired
    private WebApplicationContext webApplicationContext;

    @Before
    public void setup() {
        mockMvc = MockMvcBuilders.webAppContextSetup(webApplicationContext).build();
    }
}`

// CommonBody5 is the default JUnit 5 base class template; it takes the same
// arguments as CommonBody4.
const CommonBody5 = `package %s;

import %s;

import org.junit.jupiter.api.BeforeEach;
import org.junit.jupiter.api.extension.ExtendWith;
import org.springframework.test.context.junit.jupiter.SpringExtension;

//import org.springframework.boot.test.autoconfigure.web.servlet.AutoConfigureMockMvc;
//import org.springframework.test.context.web.WebAppConfiguration;
import org.springframework.beans.factory.annotation.Autowired;
import org.springframework.boot.test.context.SpringBootTest;
import org.springframework.test.context.ActiveProfiles;
import org.springframework.test.web.servlet.MockMvc;
import org.springframework.test.web.servlet.result.MockMvcResultMatchers;
import org.springframework.test.web.servlet.setup.MockMvcBuilders;
import org.springframework.web.context.WebApplicationContext;

//@WebAppConfiguration
//@AutoConfigureMockMvc
@ActiveProfiles("dev")
@ExtendWith(SpringExtension.class)
@SpringBootTest(classes = %s.class)
/**
 * Shared test base class (starts the application context).
 *
 * JUnit 5 replaces JUnit 4's @RunWith with @ExtendWith(SpringExtension.class).
 * Setup runs in a @Before method (JUnit 4) or a @BeforeEach method (JUnit 5).
 * The template takes four arguments, top to bottom:
 *   - base class package
 *   - application class import (package + class)
 *   - application class name
 *   - base class name
 */
public abstract class %s extends MockMvcResultMatchers {

    /** @Autowired */
    protected MockMvc mockMvc;

    @Autowired
    private WebApplicationContext webApplicationContext;

    @BeforeEach
    public void setup() {
        mockMvc = MockMvcBuilders.webAppContextSetup(webApplicationContext).build();
    }
}`

// CommonBase fills a base class template.
type CommonBase struct {
	Common
	// AppQualified and AppName identify the @SpringBootApplication class.
	AppQualified string
	AppName      string
}

// Render formats template with the base package, the application class and
// the base class name. Templates with fewer verbs simply ignore the rest.
func (c CommonBase) Render(template string) string {
	out := fmt.Sprintf(template, c.Package, c.AppQualified, c.AppName, c.Class)
	// Sprintf appends %!(EXTRA ...) when a customized template drops verbs.
	if i := strings.Index(out, "%!(EXTRA"); i >= 0 {
		out = out[:i]
	}
	return out
}

// CommonBaseDir maps a source file path to the test directory holding the
// base class: everything from /<mainRoot> on is replaced with
// /<testRoot>/<package path>. It reports false for paths outside mainRoot.
func CommonBaseDir(sourcePath, mainRoot, testRoot, pkg string) (string, bool) {
	mainRoot = strings.Trim(filepath.ToSlash(mainRoot), "/")
	testRoot = strings.Trim(filepath.ToSlash(testRoot), "/")
	suffix := regexp.MustCompile(regexp.QuoteMeta("/"+mainRoot) + ".*")

	slashed := filepath.ToSlash(sourcePath)
	if mainRoot == "" || !suffix.MatchString(slashed) {
		return "", false
	}
	pkgPath := strings.ReplaceAll(pkg, ".", "/")
	dir := suffix.ReplaceAllLiteralString(slashed, "/"+testRoot+"/"+pkgPath)
	return filepath.FromSlash(dir), true
}

// CommonBasePath is the base class file for sourcePath.
func CommonBasePath(sourcePath, mainRoot, testRoot string, c Common) (string, bool) {
	dir, ok := CommonBaseDir(sourcePath, mainRoot, testRoot, c.Package)
	if !ok {
		return "", false
	}
	return filepath.Join(dir, c.Class+".java"), true
}
