package generate

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/igetcool/icodetest/internal/config"
	"github.com/igetcool/icodetest/internal/extract"
	"github.com/igetcool/icodetest/internal/logging"
	"github.com/igetcool/icodetest/internal/settings"
	"github.com/igetcool/icodetest/internal/style"
)

var projectFiles = map[string]string{
	"com/example/App.java": `package com.example;

import org.springframework.boot.autoconfigure.SpringBootApplication;

@SpringBootApplication
public class App {
}
`,
	"com/example/order/OrderService.java": `package com.example.order;

import org.springframework.beans.factory.annotation.Autowired;

public class OrderService {

    @Autowired
    private OrderRepo repo;

    public Order place(Order order) {
        return repo.save(order);
    }

    public long count() {
        return repo.count();
    }
}
`,
	"com/example/order/OrderRepo.java": `package com.example.order;

public interface OrderRepo {
    Order save(Order order);
    long count();
}
`,
	"com/example/order/Order.java": `package com.example.order;

public class Order {
    public void setName(String name) {}
}
`,
	"com/example/audit/AuditService.java": `package com.example.audit;

import org.springframework.beans.factory.annotation.Autowired;

public class AuditService {

    @Autowired
    private AuditLog log;

    public void note(String what) {
        log.record(what);
    }
}
`,
	"com/example/audit/AuditLog.java": `package com.example.audit;

public class AuditLog {
    public void record(String what) {}
}
`,
	"com/example/plain/Plain.java": `package com.example.plain;

public class Plain {
    public int one() { return 1; }
}
`,
}

type project struct {
	root string
}

func newProject(t *testing.T, skip ...string) project {
	t.Helper()
	root := t.TempDir()
	for rel, src := range projectFiles {
		if contains(skip, rel) {
			continue
		}
		path := filepath.Join(root, "src", "main", "java", filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	return project{root: root}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func (p project) source(rel string) string {
	return filepath.Join(p.root, "src", "main", "java", filepath.FromSlash(rel))
}

func (p project) test(rel string) string {
	return filepath.Join(p.root, "src", "test", "java", filepath.FromSlash(rel))
}

func newGenerator(prompter Prompter) *Generator {
	g := New(settings.Defaults(), logging.Nop())
	g.Prompter = prompter
	g.NewID = func() string { return "feedbeef" }
	return g
}

type countingPrompter struct {
	Prompter
	asked []string
}

func (c *countingPrompter) ConfirmOverwrite(path string, allowAll bool) (Decision, error) {
	c.asked = append(c.asked, path)
	return c.Prompter.ConfirmOverwrite(path, allowAll)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestRunFixed(t *testing.T) {
	p := newProject(t)
	g := newGenerator(FixedPrompter{Decision: Skip})

	report, err := g.Run(context.Background(), Request{
		Files: []string{p.source("com/example/order/OrderService.java"), p.source("com/example/plain/Plain.java")},
		Op:    Fixed,
	})
	require.NoError(t, err)

	assert.Equal(t, "success -> OrderService\n", report.String())
	assert.Equal(t, "OrderServiceTest", report.Entries[0].TestClass)
	assert.Equal(t, p.test("com/igetcool/commons/WebMvcBase.java"), report.CommonBase)

	base := readFile(t, report.CommonBase)
	assert.Contains(t, base, "import com.example.App;\n")
	assert.Contains(t, base, "@SpringBootTest(classes = App.class)")

	got := readFile(t, p.test("com/example/order/OrderServiceTest.java"))
	assert.True(t, strings.HasPrefix(got, "package com.example.order;\nimport com.igetcool.commons.WebMvcBase;\nimport com.example.order.OrderService;\nimport org.junit.Test;\n"))
	assert.Contains(t, got, "public class OrderServiceTest extends WebMvcBase {")
	assert.Contains(t, got, "\t@InjectMocks\n\tprivate OrderService orderService;\n")
	assert.Contains(t, got, "public void testPlace_feedbeef() throws Exception {")
	assert.Contains(t, got, "public void testCount_feedbeef() throws Exception {")
	assert.Contains(t, got, "\t\twhen(repo.count()).thenReturn(0L);\n")
	assert.Contains(t, got, "import com.example.order.Order;\n")

	_, err = os.Stat(p.test("com/example/plain/PlainTest.java"))
	assert.True(t, os.IsNotExist(err))
}

func TestRunExistingBaseClassKept(t *testing.T) {
	p := newProject(t)
	basePath := p.test("com/igetcool/commons/WebMvcBase.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(basePath), 0o755))
	require.NoError(t, os.WriteFile(basePath, []byte("custom"), 0o644))

	report, err := newGenerator(FixedPrompter{}).Run(context.Background(), Request{
		Files: []string{p.source("com/example/order/OrderService.java")},
	})
	require.NoError(t, err)
	assert.Empty(t, report.CommonBase)
	assert.Equal(t, "custom", readFile(t, basePath))
}

func TestRunWithoutApplicationClass(t *testing.T) {
	p := newProject(t, "com/example/App.java")

	report, err := newGenerator(FixedPrompter{}).Run(context.Background(), Request{
		Files: []string{p.source("com/example/order/OrderService.java")},
	})
	require.NoError(t, err)
	assert.Empty(t, report.CommonBase)
	assert.Equal(t, 1, len(report.Entries))
}

func TestRunOverwritePrompt(t *testing.T) {
	p := newProject(t)
	target := p.test("com/example/order/OrderServiceTest.java")
	req := Request{Files: []string{p.source("com/example/order/OrderService.java")}, Op: Fixed}

	t.Run("skip keeps the file", func(t *testing.T) {
		require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
		require.NoError(t, os.WriteFile(target, []byte("mine"), 0o644))

		prompter := &countingPrompter{Prompter: FixedPrompter{Decision: Skip}}
		report, err := newGenerator(prompter).Run(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, report.Empty())
		assert.Equal(t, []string{target}, prompter.asked)
		assert.Equal(t, "mine", readFile(t, target))
	})

	t.Run("overwrite replaces the file", func(t *testing.T) {
		report, err := newGenerator(FixedPrompter{Decision: Overwrite}).Run(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, "success -> OrderService\n", report.String())
		assert.Contains(t, readFile(t, target), "class OrderServiceTest")
	})
}

func TestRunRecursiveOverwriteAll(t *testing.T) {
	p := newProject(t)
	for _, rel := range []string{"com/example/order/OrderServiceTest.java", "com/example/audit/AuditServiceTest.java"} {
		path := p.test(rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("old"), 0o644))
	}

	files, err := CollectJavaFiles(filepath.Join(p.root, "src", "main", "java"), nil, extract.DefaultRoots)
	require.NoError(t, err)
	require.Len(t, files, len(projectFiles))

	var out bytes.Buffer
	prompter := &countingPrompter{Prompter: NewStdPrompter(strings.NewReader("maybe\na\n"), &out)}
	report, err := newGenerator(prompter).Run(context.Background(), Request{Files: files, Op: Recursive})
	require.NoError(t, err)

	assert.Len(t, prompter.asked, 1)
	assert.Contains(t, out.String(), "[y]es/[n]o/[a]ll")
	assert.Equal(t, "success -> AuditService\nsuccess -> OrderService\n", report.String())
	assert.NotEqual(t, "old", readFile(t, p.test("com/example/order/OrderServiceTest.java")))
	assert.NotEqual(t, "old", readFile(t, p.test("com/example/audit/AuditServiceTest.java")))
}

func TestRunPackageNamedLikeBuildOutput(t *testing.T) {
	p := newProject(t)
	for rel, src := range map[string]string{
		"com/example/out/Dispatcher.java": `package com.example.out;

import org.springframework.beans.factory.annotation.Autowired;

public class Dispatcher {

    @Autowired
    private Outbox outbox;

    public void flush() {
        outbox.drain();
    }
}
`,
		"com/example/out/Outbox.java": `package com.example.out;

public class Outbox {
    public void drain() {}
}
`,
	} {
		path := p.source(rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	}
	stale := filepath.Join(p.root, "out", "production", "Stale.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0o755))
	require.NoError(t, os.WriteFile(stale, []byte("public class Stale {}"), 0o644))

	cfg := config.DefaultConfig()
	g := NewFromConfig(cfg, settings.Defaults(), logging.Nop())
	g.Prompter = FixedPrompter{Decision: Skip}
	g.NewID = func() string { return "feedbeef" }

	report, err := g.Run(context.Background(), Request{Files: []string{p.source("com/example/out/Dispatcher.java")}, Op: Fixed})
	require.NoError(t, err)
	assert.Equal(t, "success -> Dispatcher\n", report.String())
	assert.Contains(t, readFile(t, p.test("com/example/out/DispatcherTest.java")), "outbox")

	roots := extract.Roots{Main: cfg.Source.MainRoot, Test: cfg.Source.TestRoot}
	files, err := CollectJavaFiles(p.root, cfg.Source.Exclude, roots)
	require.NoError(t, err)
	assert.Contains(t, files, p.source("com/example/out/Dispatcher.java"))
	assert.NotContains(t, files, stale)

	files, err = CollectJavaFiles(p.source("com/example/out"), cfg.Source.Exclude, roots)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestRunWarnsOnSyntaxErrors(t *testing.T) {
	p := newProject(t)
	broken := p.source("com/example/audit/AuditService.java")
	src := strings.Replace(projectFiles["com/example/audit/AuditService.java"], "log.record(what);", "log.record(what)", 1)
	require.NoError(t, os.WriteFile(broken, []byte(src), 0o644))

	var logs bytes.Buffer
	g := newGenerator(FixedPrompter{Decision: Skip})
	g.Logger = logging.New(&logs, "warn", false)

	_, err := g.Run(context.Background(), Request{Files: []string{broken, p.source("com/example/order/OrderService.java")}, Op: Fixed})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(logs.String(), "source has syntax errors"))
	assert.Contains(t, logs.String(), "AuditService.java:")
}

func TestRunCustomMethod(t *testing.T) {
	p := newProject(t)
	target := p.test("com/example/order/OrderServiceTest_count.java")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644))

	prompter := &countingPrompter{Prompter: FixedPrompter{Decision: Skip}}
	report, err := newGenerator(prompter).Run(context.Background(), Request{
		Files:  []string{p.source("com/example/order/OrderService.java")},
		Method: "count",
		Op:     Custom,
	})
	require.NoError(t, err)

	assert.Empty(t, prompter.asked)
	assert.Equal(t, "success -> OrderService\n", report.String())
	assert.Equal(t, "OrderServiceTest_count", report.Entries[0].TestClass)
	got := readFile(t, target)
	assert.Contains(t, got, "public class OrderServiceTest_count extends WebMvcBase {")
	assert.Contains(t, got, "testCount_feedbeef")
	assert.NotContains(t, got, "testPlace_")
}

func TestRunEmissionFailure(t *testing.T) {
	p := newProject(t)
	// A regular file where the output package directory belongs.
	blocker := p.test("com/example/order")
	require.NoError(t, os.MkdirAll(filepath.Dir(blocker), 0o755))
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	report, err := newGenerator(FixedPrompter{}).Run(context.Background(), Request{
		Files: []string{p.source("com/example/order/OrderService.java"), p.source("com/example/audit/AuditService.java")},
	})
	require.NoError(t, err)
	assert.Equal(t, "failed -> OrderService\nsuccess -> AuditService\n", report.String())
	assert.Equal(t, 1, report.Failed())
}

func TestRunErrors(t *testing.T) {
	t.Run("no files", func(t *testing.T) {
		_, err := newGenerator(FixedPrompter{}).Run(context.Background(), Request{})
		assert.ErrorIs(t, err, ErrNoFiles)
	})

	t.Run("unknown style aborts", func(t *testing.T) {
		p := newProject(t)
		g := newGenerator(FixedPrompter{})
		g.Settings.Style = "Feign"
		report, err := g.Run(context.Background(), Request{Files: []string{p.source("com/example/order/OrderService.java")}})
		assert.ErrorIs(t, err, style.ErrUnknownStyle)
		assert.Nil(t, report)
	})

	t.Run("file outside source root is skipped", func(t *testing.T) {
		loose := filepath.Join(t.TempDir(), "Loose.java")
		require.NoError(t, os.WriteFile(loose, []byte("class Loose {}"), 0o644))
		report, err := newGenerator(FixedPrompter{}).Run(context.Background(), Request{Files: []string{loose}})
		require.NoError(t, err)
		assert.True(t, report.Empty())
	})

	t.Run("canceled context", func(t *testing.T) {
		p := newProject(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newGenerator(FixedPrompter{}).Run(ctx, Request{Files: []string{p.source("com/example/order/OrderService.java")}})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestModuleRoot(t *testing.T) {
	root, ok := ModuleRoot(filepath.FromSlash("/w/shop/src/main/java/a/B.java"), "src/main/java")
	require.True(t, ok)
	assert.Equal(t, filepath.FromSlash("/w/shop"), root)

	_, ok = ModuleRoot(filepath.FromSlash("/w/shop/B.java"), "src/main/java")
	assert.False(t, ok)
}

func TestStdPrompter(t *testing.T) {
	tests := []struct {
		input    string
		allowAll bool
		want     Decision
	}{
		{"y\n", false, Overwrite},
		{"No\n", true, Skip},
		{"a\n", true, OverwriteAll},
		{"a\ny\n", false, Overwrite},
		{"", true, Skip},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var out bytes.Buffer
			got, err := NewStdPrompter(strings.NewReader(tt.input), &out).ConfirmOverwrite("X.java", tt.allowAll)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "X.java already exists.")
		})
	}
}

func TestMethods(t *testing.T) {
	p := newProject(t)
	g := NewFromConfig(config.DefaultConfig(), settings.Defaults(), logging.Nop())

	got, err := g.Methods(context.Background(), p.source("com/example/order/OrderService.java"))
	require.NoError(t, err)
	assert.Equal(t, []string{"place(Order)", "count()"}, got)

	g.Settings.Style = "MockMvc"
	got, err = g.Methods(context.Background(), p.source("com/example/order/OrderService.java"))
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = g.Methods(context.Background(), filepath.Join(p.root, "Missing.java"))
	assert.ErrorIs(t, err, extract.ErrNotExtractable)
}
