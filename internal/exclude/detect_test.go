package exclude

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func touch(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, p)
		if strings.HasSuffix(p, "/") {
			if err := os.MkdirAll(full, 0755); err != nil {
				t.Fatal(err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetect_Empty(t *testing.T) {
	result := Detect(t.TempDir())

	if len(result.Names) != 0 {
		t.Errorf("expected no names, got %v", result.Names)
	}
}

func TestDetect_Maven(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir, "pom.xml", "target/")

	result := Detect(tmpDir)

	if strings.Join(result.Names, ",") != "target" {
		t.Errorf("names = %v, want [target]", result.Names)
	}
	if result.Reasons["target"] == "" {
		t.Error("expected reason for target")
	}
}

func TestDetect_MavenWithoutOutput(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir, "pom.xml")

	if result := Detect(tmpDir); len(result.Names) != 0 {
		t.Errorf("expected no names without target/, got %v", result.Names)
	}
}

func TestDetect_GradleMultiModule(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir,
		"settings.gradle",
		"api/build.gradle.kts", "api/build/",
		"web/build.gradle", "web/build/", "web/.gradle/",
	)

	result := Detect(tmpDir)

	if got := strings.Join(result.Names, ","); got != ".gradle,build" {
		t.Errorf("names = %q, want \".gradle,build\"", got)
	}
}

func TestDetect_MixedEcosystems(t *testing.T) {
	tmpDir := t.TempDir()
	touch(t, tmpDir,
		"pom.xml", "target/",
		".classpath", "bin/",
		"frontend/package.json", "frontend/node_modules/",
		"tools/venv/pyvenv.cfg",
	)

	result := Detect(tmpDir)

	want := "bin,node_modules,target,venv"
	if got := strings.Join(result.Names, ","); got != want {
		t.Errorf("names = %q, want %q", got, want)
	}
	for _, name := range result.Names {
		if result.Reasons[name] == "" {
			t.Errorf("missing reason for %s", name)
		}
	}
}

func TestDetect_SkipsOutputTrees(t *testing.T) {
	tmpDir := t.TempDir()
	// A pom.xml copied into target/ must not be treated as a module.
	touch(t, tmpDir, "target/classes/pom.xml", "target/classes/bin/")

	if result := Detect(tmpDir); len(result.Names) != 0 {
		t.Errorf("expected no names, got %v", result.Names)
	}
}
