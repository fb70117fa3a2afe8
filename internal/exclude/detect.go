// Package exclude detects build output and dependency directories that should
// not be indexed as Java sources.
package exclude

import (
	"os"
	"path/filepath"
	"sort"
)

// Result holds the directory names to skip and the marker that caused each.
type Result struct {
	// Names are directory base names, the form source.exclude expects.
	Names []string
	// Reasons maps each name to the marker that triggered it.
	Reasons map[string]string
}

func (r *Result) add(name, reason string) {
	if _, ok := r.Reasons[name]; ok {
		return
	}
	r.Names = append(r.Names, name)
	r.Reasons[name] = reason
}

// marker ties a build file to the output directories it implies.
type marker struct {
	file   string
	dirs   []string
	reason string
}

var markers = []marker{
	{"pom.xml", []string{"target"}, "Maven build output (pom.xml detected)"},
	{"build.gradle", []string{"build", ".gradle"}, "Gradle build output (build.gradle detected)"},
	{"build.gradle.kts", []string{"build", ".gradle"}, "Gradle build output (build.gradle.kts detected)"},
	{".classpath", []string{"bin"}, "Eclipse output folder (.classpath detected)"},
	{"package.json", []string{"node_modules"}, "Node.js dependencies (package.json detected)"},
}

// walkSkip are never descended into while looking for markers.
var walkSkip = map[string]bool{
	".git": true, "node_modules": true, "target": true, "build": true, ".gradle": true,
}

// Detect walks projectRoot for build markers and reports the sibling output
// directories that exist. Only file-existence checks are used.
func Detect(projectRoot string) *Result {
	result := &Result{Reasons: make(map[string]string)}

	_ = filepath.WalkDir(projectRoot, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != projectRoot && walkSkip[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}

		dir := filepath.Dir(path)
		if d.Name() == "pyvenv.cfg" {
			result.add(filepath.Base(dir), "Python virtual environment (pyvenv.cfg detected)")
			return nil
		}
		for _, m := range markers {
			if d.Name() != m.file {
				continue
			}
			for _, out := range m.dirs {
				if dirExists(filepath.Join(dir, out)) {
					result.add(out, m.reason)
				}
			}
		}
		return nil
	})

	sort.Strings(result.Names)
	return result
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
