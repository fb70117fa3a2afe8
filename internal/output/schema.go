package output

import (
	"fmt"
	"strings"

	"github.com/igetcool/icodetest/internal/generate"
	"github.com/igetcool/icodetest/internal/settings"
)

// Status values of a generated class.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// NothingToGenerate is the summary of a run that wrote nothing.
const NothingToGenerate = "nothing to generate\n"

// GenerateOutput describes one generation run.
type GenerateOutput struct {
	CommonBase string         `json:"common_base,omitempty" yaml:"common_base,omitempty"`
	Results    []ResultOutput `json:"results" yaml:"results"`
	Summary    string         `json:"summary" yaml:"summary"`
}

// ResultOutput is the outcome for one test class.
type ResultOutput struct {
	Class     string `json:"class" yaml:"class"`
	TestClass string `json:"test_class" yaml:"test_class"`
	Path      string `json:"path" yaml:"path"`
	Status    string `json:"status" yaml:"status"`
	Error     string `json:"error,omitempty" yaml:"error,omitempty"`
}

// NewGenerateOutput converts a run report.
func NewGenerateOutput(r *generate.Report) *GenerateOutput {
	out := &GenerateOutput{Results: []ResultOutput{}, Summary: NothingToGenerate}
	if r == nil {
		return out
	}
	out.CommonBase = r.CommonBase
	for _, e := range r.Entries {
		res := ResultOutput{Class: e.Class, TestClass: e.TestClass, Path: e.Path, Status: StatusSuccess}
		if e.Err != nil {
			res.Status = StatusFailed
			res.Error = e.Err.Error()
		}
		out.Results = append(out.Results, res)
	}
	if !r.Empty() {
		out.Summary = r.String()
	}
	return out
}

// Text returns the summary lines.
func (o *GenerateOutput) Text() string {
	return o.Summary
}

// MethodsOutput lists the candidate methods of a class.
type MethodsOutput struct {
	File    string   `json:"file" yaml:"file"`
	Style   string   `json:"style" yaml:"style"`
	Methods []string `json:"methods" yaml:"methods"`
}

// Text returns one signature per line.
func (o *MethodsOutput) Text() string {
	var b strings.Builder
	for _, m := range o.Methods {
		b.WriteString(m)
		b.WriteByte('\n')
	}
	return b.String()
}

// SettingsOutput shows the scalar settings. Templates are left out.
type SettingsOutput struct {
	JUnit         string `json:"junit" yaml:"junit"`
	Style         string `json:"style" yaml:"style"`
	CommonPackage string `json:"common_package" yaml:"common_package"`
	CommonClass   string `json:"common_class" yaml:"common_class"`
	Store         string `json:"store,omitempty" yaml:"store,omitempty"`
	// UpdatedAt is the RFC 3339 time of the last apply; empty for defaults.
	UpdatedAt string `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
}

// NewSettingsOutput copies the scalar settings of snap.
func NewSettingsOutput(snap settings.Snapshot, store string) *SettingsOutput {
	return &SettingsOutput{
		JUnit:         string(snap.JUnit),
		Style:         snap.Style,
		CommonPackage: snap.CommonPackage,
		CommonClass:   snap.CommonClass,
		Store:         store,
	}
}

func (o *SettingsOutput) Text() string {
	var b strings.Builder
	fmt.Fprintf(&b, "junit: %s\n", o.JUnit)
	fmt.Fprintf(&b, "style: %s\n", o.Style)
	fmt.Fprintf(&b, "common_package: %s\n", o.CommonPackage)
	fmt.Fprintf(&b, "common_class: %s\n", o.CommonClass)
	if o.Store != "" {
		fmt.Fprintf(&b, "# store: %s\n", o.Store)
	}
	if o.UpdatedAt != "" {
		fmt.Fprintf(&b, "# updated: %s\n", o.UpdatedAt)
	}
	return b.String()
}
