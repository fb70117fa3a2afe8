package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/igetcool/icodetest/internal/generate"
	"github.com/igetcool/icodetest/internal/settings"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"YAML", FormatYAML, false},
		{" json ", FormatJSON, false},
		{"cgf", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestGetFormatter(t *testing.T) {
	if f, _ := GetFormatter(FormatYAML); f != (YAMLFormatter{}) {
		t.Errorf("expected YAMLFormatter, got %T", f)
	}
	if f, _ := GetFormatter(FormatJSON); f != (JSONFormatter{}) {
		t.Errorf("expected JSONFormatter, got %T", f)
	}
	if _, err := GetFormatter(Format("xml")); err == nil {
		t.Error("GetFormatter should return error for invalid format")
	}
}

func sampleReport() *generate.Report {
	return &generate.Report{
		CommonBase: "/p/src/test/java/com/igetcool/commons/WebMvcBase.java",
		Entries: []generate.Entry{
			{Class: "OrderService", TestClass: "OrderServiceTest", Path: "/p/src/test/java/com/x/OrderServiceTest.java"},
			{Class: "AuditService", TestClass: "AuditServiceTest", Path: "/p/src/test/java/com/x/AuditServiceTest.java", Err: errors.New("permission denied")},
		},
	}
}

func TestGenerateOutput(t *testing.T) {
	out := NewGenerateOutput(sampleReport())

	if got := out.Text(); got != "success -> OrderService\nfailed -> AuditService\n" {
		t.Errorf("Text() = %q", got)
	}
	if out.Results[1].Status != StatusFailed || out.Results[1].Error != "permission denied" {
		t.Errorf("failed entry = %+v", out.Results[1])
	}

	empty := NewGenerateOutput(&generate.Report{})
	if empty.Text() != NothingToGenerate || empty.Results == nil {
		t.Errorf("empty run = %+v", empty)
	}
	if NewGenerateOutput(nil).Summary != NothingToGenerate {
		t.Error("nil report should summarize as nothing to generate")
	}
}

func TestWriteFormats(t *testing.T) {
	out := NewGenerateOutput(sampleReport())

	var buf bytes.Buffer
	if err := Write(&buf, FormatJSON, out); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["common_base"] != out.CommonBase {
		t.Errorf("common_base = %v", decoded["common_base"])
	}

	buf.Reset()
	if err := Write(&buf, FormatYAML, out); err != nil {
		t.Fatal(err)
	}
	var y struct {
		Results []struct {
			Class     string `yaml:"class"`
			TestClass string `yaml:"test_class"`
			Status    string `yaml:"status"`
		} `yaml:"results"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &y); err != nil {
		t.Fatalf("invalid YAML: %v", err)
	}
	if len(y.Results) != 2 || y.Results[0].Class != "OrderService" || y.Results[0].TestClass != "OrderServiceTest" || y.Results[1].Status != "failed" {
		t.Errorf("yaml results = %+v", y.Results)
	}

	buf.Reset()
	if err := Write(&buf, FormatText, &MethodsOutput{Methods: []string{"place(Order)", "count()"}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "place(Order)\ncount()\n" {
		t.Errorf("text = %q", buf.String())
	}
}

func TestSettingsOutput(t *testing.T) {
	snap := settings.Defaults()

	text := NewSettingsOutput(snap, "/p/.icodetest/settings.db").Text()
	want := "junit: JUnit4\nstyle: MethodCall\ncommon_package: com.igetcool.commons\ncommon_class: WebMvcBase\n# store: /p/.icodetest/settings.db\n"
	if text != want {
		t.Errorf("Text() = %q, want %q", text, want)
	}

	applied := NewSettingsOutput(snap, "")
	applied.UpdatedAt = "2026-01-02T03:04:05Z"
	if !strings.HasSuffix(applied.Text(), "common_class: WebMvcBase\n# updated: 2026-01-02T03:04:05Z\n") {
		t.Errorf("Text() = %q", applied.Text())
	}

	s, err := JSON(NewSettingsOutput(snap, ""))
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatal(err)
	}
	if _, ok := m["store"]; ok {
		t.Error("empty store should be omitted")
	}
	if _, ok := m["updated_at"]; ok {
		t.Error("defaults should carry no update time")
	}
	if m["common_class"] != "WebMvcBase" {
		t.Errorf("common_class = %q", m["common_class"])
	}
}
