package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
	if cfg.Document.PreClass != "code-block" {
		t.Errorf("Default pre class = %q, want %q", cfg.Document.PreClass, "code-block")
	}
	if cfg.Output.Suffix != "_styled" {
		t.Errorf("Default output suffix = %q, want %q", cfg.Output.Suffix, "_styled")
	}
	if cfg.Batch.ErrorLog != "smover.err" {
		t.Errorf("Default error log = %q, want %q", cfg.Batch.ErrorLog, "smover.err")
	}
	if cfg.Document.CapitalizeHeadings || cfg.Document.WrapPre || cfg.Document.Stats {
		t.Error("Optional transforms must be off by default")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
document:
  capitalize_headings: true
  wrap_pre: true
  pre_class: listing
  stats: true
output:
  suffix: .inlined
  name_template: "{{ .SourceFile }}-mail"
  file_name_transliterate: true
batch:
  error_log: ` + filepath.Join(tmpDir, "errors.txt") + `
logging:
  console:
    level: debug
  file:
    level: normal
    destination: ` + filepath.Join(tmpDir, "log", "smover.log") + `
    mode: append
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`
	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Document.CapitalizeHeadings || !cfg.Document.WrapPre || !cfg.Document.Stats {
		t.Errorf("Document flags not loaded: %+v", cfg.Document)
	}
	if cfg.Document.PreClass != "listing" {
		t.Errorf("PreClass = %q, want %q", cfg.Document.PreClass, "listing")
	}
	if cfg.Output.NameTemplate != "{{ .SourceFile }}-mail" {
		t.Errorf("NameTemplate must not be expanded, got %q", cfg.Output.NameTemplate)
	}
	if !cfg.Output.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate to be true")
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("File log mode = %q, want append", cfg.Logging.FileLogger.Mode)
	}
	if _, err := os.Stat(filepath.Join(tmpDir, "log")); err != nil {
		t.Errorf("Expected log directory to be created by sanitizer: %v", err)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	invalidYAML := `version: 1
document:
  stats: true
  invalid indent
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("Expected error for invalid YAML")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "unknown.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\nstylesheet:\n  keep: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Fatal("Expected error for unknown fields")
	}
	if !strings.Contains(err.Error(), "stylesheet") {
		t.Errorf("Error should mention unknown field, got: %v", err)
	}
}

func TestLoadConfiguration_Validation(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"wrong version", "version: 2\n"},
		{"empty pre class", "version: 1\ndocument:\n  pre_class: \"\"\n"},
		{"bad console level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
		{"no suffix and no template", "version: 1\noutput:\n  suffix: \"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// options are opaque, only check that they are accepted
	}
	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}
	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if len(data) == 0 {
		t.Fatal("Prepare() returned empty data")
	}
	if _, err := unmarshalConfig(data, &Config{}, true); err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Document: DocumentConfig{
			CapitalizeHeadings: true,
			PreClass:           "code",
		},
		Output: OutputConfig{Suffix: "_x"},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, false)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Document != cfg.Document || cfg2.Output != cfg.Output {
		t.Errorf("Config mismatch after dump/load: got %+v, want %+v", cfg2, cfg)
	}
}
