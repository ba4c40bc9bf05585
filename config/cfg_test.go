package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rupor-github/gencfg"

	"ucc/common"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

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
	if !cfg.Engine.UsePreset {
		t.Error("Preset should be enabled by default")
	}
	if cfg.Generator.Format != common.OutputStylePretty {
		t.Errorf("Format = %v, want pretty", cfg.Generator.Format)
	}
	if cfg.Generator.SourceFormat != common.SourceFormatAuto {
		t.Errorf("SourceFormat = %v, want auto", cfg.Generator.SourceFormat)
	}
	if cfg.Generator.Debounce != 200*time.Millisecond {
		t.Errorf("Debounce = %v, want 200ms", cfg.Generator.Debounce)
	}
	if cfg.Generator.Breakpoints["md"] != 768 || len(cfg.Generator.Breakpoints) != 4 {
		t.Errorf("Breakpoints = %v", cfg.Generator.Breakpoints)
	}
	if len(cfg.Generator.Attributes) == 0 {
		t.Error("Attributes should not be empty")
	}
	if cfg.Logging.ConsoleLogger.Level != "debug" {
		t.Errorf("Console level under test = %q, want debug", cfg.Logging.ConsoleLogger.Level)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	path := writeConfig(t, `version: 1
engine:
  tables: ["site.toml", "extra.yaml"]
  use_preset: false
  prefix_chars: "@"
  safelist: ["hidden"]
  strict: true
generator:
  sources: ["templates/**/*.html", "site.zip"]
  format: compact
  source_format: html
  charset: windows-1251
  breakpoints:
    "2xl": 1536
  debounce: 1s
logging:
  console:
    level: normal
  file:
    level: debug
    destination: /tmp/ucc-test.log
    mode: append
`)

	cfg, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Engine.UsePreset || !cfg.Engine.Strict {
		t.Errorf("Engine = %+v", cfg.Engine)
	}
	if len(cfg.Engine.Tables) != 2 || cfg.Engine.Tables[0] != "site.toml" {
		t.Errorf("Tables = %v", cfg.Engine.Tables)
	}
	if cfg.Engine.PrefixChars != "@" {
		t.Errorf("PrefixChars = %q", cfg.Engine.PrefixChars)
	}
	if cfg.Generator.Format != common.OutputStyleCompact {
		t.Errorf("Format = %v, want compact", cfg.Generator.Format)
	}
	if cfg.Generator.SourceFormat != common.SourceFormatHtml {
		t.Errorf("SourceFormat = %v, want html", cfg.Generator.SourceFormat)
	}
	if cfg.Generator.Debounce != time.Second {
		t.Errorf("Debounce = %v, want 1s", cfg.Generator.Debounce)
	}
	// maps are merged with defaults
	if cfg.Generator.Breakpoints["2xl"] != 1536 || cfg.Generator.Breakpoints["sm"] != 640 {
		t.Errorf("Breakpoints = %v", cfg.Generator.Breakpoints)
	}
	// defaults survive for unspecified fields
	if len(cfg.Generator.Exclude) == 0 {
		t.Error("Exclude should keep default value")
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("FileLogger.Mode = %q", cfg.Logging.FileLogger.Mode)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	if _, err := LoadConfiguration("/nonexistent/config.yaml"); err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name: "invalid yaml",
			content: `version: 1
engine:
  strict: true
  invalid indent
`,
			want: "failed to process configuration file",
		},
		{
			name:    "unknown field",
			content: "version: 1\nunknown_field: value\n",
			want:    "unknown_field",
		},
		{
			name:    "version",
			content: "version: 2\n",
			want:    "Version",
		},
		{
			name:    "no tables",
			content: "version: 1\nengine:\n  use_preset: false\n",
			want:    "tables_or_preset",
		},
		{
			name:    "prefix chars",
			content: "version: 1\nengine:\n  prefix_chars: \"a\"\n",
			want:    "prefix_chars",
		},
		{
			name:    "negative breakpoint",
			content: "version: 1\ngenerator:\n  breakpoints:\n    tiny: -1\n",
			want:    "Breakpoints",
		},
		{
			name:    "breakpoint name",
			content: "version: 1\ngenerator:\n  breakpoints:\n    \"a:b\": 10\n",
			want:    "breakpoint_name",
		},
		{
			name:    "output style",
			content: "version: 1\ngenerator:\n  format: fancy\n",
			want:    "fancy",
		},
		{
			name:    "logging level",
			content: "version: 1\nlogging:\n  console:\n    level: loud\n",
			want:    "Level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfiguration(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {}

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
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Engine.Tables = []string{"site.yaml"}
	cfg.Generator.Format = common.OutputStyleCompact

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	if !strings.Contains(string(data), "format: compact") {
		t.Errorf("enums should be dumped by name:\n%s", data)
	}

	cfg2, err := unmarshalConfig(data, &Config{}, true)
	if err != nil {
		t.Fatalf("Dumped config cannot be loaded: %v", err)
	}
	if cfg2.Generator.Format != common.OutputStyleCompact {
		t.Errorf("Format after reload = %v", cfg2.Generator.Format)
	}
	if cfg2.Generator.Debounce != cfg.Generator.Debounce {
		t.Errorf("Debounce after reload = %v, want %v", cfg2.Generator.Debounce, cfg.Generator.Debounce)
	}
	if len(cfg2.Engine.Tables) != 1 || cfg2.Engine.Tables[0] != "site.yaml" {
		t.Errorf("Tables after reload = %v", cfg2.Engine.Tables)
	}
}

func TestUnmarshalConfig(t *testing.T) {
	t.Run("valid config without processing", func(t *testing.T) {
		result, err := unmarshalConfig([]byte(`version: 1`), &Config{}, false)
		if err != nil {
			t.Fatalf("unmarshalConfig() error = %v", err)
		}
		if result.Version != 1 {
			t.Errorf("Version = %d, want 1", result.Version)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		if _, err := unmarshalConfig([]byte(`invalid: [yaml`), &Config{}, false); err == nil {
			t.Error("Expected error for invalid YAML")
		}
	})
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"tables.yaml", "tables.yaml"},
		{"a/b", "ab"},
		{"", "_bad_file_name_"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
