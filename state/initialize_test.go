package state

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"ucc/config"
)

func testEnv(t *testing.T, mutate func(*config.Config)) *LocalEnv {
	t.Helper()
	cfg, err := config.LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if mutate != nil {
		mutate(cfg)
	}
	return &LocalEnv{Cfg: cfg, Log: zaptest.NewLogger(t)}
}

func writeTables(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

func TestCompileEngine(t *testing.T) {
	site := writeTables(t, "site.toml", `
[values]
brand = "#ff6600"

[utilities.tint]
properties = ["color"]

[variants]
hover = "&:focus-visible"

[variant_functions]
"~" = "supports"
`)

	tests := []struct {
		name   string
		mutate func(*config.Config)
		class  string
		want   string
	}{
		{
			name:  "preset",
			class: "p-4",
			want:  ".p-4{padding:1rem}",
		},
		{
			name: "table document extends preset",
			mutate: func(c *config.Config) {
				c.Engine.Tables = []string{site}
			},
			class: "tint-brand",
			want:  ".tint-brand{color:#ff6600}",
		},
		{
			name: "table document replaces preset variant",
			mutate: func(c *config.Config) {
				c.Engine.Tables = []string{site}
			},
			class: "hover:tint-brand",
			want:  ".hover\\:tint-brand:focus-visible{color:#ff6600}",
		},
		{
			name: "tables without preset",
			mutate: func(c *config.Config) {
				c.Engine.UsePreset = false
				c.Engine.Tables = []string{site}
			},
			class: "p-4",
		},
		{
			name: "prefix chars from configuration",
			mutate: func(c *config.Config) {
				c.Engine.UsePreset = false
				c.Engine.Tables = []string{site}
				c.Engine.PrefixChars = "~"
			},
			class: "~[color:red]:tint-brand",
			want:  "@supports (color:red){.\\~\\[color\\:red\\]\\:tint-brand{color:#ff6600}}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := testEnv(t, tt.mutate)
			e, err := env.CompileEngine()
			if err != nil {
				t.Fatalf("CompileEngine() error = %v", err)
			}
			res := e.ProcessOne(tt.class)
			if tt.want == "" {
				if res != nil && res.Invalid == nil {
					t.Errorf("ProcessOne(%q) = %+v, want no rule", tt.class, res.Rule)
				}
				return
			}
			if res == nil || res.Invalid != nil {
				t.Fatalf("ProcessOne(%q) = %+v, want rule", tt.class, res)
			}
			if got := e.EmitResult(res); got != tt.want {
				t.Errorf("EmitResult() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCompileEngineStrict(t *testing.T) {
	env := testEnv(t, func(c *config.Config) { c.Engine.Strict = true })
	e, err := env.CompileEngine()
	if err != nil {
		t.Fatalf("CompileEngine() error = %v", err)
	}
	res := e.ProcessOne("bg-nonsense")
	if res == nil || res.Invalid == nil {
		t.Errorf("strict engine should reject unknown bare value, got %+v", res)
	}
}

func TestCompileEngineErrors(t *testing.T) {
	bad := writeTables(t, "bad.yaml", "utilities:\n  broken: {}\n")

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"missing document", func(c *config.Config) { c.Engine.Tables = []string{filepath.Join(t.TempDir(), "none.yaml")} }, "unable to load tables"},
		{"unknown extension", func(c *config.Config) { c.Engine.Tables = []string{"tables.json"} }, "unknown file extension"},
		{"bad definition", func(c *config.Config) { c.Engine.Tables = []string{bad} }, "broken"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := testEnv(t, tt.mutate).CompileEngine()
			if err == nil {
				t.Fatal("CompileEngine() expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}

	t.Run("no configuration", func(t *testing.T) {
		if _, err := newLocalEnv().CompileEngine(); err == nil {
			t.Error("CompileEngine() without configuration expected error")
		}
	})
}
