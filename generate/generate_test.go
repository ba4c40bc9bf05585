package generate

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hidez8891/zip"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/text/encoding/charmap"

	"ucc/common"
	"ucc/engine"
	"ucc/preset"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x02\x00\x00\x00")

func presetEngine(t *testing.T) *engine.Engine {
	t.Helper()
	tbl, err := preset.Load(zap.NewNop())
	if err != nil {
		t.Fatalf("preset.Load() error = %v", err)
	}
	e, err := engine.Compile(tbl.Config(), zap.NewNop())
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	return e
}

func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("failed to create directory for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
}

func writeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create zip: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("failed to add %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("failed to finish zip: %v", err)
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"src/index.html": `<!doctype html>
<html><body>
  <div class="p-4 md:block hover:m-2 bogus-thing opacity-200">text</div>
</body></html>`,
		"src/app.js":                    "m-10 m-2\n",
		"src/image.png":                 string(pngHeader),
		"src/.cache/ignored.html":       `<p class="m-8">hidden</p>`,
		"src/node_modules/lib/pkg.html": `<p class="m-12">excluded</p>`,
	})
	writeZip(t, filepath.Join(dir, "src", "site.zip"), map[string]string{
		"pages/page.html": `<p class="sm:p-2">archived</p>`,
		"assets/skip.css": `.x{}`,
	})

	sheet, stats, err := Build(context.Background(), Options{
		Engine:         presetEngine(t),
		BaseDir:        dir,
		Sources:        []string{"src"},
		Exclude:        []string{"**/node_modules/**"},
		ArchivePattern: "**/*.html",
		Breakpoints:    map[string]int{"md": 768, "sm": 640},
		BaseStylesheet: []byte("body { margin: 0 }"),
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	var buf bytes.Buffer
	if _, err := sheet.Write(&buf, common.OutputStyleCompact); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	want := `body{margin:0}
.hover\:m-2:hover{margin:0.5rem}
.m-2{margin:0.5rem}
.m-10{margin:2.5rem}
.p-4{padding:1rem}
@media (min-width:640px){.sm\:p-2{padding:0.5rem}}
@media (min-width:768px){.md\:block{display:block}}
`
	if got := buf.String(); got != want {
		t.Errorf("stylesheet:\n%s\nwant:\n%s", got, want)
	}

	if stats.Sources != 3 {
		t.Errorf("Sources = %d, want 3", stats.Sources)
	}
	if stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", stats.Skipped)
	}
	if stats.Candidates != 8 {
		t.Errorf("Candidates = %d, want 8", stats.Candidates)
	}
	if stats.Invalid != 1 {
		t.Errorf("Invalid = %d, want 1", stats.Invalid)
	}
	if stats.Rules != 7 {
		t.Errorf("Rules = %d, want 7", stats.Rules)
	}
}

func TestBuildCharset(t *testing.T) {
	dir := t.TempDir()
	// windows-1251 "Ж" would not survive as UTF-8
	writeFiles(t, dir, map[string]string{
		"page.html": "<p class=\"m-1\">\xc6</p>",
	})

	g, err := New(Options{
		Engine:  presetEngine(t),
		BaseDir: dir,
		Sources: []string{"page.html"},
		Charset: charmap.Windows1251,
	}, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sheet, _, err := g.Build(context.Background())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := sheet.String(); got != ".m-1 {\n  margin: 0.25rem;\n}\n" {
		t.Errorf("stylesheet = %q", got)
	}
}

func TestBuildCanceled(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"a.html": `<p class="m-1"></p>`})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Build(ctx, Options{Engine: presetEngine(t), BaseDir: dir, Sources: []string{"."}}, zap.NewNop())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Options{}, nil); err == nil {
		t.Error("New() without engine expected error")
	}
	if _, err := New(Options{Engine: presetEngine(t), Breakpoints: map[string]int{"bad name": 1}}, nil); err == nil {
		t.Error("New() with bad breakpoint expected error")
	}
}

func TestStylesheetLogsInvalid(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	g, err := New(Options{Engine: presetEngine(t)}, zap.New(core))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	sheet, invalid := g.Stylesheet([]string{"opacity-500", "p-1", "p-1", "unknown"})
	if invalid != 1 {
		t.Errorf("invalid = %d, want 1", invalid)
	}
	if sheet.Len() != 1 {
		t.Errorf("Len() = %d, want 1 after dedup", sheet.Len())
	}

	entries := logs.FilterMessage("Invalid class").All()
	if len(entries) != 1 {
		t.Fatalf("expected one warning, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["class"]; got != "opacity-500" {
		t.Errorf("class field = %v", got)
	}
	if entries[0].LoggerName != "generate" {
		t.Errorf("logger name = %q", entries[0].LoggerName)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"web/page10.html":       "",
		"web/page2.html":        "",
		"web/partials/nav.tmpl": "",
		"web/.git/config":       "",
		"web/vendor/lib.html":   "",
		"docs/readme.txt":       "",
	})

	tests := []struct {
		name     string
		patterns []string
		exclude  []string
		want     []string
	}{
		{
			name:     "directory",
			patterns: []string{"web"},
			want:     []string{"web/page2.html", "web/page10.html", "web/partials/nav.tmpl", "web/vendor/lib.html"},
		},
		{
			name:     "glob with exclude",
			patterns: []string{"**/*.html"},
			exclude:  []string{"web/vendor/**"},
			want:     []string{"web/page2.html", "web/page10.html"},
		},
		{
			name:     "duplicates",
			patterns: []string{"docs/readme.txt", "docs/*"},
			want:     []string{"docs/readme.txt"},
		},
		{
			name:     "no match",
			patterns: []string{"missing/**"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := discover(dir, tt.patterns, tt.exclude)
			if err != nil {
				t.Fatalf("discover() error = %v", err)
			}
			var rel []string
			for _, f := range got {
				r, _ := filepath.Rel(dir, f)
				rel = append(rel, filepath.ToSlash(r))
			}
			if !slices.Equal(rel, tt.want) {
				t.Errorf("discover() = %v, want %v", rel, tt.want)
			}
		})
	}

	if _, err := discover(dir, []string{"web"}, []string{"["}); err == nil {
		t.Error("discover() with bad exclude pattern expected error")
	}
}

func TestReadFileLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.txt")
	if err := os.WriteFile(path, bytes.Repeat([]byte("m-1 "), 100), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readFile(path, 10); !errors.Is(err, errTooLarge) {
		t.Errorf("readFile() error = %v, want errTooLarge", err)
	}
	data, err := readFile(path, 0)
	if err != nil || len(data) != 400 {
		t.Errorf("readFile() without limit = %d bytes, %v", len(data), err)
	}
}

func TestNaturalCompare(t *testing.T) {
	names := []string{"p-10", "p-2", "m-1", "p-1"}
	slices.SortFunc(names, naturalCompare)
	if want := []string{"m-1", "p-1", "p-2", "p-10"}; !slices.Equal(names, want) {
		t.Errorf("sorted = %v, want %v", names, want)
	}
}
