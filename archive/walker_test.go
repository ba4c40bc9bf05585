package archive

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/hidez8891/zip"
)

func makeZip(t *testing.T, files map[string]string) string {
	t.Helper()
	zipPath := filepath.Join(t.TempDir(), "test.zip")
	zipFile, err := os.Create(zipPath)
	if err != nil {
		t.Fatalf("Failed to create zip file: %v", err)
	}
	defer zipFile.Close()

	w := zip.NewWriter(zipFile)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		fw, err := w.Create(name)
		if err != nil {
			t.Fatalf("Failed to create file %s in zip: %v", name, err)
		}
		if _, err := fw.Write([]byte(files[name])); err != nil {
			t.Fatalf("Failed to write content for %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish zip: %v", err)
	}
	return zipPath
}

func TestWalk(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"site/index.html":          `<div class="p-4">`,
		"site/about/index.html":    `<div class="m-2">`,
		"site/assets/app.js":       `el.className = "flex"`,
		"site/assets/logo.svg":     `<svg class="w-4"/>`,
		"README.md":                "readme",
		"site/partials/nav.gohtml": `<nav class="hidden">`,
	})

	tests := []struct {
		pattern string
		want    []string
	}{
		{"", []string{"README.md", "site/about/index.html", "site/assets/app.js", "site/assets/logo.svg", "site/index.html", "site/partials/nav.gohtml"}},
		{"**/*.html", []string{"site/about/index.html", "site/index.html"}},
		{"site/*.html", []string{"site/index.html"}},
		{"site/**/*.{svg,js}", []string{"site/assets/app.js", "site/assets/logo.svg"}},
		{"docs/**", nil},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			var visited []string
			err := Walk(zipPath, tt.pattern, func(archive string, file *zip.File) error {
				if archive != zipPath {
					t.Errorf("archive = %s, want %s", archive, zipPath)
				}
				visited = append(visited, file.Name)
				return nil
			})
			if err != nil {
				t.Fatalf("Walk() error = %v", err)
			}
			slices.Sort(visited)
			if !slices.Equal(visited, tt.want) {
				t.Errorf("visited %v, want %v", visited, tt.want)
			}
		})
	}

	t.Run("walkFn returns error", func(t *testing.T) {
		expectedErr := errors.New("test error")
		err := Walk(zipPath, "**/*.html", func(archive string, file *zip.File) error {
			return expectedErr
		})
		if err != expectedErr {
			t.Errorf("Walk() error = %v, want %v", err, expectedErr)
		}
	})

	t.Run("bad pattern", func(t *testing.T) {
		err := Walk(zipPath, "site/[", func(string, *zip.File) error { return nil })
		if err == nil {
			t.Error("expected an error for a malformed pattern")
		}
	})
}

func TestWalk_InvalidArchive(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		if err := Walk("/nonexistent/file.zip", "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for nonexistent file")
		}
	})

	t.Run("invalid zip file", func(t *testing.T) {
		invalidZip := filepath.Join(t.TempDir(), "invalid.zip")
		if err := os.WriteFile(invalidZip, []byte("not a zip file"), 0644); err != nil {
			t.Fatalf("Failed to create invalid zip: %v", err)
		}
		if err := Walk(invalidZip, "", func(string, *zip.File) error { return nil }); err == nil {
			t.Error("Expected error for invalid zip file")
		}
	})
}

func TestWalk_UnsafePath(t *testing.T) {
	zipPath := makeZip(t, map[string]string{
		"ok.html":        "",
		"../escape.html": "",
	})
	err := Walk(zipPath, "", func(string, *zip.File) error { return nil })
	if err == nil {
		t.Error("expected an error for an entry escaping the archive")
	}
}

func TestReadFile(t *testing.T) {
	zipPath := makeZip(t, map[string]string{"a.txt": "test content"})

	err := Walk(zipPath, "", func(_ string, file *zip.File) error {
		data, err := ReadFile(file, 0)
		if err != nil {
			return err
		}
		if string(data) != "test content" {
			t.Errorf("content = %q", data)
		}
		if _, err := ReadFile(file, 4); err == nil {
			t.Error("expected an error for an entry over the limit")
		}
		return nil
	})
	if err != nil {
		t.Errorf("Walk() error = %v", err)
	}
}

func TestIsArchive(t *testing.T) {
	tmpDir := t.TempDir()

	text := filepath.Join(tmpDir, "test.zip")
	if err := os.WriteFile(text, []byte("not a real zip file"), 0644); err != nil {
		t.Fatal(err)
	}
	if got, err := IsArchive(text); err != nil || got {
		t.Errorf("IsArchive(text) = %v, %v", got, err)
	}

	arc := makeZip(t, map[string]string{"index.html": "<p class=\"m-1\">"})
	if got, err := IsArchive(arc); err != nil || !got {
		t.Errorf("IsArchive(zip) = %v, %v", got, err)
	}

	if _, err := IsArchive(filepath.Join(tmpDir, "missing")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
