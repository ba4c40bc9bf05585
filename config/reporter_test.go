package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestReport(t *testing.T) *Report {
	t.Helper()
	f, err := os.Create(filepath.Join(t.TempDir(), "report.zip"))
	if err != nil {
		t.Fatalf("failed to create report file: %v", err)
	}
	return &Report{entries: make(map[string]entry), file: f}
}

func readReport(t *testing.T, name string) map[string]string {
	t.Helper()
	r, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("failed to open report: %v", err)
	}
	defer r.Close()

	out := make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("failed to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("failed to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReportClose_RemovesStoredDirs(t *testing.T) {
	r := newTestReport(t)

	dir1, err := os.MkdirTemp("", "test-workdir1-")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	dir2, err := os.MkdirTemp("", "test-workdir2-")
	if err != nil {
		t.Fatalf("failed to create temp dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir1, "debug.txt"), []byte("test"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	// regular file entry must survive
	stored := filepath.Join(t.TempDir(), "stored.css")
	if err := os.WriteFile(stored, []byte(".m-1{margin:0.25rem}"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	r.Store("workdir-1", dir1)
	r.Store("workdir-2", dir2)
	r.Store("result-file", stored)

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	for _, dir := range []string{dir1, dir2} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			os.RemoveAll(dir)
			t.Errorf("expected %s to be removed, but it still exists", dir)
		}
	}
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("stored file should not be removed, but got error: %v", err)
	}

	files := readReport(t, r.file.Name())
	if files["workdir-1/debug.txt"] != "test" {
		t.Errorf("directory content not archived, got %v", files)
	}
	if files["result-file"] != ".m-1{margin:0.25rem}" {
		t.Errorf("result-file = %q", files["result-file"])
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	// all store methods are no-ops
	r.Store("a", "b")
	r.StoreData("a", nil)
	if err := r.StoreCopy("a", "b"); err != nil {
		t.Errorf("StoreCopy on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}

func TestReportStoreData(t *testing.T) {
	r := newTestReport(t)
	r.StoreData("generated/001.css", []byte(".p-4{padding:1rem}"))
	r.StoreData("config.yaml", []byte("version: 1\n"))

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readReport(t, r.file.Name())
	if got := files["generated/001.css"]; got != ".p-4{padding:1rem}" {
		t.Errorf("generated/001.css = %q", got)
	}
	manifest := files["MANIFEST"]
	if !strings.Contains(manifest, "config.yaml") || !strings.Contains(manifest, "generated/001.css") {
		t.Errorf("MANIFEST does not list entries:\n%s", manifest)
	}
	if strings.Index(manifest, "config.yaml") > strings.Index(manifest, "generated/001.css") {
		t.Errorf("MANIFEST is not sorted:\n%s", manifest)
	}
}

func TestReportStoreDataDuplicatePanics(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	r.StoreData("x", []byte("1"))

	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate name")
		}
	}()
	r.StoreData("x", []byte("2"))
}

func TestReportStoreCopy(t *testing.T) {
	r := newTestReport(t)

	src := filepath.Join(t.TempDir(), "tables.yaml")
	if err := os.WriteFile(src, []byte("v1"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := r.StoreCopy("tables.yaml", src); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	// content at the time of the call is kept
	if err := os.WriteFile(src, []byte("v2"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}
	if err := r.StoreCopy("tables.yaml", src); err != nil {
		t.Fatalf("StoreCopy() error: %v", err)
	}
	if len(r.entries) != 2 {
		t.Fatalf("expected versioned entry, got %d entries", len(r.entries))
	}

	var copies []string
	for _, e := range r.entries {
		copies = append(copies, e.actual)
	}

	if err := r.Close(); err != nil {
		t.Fatalf("Report.Close() error: %v", err)
	}

	files := readReport(t, r.file.Name())
	if files["tables.yaml"] != "v1" {
		t.Errorf("tables.yaml = %q, want %q", files["tables.yaml"], "v1")
	}
	for _, c := range copies {
		if _, err := os.Stat(c); !os.IsNotExist(err) {
			t.Errorf("temporary copy %s was not removed", c)
		}
	}
}

func TestReportStoreCopyMissing(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.StoreCopy("missing", filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
