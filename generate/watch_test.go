package generate

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap/zaptest"
)

func TestSourceRoots(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"web/index.html":   "",
		"web/parts/a.tmpl": "",
		"site/page.html":   "",
		"single/only.html": "",
	})

	got := SourceRoots(dir, []string{
		"web",
		"web/parts/**/*.tmpl",
		"site/**/*.html",
		"single/only.html",
		"missing/**",
		filepath.Join(dir, "web"),
	})
	want := []string{
		filepath.Join(dir, "web"),
		filepath.Join(dir, "web", "parts"),
		filepath.Join(dir, "site"),
		filepath.Join(dir, "single"),
	}
	if !slices.Equal(got, want) {
		t.Errorf("SourceRoots() = %v, want %v", got, want)
	}
}

func TestWatcherRelevant(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(zaptest.NewLogger(t), 0)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	if w.debounce != DefaultDebounce {
		t.Errorf("debounce = %v, want default", w.debounce)
	}

	out := filepath.Join(dir, "out.css")
	w.Ignore(out)

	tests := []struct {
		name string
		ev   fsnotify.Event
		want bool
	}{
		{"write", fsnotify.Event{Name: filepath.Join(dir, "a.html"), Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: filepath.Join(dir, "b.html"), Op: fsnotify.Create}, true},
		{"remove", fsnotify.Event{Name: filepath.Join(dir, "c.html"), Op: fsnotify.Remove}, true},
		{"chmod", fsnotify.Event{Name: filepath.Join(dir, "a.html"), Op: fsnotify.Chmod}, false},
		{"hidden", fsnotify.Event{Name: filepath.Join(dir, ".a.html.swp"), Op: fsnotify.Write}, false},
		{"output", fsnotify.Event{Name: out, Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.ev); got != tt.want {
				t.Errorf("relevant(%v) = %t, want %t", tt.ev, got, tt.want)
			}
		})
	}
}

func TestWatcherRun(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"web/index.html": ""})

	w, err := NewWatcher(zaptest.NewLogger(t), 20*time.Millisecond)
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()
	if err := w.AddSources(dir, []string{"web"}); err != nil {
		t.Fatalf("AddSources() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	rebuilt := make(chan struct{}, 16)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(context.Context) error {
			rebuilt <- struct{}{}
			return nil
		})
	}()

	// several quick writes settle into one rebuild
	for i := range 3 {
		if err := os.WriteFile(filepath.Join(dir, "web", "index.html"), []byte{byte('a' + i)}, 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-rebuilt:
	case <-ctx.Done():
		t.Fatal("no rebuild after change")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Run() error = %v", err)
	}
}
