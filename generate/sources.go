package generate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/h2non/filetype"
	"github.com/hidez8891/zip"
	"github.com/maruel/natural"
	"go.uber.org/zap"

	"ucc/archive"
)

// DefaultMaxFileSize limits the size of a single source.
const DefaultMaxFileSize = 16 << 20

// sourceFunc receives the content of one source. name is the file path, or
// the archive path joined with the entry name.
type sourceFunc func(name string, data []byte) error

// discover expands source patterns into a sorted list of files. A pattern
// naming an existing directory stands for every file below it.
func discover(base string, patterns, exclude []string) ([]string, error) {
	seen := map[string]struct{}{}
	var files []string
	for _, pattern := range patterns {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(base, pattern)
		}
		if fi, err := os.Stat(pattern); err == nil && fi.IsDir() {
			pattern = filepath.Join(pattern, "**")
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly(), doublestar.WithNoHidden())
		if err != nil {
			return nil, fmt.Errorf("bad source pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if _, dup := seen[m]; dup {
				continue
			}
			skip, err := excluded(base, m, exclude)
			if err != nil {
				return nil, err
			}
			if skip {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	slices.SortFunc(files, naturalCompare)
	return files, nil
}

// excluded matches path relative to base against exclude patterns.
func excluded(base, path string, exclude []string) (bool, error) {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range exclude {
		ok, err := doublestar.Match(pattern, rel)
		if err != nil {
			return false, fmt.Errorf("bad exclude pattern %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// binary reports content which cannot hold class names: images, media,
// fonts and archives.
func binary(data []byte) bool {
	head := data[:min(len(data), 262)]
	return filetype.IsImage(head) || filetype.IsVideo(head) || filetype.IsAudio(head) ||
		filetype.IsFont(head) || filetype.IsArchive(head) || filetype.IsDocument(head)
}

var errTooLarge = errors.New("source is too large")

// readSource hands every source below path to fn: the file itself, or the
// entries of a zip archive matching pattern.
func readSource(ctx context.Context, path, pattern string, limit int64, log *zap.Logger, fn sourceFunc) (skipped int, err error) {
	arc, err := archive.IsArchive(path)
	if err != nil {
		return 0, err
	}
	if arc {
		err = archive.Walk(path, pattern, func(name string, f *zip.File) error {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := filepath.Join(name, filepath.FromSlash(f.FileHeader.Name))
			data, err := archive.ReadFile(f, limit)
			if err != nil {
				log.Warn("Skipping file in archive", zap.String("archive", name), zap.String("file", f.FileHeader.Name), zap.Error(err))
				skipped++
				return nil
			}
			if binary(data) {
				log.Debug("Skipping binary file in archive", zap.String("archive", name), zap.String("file", f.FileHeader.Name))
				skipped++
				return nil
			}
			return fn(entry, data)
		})
		return skipped, err
	}

	data, err := readFile(path, limit)
	if err != nil {
		return 0, err
	}
	if binary(data) {
		log.Debug("Skipping binary file", zap.String("file", path))
		return 1, nil
	}
	return 0, fn(path, data)
}

func readFile(path string, limit int64) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return io.ReadAll(f)
	}
	if fi.Size() > limit {
		return nil, fmt.Errorf("%s: %w (%d bytes)", path, errTooLarge, fi.Size())
	}
	return io.ReadAll(io.LimitReader(f, limit))
}

// naturalCompare orders "p-2" before "p-10".
func naturalCompare(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	}
	return 0
}
