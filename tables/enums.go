package tables

import (
	"path/filepath"
	"strings"
)

// Table document encoding.
// ENUM(yaml, toml)
type Format int

// FormatOf picks the document format from the file extension.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYaml, true
	case ".toml":
		return FormatToml, true
	}
	return FormatYaml, false
}
