// Package common holds enums shared by the stylesheet model, the source
// scanners and program configuration, so they do not depend on each other.
package common

import (
	"path/filepath"
	"strings"
)

// Format of a source file scanned for class names.
// ENUM(auto, html, xml, text)
type SourceFormat int

// Detect resolves SourceFormatAuto from the file extension of name. Other
// formats are returned unchanged.
func (f SourceFormat) Detect(name string) SourceFormat {
	if f != SourceFormatAuto {
		return f
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".html", ".htm", ".xhtml", ".tmpl", ".gohtml", ".vue", ".svelte":
		return SourceFormatHtml
	case ".xml", ".svg", ".fb2", ".opf", ".ncx":
		return SourceFormatXml
	}
	return SourceFormatText
}

// Layout of generated stylesheets.
// ENUM(pretty, compact)
type OutputStyle int
