package common

import "testing"

func TestSourceFormatDetect(t *testing.T) {
	tests := []struct {
		format SourceFormat
		name   string
		want   SourceFormat
	}{
		{SourceFormatAuto, "index.html", SourceFormatHtml},
		{SourceFormatAuto, "page.HTM", SourceFormatHtml},
		{SourceFormatAuto, "icons/logo.svg", SourceFormatXml},
		{SourceFormatAuto, "book.fb2", SourceFormatXml},
		{SourceFormatAuto, "app.tsx", SourceFormatText},
		{SourceFormatAuto, "README", SourceFormatText},
		{SourceFormatText, "index.html", SourceFormatText},
		{SourceFormatXml, "notes.txt", SourceFormatXml},
	}
	for _, tt := range tests {
		if got := tt.format.Detect(tt.name); got != tt.want {
			t.Errorf("%s.Detect(%q) = %s, want %s", tt.format, tt.name, got, tt.want)
		}
	}
}

func TestOutputStyleParse(t *testing.T) {
	for _, name := range OutputStyleNames() {
		s, err := ParseOutputStyle(name)
		if err != nil || s.String() != name {
			t.Errorf("ParseOutputStyle(%q) = %v, %v", name, s, err)
		}
	}
	if _, err := ParseOutputStyle("fancy"); err == nil {
		t.Error("expected an error for an unknown style")
	}
}
