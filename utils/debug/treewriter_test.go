package debug

import (
	"testing"
)

func TestTreeWriter(t *testing.T) {
	tests := []struct {
		name  string
		write func(tw *TreeWriter)
		want  string
	}{
		{
			name:  "empty",
			write: func(*TreeWriter) {},
			want:  "",
		},
		{
			name: "lines",
			write: func(tw *TreeWriter) {
				tw.Line(0, "Engine")
				tw.Line(1, "Utilities: %d", 2)
				tw.Line(2, "%s: %s", "p", "function")
			},
			want: "Engine\n  Utilities: 2\n    p: function\n",
		},
		{
			name: "text block",
			write: func(tw *TreeWriter) {
				tw.TextBlock(1, "hover", "&:hover")
				tw.TextBlock(1, "dark", "@media (prefers-color-scheme:dark){@slot}")
				tw.TextBlock(0, "tab", "a\tb")
				tw.TextBlock(0, "empty", "")
			},
			want: "  hover: \"&:hover\"\n" +
				"  dark: \"@media (prefers-color-scheme:dark){@slot}\"\n" +
				"tab: \"a\\tb\"\n" +
				"empty: \n",
		},
		{
			name: "list",
			write: func(tw *TreeWriter) {
				tw.List(1, "allowed", []string{"auto", "^-?\\d+$"})
				tw.List(1, "plugins", nil)
			},
			want: "  allowed: auto, ^-?\\d+$\n  plugins: -\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tt.write(tw)
			if got := tw.String(); got != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}
