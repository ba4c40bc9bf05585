package main

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"ucc/engine"
	"ucc/generate"
	"ucc/preset"
)

func presetEngine(t *testing.T) (*engine.Engine, generate.Breakpoints) {
	t.Helper()
	log := zaptest.NewLogger(t)
	tbl, err := preset.Load(log)
	if err != nil {
		t.Fatalf("preset.Load() error = %v", err)
	}
	e, err := engine.Compile(tbl.Config(), log)
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	bps, err := generate.NewBreakpoints(map[string]int{"md": 768})
	if err != nil {
		t.Fatalf("NewBreakpoints() error = %v", err)
	}
	if e, err = bps.Extend(e); err != nil {
		t.Fatalf("Extend() error = %v", err)
	}
	return e, bps
}

func TestPrintResults(t *testing.T) {
	e, bps := presetEngine(t)

	tests := []struct {
		name  string
		lists []string
		all   bool
		want  string
		stats processStats
	}{
		{
			name:  "valid",
			lists: []string{"p-4 hover:m-2"},
			want:  "p-4\t.p-4{padding:1rem}\nhover:m-2\t.hover\\:m-2:hover{margin:0.5rem}\n",
			stats: processStats{valid: 2},
		},
		{
			name:  "breakpoint",
			lists: []string{"md:block"},
			want:  "md:block\t@media (min-width:768px){.md\\:block{display:block}}\n",
			stats: processStats{valid: 1},
		},
		{
			name:  "unmatched skipped",
			lists: []string{"nothing-here", "p-4"},
			want:  "p-4\t.p-4{padding:1rem}\n",
			stats: processStats{valid: 1, unmatched: 1},
		},
		{
			name:  "unmatched reported",
			lists: []string{"nothing-here"},
			all:   true,
			want:  "nothing-here\tno match\n",
			stats: processStats{unmatched: 1},
		},
		{
			name:  "invalid",
			lists: []string{"opacity-200"},
			stats: processStats{invalid: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			stats, err := printResults(&buf, e, bps, tt.lists, tt.all)
			if err != nil {
				t.Fatalf("printResults() error = %v", err)
			}
			if stats != tt.stats {
				t.Errorf("stats = %+v, want %+v", stats, tt.stats)
			}
			if tt.want == "" {
				if !strings.HasPrefix(buf.String(), tt.lists[0]+"\tinvalid: ") {
					t.Errorf("output = %q, want invalid line", buf.String())
				}
				return
			}
			if buf.String() != tt.want {
				t.Errorf("output:\n%s\nwant:\n%s", buf.String(), tt.want)
			}
		})
	}
}

func TestReadLists(t *testing.T) {
	lists, err := readLists(strings.NewReader("p-4 m-2\n\n   \nhover:block\n"))
	if err != nil {
		t.Fatalf("readLists() error = %v", err)
	}
	if len(lists) != 2 || lists[0] != "p-4 m-2" || lists[1] != "hover:block" {
		t.Errorf("readLists() = %q", lists)
	}
}

func TestDescribe(t *testing.T) {
	e, _ := presetEngine(t)

	var buf bytes.Buffer
	if err := describe(&buf, e, []string{"!md:p-4", "zzz"}); err != nil {
		t.Fatalf("describe() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"breakpoints: priority 1000",
		"Matcher",
		`!md:p-4: variant "md" utility "p" value "4" important true`,
		"zzz: no match",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output does not contain %q:\n%s", want, out)
		}
	}
}
