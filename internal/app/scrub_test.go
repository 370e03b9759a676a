package app

import "testing"

func TestScrubTerminalText(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "hello world", "hello world"},
		{"csi", "safe\x1b[2Jwiped", "safewiped"},
		{"osc", "title\x1b]0;evil\x07done", "titledone"},
		{"color", "\x1b[31mred\x1b[0m", "red"},
		{"control runes", "a\x00b\x07c", "abc"},
		{"keeps newlines and tabs", "a\n\tb", "a\n\tb"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scrubTerminalText(tc.input); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
