package app

import (
	"regexp"
	"strings"
)

// Streamed message text is untrusted terminal input. Escape sequences and
// control characters are stripped before any line reaches the terminal,
// otherwise a hostile stream could move the cursor or rewrite the screen.
var (
	csiPattern     = regexp.MustCompile(`\x1b\[[<>?=]?[0-9;]*[A-Za-z@^` + "`" + `~{|}!]`)
	oscPattern     = regexp.MustCompile(`\x1b\][^\x07\x1b]*(?:\x07|\x1b\\)`)
	charsetPattern = regexp.MustCompile(`\x1b[()][AB012]`)
)

func scrubTerminalText(input string) string {
	if input == "" {
		return input
	}
	for _, p := range []*regexp.Regexp{csiPattern, oscPattern, charsetPattern} {
		input = p.ReplaceAllString(input, "")
	}
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == '\n' || r == '\t' || (r >= 32 && r != 127) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
