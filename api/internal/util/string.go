package util

import (
	"regexp"
	"strings"
)

var fenceRe = regexp.MustCompile("(?s)```[ \t]*[A-Za-z0-9_-]*[ \t]*\r?\n?(.*?)```")

// StripCodeFences returns the body of the first fenced block, or the trimmed
// input when there is no complete fence. A dangling opening fence is dropped.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var quoteReplacer = strings.NewReplacer(
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "″", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'",
)

// NormalizeQuotes replaces typographic quotes with straight ones.
func NormalizeQuotes(s string) string {
	return quoteReplacer.Replace(s)
}
