package ai

import (
	"regexp"
	"strings"
)

// thinkPattern matches the model's internal reasoning spans. Non-greedy so
// multiple pairs are removed independently; (?s) lets a span cross newlines.
var thinkPattern = regexp.MustCompile(`(?s)<think>.*?</think>`)

// Sanitize strips <think>...</think> spans from raw model output and trims
// surrounding whitespace. Unbalanced markers are left untouched rather than
// repaired.
func Sanitize(raw string) string {
	return strings.TrimSpace(thinkPattern.ReplaceAllString(raw, ""))
}
