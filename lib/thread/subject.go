package thread

import (
	"regexp"
	"strings"
)

// replyPrefixRe matches any run of reply and forward markers, in English
// and German (AW: Antwort, WG: Weitergeleitet).
var replyPrefixRe = regexp.MustCompile(`(?i)^\s*((re|fw|fwd|wg|aw):\s*)+`)

// Normalize strips the leading reply/forward markers of a subject and trims
// it. Normalize(Normalize(s)) == Normalize(s).
func Normalize(subject string) string {
	return strings.TrimSpace(replyPrefixRe.ReplaceAllString(subject, ""))
}
