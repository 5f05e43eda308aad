package applicant

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var spaceRunRe = regexp.MustCompile(`\s+`)

// positionRes are tried in order, the first match wins. German phrasings
// come first, that is where the more specific wordings are.
var positionRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)bewerbung\s+als\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)bewerbung\s+um\s+die\s+stelle\s+als\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)bewerbung\s+um\s+die\s+stelle\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)ich\s+bewerbe\s+mich\s+als\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)ich\s+bewerbe\s+mich\s+für\s+die\s+position\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)hiermit\s+bewerbe\s+ich\s+mich\s+als\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)hiermit\s+bewerbe\s+ich\s+mich\s+für\s+die\s+position\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)meine\s+bewerbung\s+als\s+([^.,\n]+)`),

	regexp.MustCompile(`(?i)I\s+am\s+applying\s+for\s+the\s+position\s+of\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)application\s+for\s+the\s+position\s+of\s+([^.,\n]+)`),
	regexp.MustCompile(`(?i)I\s+am\s+applying\s+as\s+(?:an?\s+)?([^.,\n]+)`),
	regexp.MustCompile(`(?i)hereby\s+I\s+apply\s+for\s+the\s+position\s+(?:of\s+)?([^.,\n]+)`),
}

// ExtractPosition returns the job title an application names, or "" when
// none of the known phrasings occur in body.
func ExtractPosition(body string) string {
	if body == "" {
		return ""
	}
	body = norm.NFC.String(body)
	body = strings.TrimSpace(spaceRunRe.ReplaceAllString(body, " "))

	for _, re := range positionRes {
		if m := re.FindStringSubmatch(body); m != nil {
			if pos := strings.TrimSpace(m[1]); pos != "" {
				return pos
			}
		}
	}
	return ""
}
