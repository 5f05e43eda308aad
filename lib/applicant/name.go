package applicant

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// salutationLines is how many leading lines may hold the greeting.
const salutationLines = 10

// maxSignatureWords bounds the line after a closing phrase that is still
// taken for a name.
const maxSignatureWords = 4

var lineSplitRe = regexp.MustCompile(`\r?\n`)

var salutationRes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^sehr\s+geehrte[rn]*\s+(.+?),?$`),
	regexp.MustCompile(`(?i)^dear\s+(.+?),?$`),
	regexp.MustCompile(`(?i)^hello\s+(.+?),?$`),
	regexp.MustCompile(`(?i)^hi\s+(.+?),?$`),
	regexp.MustCompile(`(?i)^hallo\s+(.+?),?$`),
	regexp.MustCompile(`(?i)^guten\s+tag\s+(.+?),?$`),
}

// collectiveRe matches greetings addressed to nobody in particular.
var collectiveRe = regexp.MustCompile(
	`(?i)damen\s+und\s+herren|ladies\s+and\s+gentlemen|sir\s+or\s+madam|sir\s*/\s*madam|` +
		`^(zusammen|alle|all|everyone)$`)

// honorificRe also eats conjunctions between titles, "Mr. and Mrs. Smith".
var honorificRe = regexp.MustCompile(
	`(?i)^((frau|herrn?|mrs?|ms|dr|prof)(\.?\s+|\.?$)((und|and|&)\s+)?)+`)

var closingRe = regexp.MustCompile(`(?i)^(` + strings.Join([]string{
	`mit\s+freundlichen\s+grüßen`,
	`mit\s+freundlichem\s+gruß`,
	`freundliche\s+grüße`,
	`freundlichen\s+gruß`,
	`liebe\s+grüße`,
	`beste\s+grüße`,
	`viele\s+grüße`,
	`herzliche\s+grüße`,
	`hochachtungsvoll`,
	`schöne\s+grüße`,
	`besten\s+gruß`,
	`kind\s+regards`,
	`best\s+regards`,
	`sincerely`,
	`yours\s+sincerely`,
	`yours\s+faithfully`,
	`regards`,
	`best\s+wishes`,
}, "|") + `)$`)

// lines returns the trimmed non-empty lines of body.
func lines(body string) []string {
	var out []string
	for _, l := range lineSplitRe.Split(body, -1) {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return out
}

// RefineName looks for a better name than current in the body of a
// letter. A personal greeting in the first lines wins, then the name line
// under a closing phrase. If neither is found current is returned.
func RefineName(current, body string) string {
	if body == "" {
		return current
	}
	ls := lines(norm.NFC.String(body))

	if name := salutationName(ls); name != "" {
		return name
	}
	if name := signatureName(ls); name != "" {
		return name
	}
	return current
}

func salutationName(ls []string) string {
	if len(ls) > salutationLines {
		ls = ls[:salutationLines]
	}
	for _, line := range ls {
		for _, re := range salutationRes {
			m := re.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if collectiveRe.MatchString(m[1]) {
				continue
			}
			name := strings.TrimSpace(honorificRe.ReplaceAllString(m[1], ""))
			if name == "" {
				continue
			}
			return titleWords(name)
		}
	}
	return ""
}

func signatureName(ls []string) string {
	for i, line := range ls {
		if !closingRe.MatchString(line) {
			continue
		}
		if i+1 >= len(ls) {
			return ""
		}
		next := ls[i+1]
		if len(strings.Fields(next)) > maxSignatureWords {
			return ""
		}
		return titleWords(next)
	}
	return ""
}
