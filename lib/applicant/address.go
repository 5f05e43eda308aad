package applicant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	bracketAddrRe = regexp.MustCompile(`<([^>]+)>`)
	bareAddrRe    = regexp.MustCompile(`[^@\s]+@[^@\s]+`)
	localSepRe    = regexp.MustCompile(`[._-]+`)
)

// ParseNameEmail splits a raw From header value into a display name and an
// address. It is deliberately forgiving: it never fails, and values that
// net/mail would reject still yield whatever can be recognized. When there
// is an address but no name, a name is made up from the local part.
func ParseNameEmail(from string) (name, email string) {
	if m := bracketAddrRe.FindStringSubmatch(from); m != nil {
		email = strings.TrimSpace(m[1])
		name = strings.Replace(from, m[0], "", 1)
		name = strings.TrimSpace(strings.ReplaceAll(name, `"`, ""))
	} else if addr := bareAddrRe.FindString(from); addr != "" {
		email = addr
		name = strings.Replace(from, addr, "", 1)
		name = strings.Map(func(r rune) rune {
			switch r {
			case '"', '<', '>':
				return -1
			}
			return r
		}, name)
		name = strings.TrimSpace(name)
	}

	if name == "" && email != "" {
		name = nameFromLocalPart(email)
	}
	return name, email
}

// nameFromLocalPart turns jane.doe_smith@x.com into "Jane Doe Smith".
func nameFromLocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return titleWords(localSepRe.ReplaceAllString(local, " "))
}

// titleWords upper-cases the first letter of every whitespace separated word
// and joins the words with single spaces. The rest of each word is kept as
// is, "McDonald" stays "McDonald".
func titleWords(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if r == utf8.RuneError && size == 1 {
			continue
		}
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
