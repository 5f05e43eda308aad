package templates

import (
	"bytes"
	"os/exec"
	"strings"
	"text/template"
	"time"

	"github.com/riywo/loginshell"

	"git.sr.ht/~hrtools/hrreject/lib/log"
)

// wrap allows to chain wrapText
func wrap(lineWidth int, text string) string {
	return wrapText(text, lineWidth)
}

func wrapLine(text string, lineWidth int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}
	var wrapped strings.Builder
	wrapped.WriteString(words[0])
	spaceLeft := lineWidth - len([]rune(words[0]))
	for _, word := range words[1:] {
		n := len([]rune(word))
		if n+1 > spaceLeft {
			wrapped.WriteRune('\n')
			wrapped.WriteString(word)
			spaceLeft = lineWidth - n
		} else {
			wrapped.WriteRune(' ')
			wrapped.WriteString(word)
			spaceLeft -= 1 + n
		}
	}
	return wrapped.String()
}

func wrapText(text string, lineWidth int) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.TrimRight(text, "\n")
	lines := strings.Split(text, "\n")
	var wrapped strings.Builder
	for _, line := range lines {
		if line != "" {
			wrapped.WriteString(wrapLine(line, lineWidth))
		}
		wrapped.WriteRune('\n')
	}
	return wrapped.String()
}

var shell = func() string {
	sh, err := loginshell.Shell()
	if err != nil || sh == "" {
		log.Debugf("no login shell (%v), using sh", err)
		return "sh"
	}
	return sh
}

// cmd pipes text through a shell command. The text is returned unchanged
// when the command fails.
func cmd(cmd, text string) string {
	var out bytes.Buffer
	c := exec.Command(shell(), "-c", cmd)
	c.Stdin = strings.NewReader(text)
	c.Stdout = &out
	if err := c.Run(); err != nil {
		log.Warnf("template exec %q: %v", cmd, err)
		return text
	}
	return out.String()
}

func toLocal(t time.Time) time.Time {
	return time.Time.In(t, time.Local)
}

var templateFuncs = template.FuncMap{
	"wrap":       wrap,
	"dateFormat": time.Time.Format,
	"toLocal":    toLocal,
	"exec":       cmd,
}
