package templates

import (
	"bytes"
	_ "embed"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"git.sr.ht/~hrtools/hrreject/lib/xdg"
	"git.sr.ht/~hrtools/hrreject/models"
)

// DefaultName is the name of the built-in rejection letter.
const DefaultName = "rejection"

//go:embed rejection
var defaultTemplate string

// Body is a rendered letter.
type Body struct {
	PlainText string
	HTML      string
}

func findTemplate(name string, dirs []string) (string, error) {
	for _, dir := range dirs {
		file := xdg.ExpandHome(dir, name)
		if _, err := os.Stat(file); err == nil {
			return file, nil
		}
	}
	return "", fmt.Errorf("can't find template %q in any of %v", name, dirs)
}

func load(name string, dirs []string) (*template.Template, error) {
	if name == "" {
		name = DefaultName
	}
	file, err := findTemplate(name, dirs)
	if err != nil {
		if name != DefaultName {
			return nil, err
		}
		return template.New(name).Funcs(templateFuncs).Parse(defaultTemplate)
	}
	return template.New(filepath.Base(file)).Funcs(templateFuncs).ParseFiles(file)
}

// Render executes the named template, looked up in dirs. The built-in
// letter is used for DefaultName unless one of the dirs overrides it.
func Render(name string, dirs []string, data models.TemplateData) (*Body, error) {
	tmpl, err := load(name, dirs)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, err
	}
	text := strings.TrimSpace(strings.ReplaceAll(buf.String(), "\r\n", "\n"))
	return &Body{
		PlainText: text,
		HTML:      TextToHTML(text),
	}, nil
}

// TextToHTML escapes text and turns its line breaks into <br> tags.
func TextToHTML(text string) string {
	return strings.ReplaceAll(html.EscapeString(text), "\n", "<br>")
}

// CheckTemplate renders the named template with dummy data.
func CheckTemplate(name string, dirs []string) error {
	_, err := Render(name, dirs, DummyData())
	return err
}

// ReplySubject is the subject of the rejection of an application.
func ReplySubject(data models.TemplateData) string {
	return "Re: " + data.Subject()
}
