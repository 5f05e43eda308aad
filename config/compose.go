package config

import (
	"fmt"
	"net/mail"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"

	"git.sr.ht/~hrtools/hrreject/lib/templates"
	"git.sr.ht/~hrtools/hrreject/lib/xdg"
)

type ComposeConfig struct {
	From         string   `ini:"from"`
	Drafts       string   `ini:"drafts"`
	Editor       string   `ini:"editor"`
	Template     string   `ini:"template"`
	TemplateDirs []string `ini:"template-dirs" delim:":"`
	DateFormat   string   `ini:"date-format"`
}

func defaultComposeConfig() ComposeConfig {
	return ComposeConfig{
		Drafts:     "Drafts",
		Template:   templates.DefaultName,
		DateFormat: templates.DefaultDateFormat,
	}
}

// defaultTemplateDirs are searched after the configured ones.
func defaultTemplateDirs() []string {
	return []string{
		xdg.ConfigPath("hrreject", "templates"),
		xdg.DataPath("hrreject", "templates"),
		"/usr/local/share/hrreject/templates",
		"/usr/share/hrreject/templates",
	}
}

func (config *Config) parseCompose(file *ini.File) error {
	if compose, err := file.GetSection("compose"); err == nil {
		if err := compose.MapTo(&config.Compose); err != nil {
			return err
		}
	}
	c := &config.Compose
	if c.From != "" {
		if _, err := mail.ParseAddress(c.From); err != nil {
			return fmt.Errorf("[compose].from: %w", err)
		}
	}
	if strings.TrimSpace(c.Drafts) == "" {
		return fmt.Errorf("[compose].drafts: must not be empty")
	}
	if c.DateFormat == "" {
		c.DateFormat = templates.DefaultDateFormat
	}
	var dirs []string
	for _, dir := range c.TemplateDirs {
		if dir = strings.TrimSpace(dir); dir != "" {
			dirs = append(dirs, filepath.Clean(xdg.ExpandHome(dir)))
		}
	}
	c.TemplateDirs = append(dirs, defaultTemplateDirs()...)
	if err := templates.CheckTemplate(c.Template, c.TemplateDirs); err != nil {
		return fmt.Errorf("[compose].template: %w", err)
	}
	return nil
}
