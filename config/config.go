package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode"

	"github.com/go-ini/ini"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/xdg"
)

type Config struct {
	General  GeneralConfig
	Compose  ComposeConfig
	Reject   ActionConfig
	Pool     ActionConfig
	Accounts []AccountConfig
}

// Input: LogFile
// Output: log-file
func mapName(raw string) string {
	newstr := make([]rune, 0, len(raw))
	for i, chr := range raw {
		if isUpper := 'A' <= chr && chr <= 'Z'; isUpper {
			if i > 0 {
				newstr = append(newstr, '-')
			}
		}
		newstr = append(newstr, unicode.ToLower(chr))
	}
	return string(newstr)
}

func loadIni(filename string) (*ini.File, error) {
	file, err := ini.LoadSources(ini.LoadOptions{
		KeyValueDelimiters: "=",
	}, filename)
	if err != nil {
		return nil, err
	}
	file.NameMapper = mapName
	return file, nil
}

// DefaultRoot is the directory configuration files are read from when no
// other is given.
func DefaultRoot() string {
	return xdg.ConfigPath("hrreject")
}

// LoadConfigFromFile reads hrreject.conf and accounts.conf from root. A
// missing hrreject.conf leaves every setting at its default. When accts is
// not empty, only the named accounts are loaded, in the order of the file.
func LoadConfigFromFile(root *string, accts []string) (*Config, error) {
	if root == nil {
		_root := DefaultRoot()
		root = &_root
	}
	config := &Config{
		General: defaultGeneralConfig(),
		Compose: defaultComposeConfig(),
		Reject:  defaultRejectConfig(),
		Pool:    defaultPoolConfig(),
	}

	filename := filepath.Join(*root, "hrreject.conf")
	file, err := loadIni(filename)
	switch {
	case errors.Is(err, os.ErrNotExist):
		file = ini.Empty()
	case err != nil:
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := config.parseGeneral(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := config.parseCompose(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	if err := config.parseActions(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}

	filename = filepath.Join(*root, "accounts.conf")
	config.Accounts, err = loadAccountConfig(filename, accts, config.Compose.Drafts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	log.Debugf("loaded %d accounts from %s", len(config.Accounts), *root)
	return config, nil
}
