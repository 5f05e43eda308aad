package config

import (
	"fmt"
	"net/url"
	"strings"
)

type AccountConfig struct {
	Name           string
	Source         string
	FoldersExclude []string
	Drafts         string
}

func loadAccountConfig(filename string, accts []string, drafts string) ([]AccountConfig, error) {
	file, err := loadIni(filename)
	if err != nil {
		return nil, err
	}

	var accounts []AccountConfig
	for _, _sec := range file.SectionStrings() {
		if _sec == "DEFAULT" {
			continue
		}
		if len(accts) > 0 && !contains(accts, _sec) {
			continue
		}
		sec := file.Section(_sec)
		account := AccountConfig{Name: _sec, Drafts: drafts}
		for key, val := range sec.KeysHash() {
			switch key {
			case "source":
				account.Source = strings.TrimSpace(val)
			case "folders-exclude":
				for _, f := range strings.Split(val, ",") {
					if f = strings.TrimSpace(f); f != "" {
						account.FoldersExclude = append(account.FoldersExclude, f)
					}
				}
			case "drafts":
				account.Drafts = strings.TrimSpace(val)
			default:
				return nil, fmt.Errorf("[%s].%s: unknown key", _sec, key)
			}
		}
		if account.Source == "" {
			return nil, fmt.Errorf("[%s].source: required", _sec)
		}
		u, err := url.Parse(account.Source)
		if err != nil {
			return nil, fmt.Errorf("[%s].source: %w", _sec, err)
		}
		if u.Scheme == "" {
			return nil, fmt.Errorf("[%s].source: missing scheme in %q", _sec, account.Source)
		}
		if account.Drafts == "" {
			return nil, fmt.Errorf("[%s].drafts: must not be empty", _sec)
		}
		accounts = append(accounts, account)
	}
	for _, name := range accts {
		if !hasAccount(accounts, name) {
			return nil, fmt.Errorf("no account named %q", name)
		}
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("no accounts configured")
	}
	return accounts, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func hasAccount(accounts []AccountConfig, name string) bool {
	for _, a := range accounts {
		if a.Name == name {
			return true
		}
	}
	return false
}
