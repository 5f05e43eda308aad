package config

import (
	"fmt"

	"github.com/go-ini/ini"

	"git.sr.ht/~hrtools/hrreject/lib/folders"
)

// ActionConfig selects the destination folder of an action.
type ActionConfig struct {
	Policy folders.Policy `ini:"-"`
}

func defaultRejectConfig() ActionConfig {
	return ActionConfig{Policy: folders.Policy{Kind: folders.Exact, Folder: "Rejected"}}
}

func defaultPoolConfig() ActionConfig {
	return ActionConfig{Policy: folders.Policy{Kind: folders.Exact, Folder: "Pool"}}
}

func (config *Config) parseActions(file *ini.File) error {
	if err := parseAction(file, "reject", &config.Reject); err != nil {
		return err
	}
	return parseAction(file, "pool", &config.Pool)
}

func parseAction(file *ini.File, name string, action *ActionConfig) error {
	sec, err := file.GetSection(name)
	if err != nil {
		return nil
	}
	p := &action.Policy
	if key, err := sec.GetKey("policy"); err == nil {
		if p.Kind, err = folders.ParseKind(key.String()); err != nil {
			return fmt.Errorf("[%s].policy: %w", name, err)
		}
	}
	if key, err := sec.GetKey("folder"); err == nil {
		p.Folder = key.String()
	}
	if key, err := sec.GetKey("parent"); err == nil {
		p.Parent = key.String()
	}
	if p.Folder == "" {
		return fmt.Errorf("[%s].folder: must not be empty", name)
	}
	if p.Kind == folders.ParentPrefix && p.Parent == "" {
		return fmt.Errorf("[%s].parent: required by the %s policy", name, p.Kind)
	}
	return nil
}
