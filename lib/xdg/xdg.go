package xdg

import (
	"os"
	"path/filepath"
)

// ConfigPath returns paths joined under the user config dir, unless they
// already form an absolute path.
func ConfigPath(paths ...string) string {
	return under(filepath.Join(paths...), "XDG_CONFIG_HOME", "~/.config")
}

// DataPath returns paths joined under the user data dir. Templates shipped
// by packagers live below it.
func DataPath(paths ...string) string {
	return under(filepath.Join(paths...), "XDG_DATA_HOME", "~/.local/share")
}

func under(res, env, fallback string) string {
	if filepath.IsAbs(res) {
		return res
	}
	base := os.Getenv(env)
	if base == "" || !filepath.IsAbs(base) {
		base = ExpandHome(fallback)
	}
	return filepath.Join(base, res)
}
