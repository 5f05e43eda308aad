package xdg

import (
	"os"
	"os/user"
	"path"
	"strings"

	"git.sr.ht/~hrtools/hrreject/lib/log"
)

// swapped in tests
var currentUser = user.Current

// HomeDir returns $HOME, or the passwd entry of the current user when $HOME
// is unset.
func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		u, e := currentUser()
		if e == nil {
			home = u.HomeDir
		} else {
			log.Errorf("home directory: %s (while handling %s)", e, err)
		}
	}
	return home
}

// ExpandHome joins fragments and replaces a leading ~ with the home dir.
func ExpandHome(fragments ...string) string {
	res := path.Join(fragments...)
	if res == "~" || strings.HasPrefix(res, "~/") {
		res = HomeDir() + strings.TrimPrefix(res, "~")
	}
	return res
}
