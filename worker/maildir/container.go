package maildir

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/emersion/go-maildir"

	"git.sr.ht/~hrtools/hrreject/lib/uidstore"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/lib"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// A Container is a directory which contains other directories which adhere to
// the Maildir spec
type Container struct {
	dir     string
	exclude []string
	uids    *uidstore.Store
}

// NewContainer creates a new container at the specified directory
func NewContainer(dir string, exclude []string) (*Container, error) {
	fi, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}
	return &Container{dir: dir, exclude: exclude, uids: uidstore.NewStore()}, nil
}

// ListFolders returns the slash separated names of the maildirs below the
// container root, minus the excluded ones.
func (c *Container) ListFolders() ([]string, error) {
	var folders []string
	err := filepath.Walk(c.dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		n := info.Name()
		if n == "new" || n == "tmp" || n == "cur" {
			return filepath.SkipDir
		}
		rel, err := filepath.Rel(c.dir, path)
		if err != nil {
			return err
		}
		if rel == "." || !isMaildir(path) {
			return nil
		}
		name := filepath.ToSlash(rel)
		if !lib.Excluded(name, c.exclude) {
			folders = append(folders, name)
		}
		return nil
	})
	return folders, err
}

func isMaildir(path string) bool {
	for _, sub := range []string{"cur", "new", "tmp"} {
		fi, err := os.Stat(filepath.Join(path, sub))
		if err != nil || !fi.IsDir() {
			return false
		}
	}
	return true
}

// Dir returns a maildir.Dir with the specified name inside the container
func (c *Container) Dir(name string) maildir.Dir {
	return maildir.Dir(filepath.Join(c.dir, filepath.FromSlash(name)))
}

// UIDs moves new messages of folder into cur and returns the UIDs of all
// its messages, sorted by key.
func (c *Container) UIDs(folder string) ([]models.UID, error) {
	d := c.Dir(folder)
	if _, err := d.Unseen(); err != nil {
		return nil, fmt.Errorf("could not sync %s: %w", folder, err)
	}
	keys, err := d.Keys()
	if err != nil {
		return nil, fmt.Errorf("could not get keys for %s: %w", folder, err)
	}
	sort.Strings(keys)
	uids := make([]models.UID, 0, len(keys))
	for _, key := range keys {
		uids = append(uids, c.uids.GetOrInsert(folder, key))
	}
	return uids, nil
}

// Locate returns the folder and key of uid.
func (c *Container) Locate(uid models.UID) (uidstore.Location, error) {
	loc, ok := c.uids.Get(uid)
	if !ok {
		return loc, fmt.Errorf("uid %d: %w", uid, types.ErrNotFound)
	}
	return loc, nil
}

// Resolve maps a message file path to its folder and key.
func (c *Container) Resolve(path string) (folder, key string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}
	root, err := filepath.Abs(c.dir)
	if err != nil {
		return "", "", err
	}
	sub := filepath.Dir(abs)
	if b := filepath.Base(sub); b != "cur" && b != "new" {
		return "", "", fmt.Errorf("%s is not inside a maildir", path)
	}
	rel, err := filepath.Rel(root, filepath.Dir(sub))
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", "", fmt.Errorf("%s is outside of %s", path, c.dir)
	}
	key, _, _ = strings.Cut(filepath.Base(abs), ":")
	return filepath.ToSlash(rel), key, nil
}
