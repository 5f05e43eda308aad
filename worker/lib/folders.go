package lib

import (
	"net/url"
	"path/filepath"
	"sort"
	"strings"

	"github.com/danwakefield/fnmatch"

	"git.sr.ht/~hrtools/hrreject/lib/xdg"
	"git.sr.ht/~hrtools/hrreject/models"
)

// SourcePath returns the local path a maildir:// or mbox:// source points
// to. A host of "~" stands for the home directory.
func SourcePath(u *url.URL) string {
	if u.Host == "~" {
		return xdg.ExpandHome("~", u.Path)
	}
	return filepath.Join(u.Host, u.Path)
}

// Excluded reports whether folder matches any of the glob patterns. A
// pattern matches the full slash-separated path or the last path element.
func Excluded(folder string, patterns []string) bool {
	leaf := folder
	if i := strings.LastIndex(folder, "/"); i >= 0 {
		leaf = folder[i+1:]
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if fnmatch.Match(p, folder, 0) || fnmatch.Match(p, leaf, 0) {
			return true
		}
	}
	return false
}

// FolderTree nests slash-separated folder paths into a tree. Siblings are
// sorted by name. Intermediate paths that are not folders themselves still
// get a node so that the tree has no holes.
func FolderTree(paths []string) []*models.Folder {
	sorted := append([]string(nil), paths...)
	sort.Strings(sorted)

	var roots []*models.Folder
	nodes := make(map[string]*models.Folder)
	for _, p := range sorted {
		var parent *models.Folder
		elems := strings.Split(p, "/")
		for i, name := range elems {
			path := strings.Join(elems[:i+1], "/")
			node, ok := nodes[path]
			if !ok {
				node = &models.Folder{Name: name, Path: path}
				nodes[path] = node
				if parent == nil {
					roots = append(roots, node)
				} else {
					parent.SubFolders = append(parent.SubFolders, node)
				}
			}
			parent = node
		}
	}
	sortTree(roots)
	return roots
}

func sortTree(folders []*models.Folder) {
	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].Name < folders[j].Name
	})
	for _, f := range folders {
		sortTree(f.SubFolders)
	}
}
