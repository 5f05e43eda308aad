// Package folders locates the destination folder of a processed
// application across all configured accounts.
package folders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

type Kind int

const (
	// Exact matches folders by name.
	Exact Kind = iota
	// ParentPrefix also requires the name of the direct parent folder to
	// start with a given prefix.
	ParentPrefix
)

func (k Kind) String() string {
	switch k {
	case Exact:
		return "exact"
	case ParentPrefix:
		return "parent-prefix"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exact":
		return Exact, nil
	case "parent-prefix":
		return ParentPrefix, nil
	}
	return Exact, fmt.Errorf("unknown folder policy %q", s)
}

type Policy struct {
	Kind   Kind
	Folder string
	Parent string
}

func (p Policy) String() string {
	if p.Kind == ParentPrefix {
		return fmt.Sprintf("%s below %s*", p.Folder, p.Parent)
	}
	return p.Folder
}

// Matches reports whether folder, found directly below parent (nil at the
// top level), satisfies the policy. Names compare case-sensitively.
func (p Policy) Matches(folder, parent *models.Folder) bool {
	if folder.Name != p.Folder {
		return false
	}
	switch p.Kind {
	case ParentPrefix:
		return parent != nil && strings.HasPrefix(parent.Name, p.Parent)
	default:
		return true
	}
}

// Match is a folder found by Find.
type Match struct {
	Account *types.Account
	Folder  *models.Folder
}

// Find walks accounts in order and each folder tree depth-first, parents
// before children, earlier siblings first. The first matching folder wins.
// A nil Match without error means no folder matched.
func Find(ctx context.Context, accounts []*types.Account, p Policy) (*Match, error) {
	for _, acct := range accounts {
		tree, err := acct.Backend.Folders(ctx)
		if err != nil {
			return nil, fmt.Errorf("%s: could not list folders: %w", acct.Name, err)
		}
		if f := find(tree, nil, p); f != nil {
			log.Debugf("folder %q matches %q in account %s", f.Path, p, acct.Name)
			return &Match{Account: acct, Folder: f}, nil
		}
	}
	return nil, nil
}

func find(folders []*models.Folder, parent *models.Folder, p Policy) *models.Folder {
	for _, f := range folders {
		if p.Matches(f, parent) {
			return f
		}
		if sub := find(f.SubFolders, f, p); sub != nil {
			return sub
		}
	}
	return nil
}

// Suggest returns the paths of the folders whose names are closest to the
// policy folder name, best first, at most limit of them.
func Suggest(ctx context.Context, accounts []*types.Account, p Policy, limit int) []string {
	var paths, names []string
	for _, acct := range accounts {
		tree, err := acct.Backend.Folders(ctx)
		if err != nil {
			log.Warnf("%s: could not list folders: %v", acct.Name, err)
			continue
		}
		walk(tree, func(f *models.Folder) {
			paths = append(paths, acct.Name+":"+f.Path)
			names = append(names, f.Name)
		})
	}
	ranks := fuzzy.RankFindNormalizedFold(p.Folder, names)
	sort.Stable(ranks)
	var res []string
	for _, r := range ranks {
		if len(res) == limit {
			break
		}
		res = append(res, paths[r.OriginalIndex])
	}
	return res
}

func walk(folders []*models.Folder, fn func(*models.Folder)) {
	for _, f := range folders {
		fn(f)
		walk(f.SubFolders, fn)
	}
}
