package worker

import (
	"net/url"
	"strings"

	"git.sr.ht/~hrtools/hrreject/worker/handlers"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// NewBackend guesses the appropriate backend type based on the given
// source string
func NewBackend(source string, pageSize int, exclude []string) (types.Backend, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}
	scheme := u.Scheme
	if i := strings.IndexRune(scheme, '+'); i >= 0 {
		scheme = scheme[:i]
	}
	return handlers.GetHandlerForScheme(scheme, &handlers.Options{
		Source:         u,
		PageSize:       pageSize,
		FoldersExclude: exclude,
	})
}
