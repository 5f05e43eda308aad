// Package iterator turns a host's paginated folder listing into a lazy
// sequence of pages.
package iterator

import (
	"context"

	"git.sr.ht/~hrtools/hrreject/models"
)

// FirstFunc fetches the first page of a listing.
type FirstFunc func(ctx context.Context) (*models.Page, error)

// ContinueFunc fetches the page following the one that carried token.
type ContinueFunc func(ctx context.Context, token string) (*models.Page, error)

// Pages walks a paginated listing one page at a time. If Next() returns true,
// the current page can be read with Page(). A page is only requested when
// Next() is called, and no page is requested after one with an empty
// continuation token. Pages is not restartable.
//
//	pages := iterator.NewPages(first, cont)
//	for pages.Next(ctx) {
//		for _, msg := range pages.Page().Messages { ... }
//	}
//	if err := pages.Err(); err != nil { ... }
type Pages struct {
	first   FirstFunc
	cont    ContinueFunc
	current *models.Page
	started bool
	done    bool
	err     error
	count   int
}

func NewPages(first FirstFunc, cont ContinueFunc) *Pages {
	return &Pages{first: first, cont: cont}
}

// Next fetches the next page. It returns false when the listing is exhausted,
// when ctx is done or when fetching failed; Err() tells these apart.
func (p *Pages) Next(ctx context.Context) bool {
	if p.done {
		return false
	}
	if err := ctx.Err(); err != nil {
		return p.fail(err)
	}

	var page *models.Page
	var err error
	switch {
	case !p.started:
		p.started = true
		page, err = p.first(ctx)
	case p.current == nil || p.current.Token == "":
		p.done = true
		p.current = nil
		return false
	default:
		page, err = p.cont(ctx, p.current.Token)
	}
	if err != nil {
		return p.fail(err)
	}
	if page == nil {
		p.done = true
		p.current = nil
		return false
	}
	p.current = page
	p.count++
	return true
}

func (p *Pages) fail(err error) bool {
	p.err = err
	p.done = true
	p.current = nil
	return false
}

// Page returns the page fetched by the last successful Next().
func (p *Pages) Page() *models.Page {
	return p.current
}

// Err returns the error that stopped the iteration, if any.
func (p *Pages) Err() error {
	return p.err
}

// Fetched returns how many pages have been requested so far.
func (p *Pages) Fetched() int {
	return p.count
}
