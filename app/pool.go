package app

import (
	"context"
	"errors"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// located is a message together with the account holding it.
type located struct {
	acct *types.Account
	info *models.MessageInfo
}

// accountPool lets the thread resolver look up message ids in every
// account while listing only the folder of the reply. It remembers which
// account each returned message came from.
type accountPool struct {
	accounts []*types.Account
	home     *types.Account
	owners   map[models.UID]*types.Account
}

func newAccountPool(accounts []*types.Account, home *types.Account) *accountPool {
	return &accountPool{
		accounts: accounts,
		home:     home,
		owners:   make(map[models.UID]*types.Account),
	}
}

// QueryByMessageID searches the home account first, then the others in
// configuration order. Results of the first account with a match are
// returned.
func (p *accountPool) QueryByMessageID(ctx context.Context, id string) ([]*models.MessageInfo, error) {
	ordered := append([]*types.Account{p.home}, p.accounts...)
	seen := make(map[*types.Account]bool)
	for _, acct := range ordered {
		if seen[acct] {
			continue
		}
		seen[acct] = true
		found, err := acct.Backend.QueryByMessageID(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(found) > 0 {
			p.remember(acct, found)
			return found, nil
		}
	}
	return nil, nil
}

func (p *accountPool) ListMessages(ctx context.Context, folder string) (*models.Page, error) {
	page, err := p.home.Backend.ListMessages(ctx, folder)
	if page != nil {
		p.remember(p.home, page.Messages)
	}
	return page, err
}

func (p *accountPool) ContinueList(ctx context.Context, token string) (*models.Page, error) {
	page, err := p.home.Backend.ContinueList(ctx, token)
	if page != nil {
		p.remember(p.home, page.Messages)
	}
	return page, err
}

func (p *accountPool) remember(acct *types.Account, infos []*models.MessageInfo) {
	for _, info := range infos {
		p.owners[info.Uid] = acct
	}
}

func (p *accountPool) owner(uid models.UID) *types.Account {
	return p.owners[uid]
}

// selectMessage finds the message sel refers to.
func selectMessage(ctx context.Context, accounts []*types.Account, sel Selection) (*located, error) {
	for _, acct := range accounts {
		var uid models.UID
		var err error
		switch {
		case sel.Path != "":
			uid, err = acct.Backend.Lookup(ctx, sel.Path)
			if err != nil {
				log.Debugf("%s: %s: %v", acct.Name, sel.Path, err)
				continue
			}
		case sel.MessageID != "":
			found, err := acct.Backend.QueryByMessageID(ctx, sel.MessageID)
			if err != nil {
				return nil, err
			}
			if len(found) == 0 {
				continue
			}
			uid = found[0].Uid
		default:
			return nil, nil
		}
		info, err := acct.Backend.Message(ctx, uid)
		if errors.Is(err, types.ErrNotFound) {
			continue
		} else if err != nil {
			return nil, err
		}
		return &located{acct: acct, info: info}, nil
	}
	return nil, nil
}
