package app

import (
	"context"
	"fmt"

	"git.sr.ht/~hrtools/hrreject/lib/folders"
	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/models"
)

// moveAll moves msgs into the matched folder. Messages of the destination
// account are moved in one call per account; messages of other accounts are
// copied over and deleted afterwards. The returned UIDs are valid in the
// destination account.
func moveAll(ctx context.Context, msgs []*located, dest *folders.Match) ([]models.UID, error) {
	var local []models.UID
	var moved []models.UID
	for _, m := range msgs {
		if m.acct == dest.Account {
			if m.info.Folder == dest.Folder.Path {
				log.Debugf("%q is already in %s", m.info.Subject, dest.Folder.Path)
				continue
			}
			local = append(local, m.info.Uid)
			continue
		}
		uid, err := copyAcross(ctx, m, dest)
		if err != nil {
			return moved, err
		}
		moved = append(moved, uid)
	}
	if len(local) > 0 {
		if err := dest.Account.Backend.Move(ctx, local, dest.Folder.Path); err != nil {
			return moved, fmt.Errorf("could not move to %s: %w", dest.Folder.Path, err)
		}
		moved = append(local, moved...)
	}
	return moved, nil
}

func copyAcross(ctx context.Context, m *located, dest *folders.Match) (models.UID, error) {
	r, err := m.acct.Backend.Open(ctx, m.info.Uid)
	if err != nil {
		return 0, fmt.Errorf("could not read %d from %s: %w", m.info.Uid, m.acct.Name, err)
	}
	defer r.Close()
	uid, err := dest.Account.Backend.Append(ctx, dest.Folder.Path, r)
	if err != nil {
		return 0, fmt.Errorf("could not copy to %s:%s: %w",
			dest.Account.Name, dest.Folder.Path, err)
	}
	if err := m.acct.Backend.Delete(ctx, []models.UID{m.info.Uid}); err != nil {
		return uid, fmt.Errorf("copied to %s but could not delete from %s: %w",
			dest.Account.Name, m.acct.Name, err)
	}
	log.Debugf("copied %d from %s to %s:%s", m.info.Uid, m.acct.Name,
		dest.Account.Name, dest.Folder.Path)
	return uid, nil
}
