package maildir

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/emersion/go-maildir"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/rfc822"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/handlers"
	"git.sr.ht/~hrtools/hrreject/worker/lib"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

func init() {
	handlers.RegisterBackendFactory("maildir", NewWorker)
}

var logger = log.NewLogger("maildir")

// A Worker serves a tree of maildirs.
type Worker struct {
	c        *Container
	pageSize int

	mu    sync.Mutex
	infos map[models.UID]*models.MessageInfo
}

// NewWorker opens the maildir tree the source URL points to.
func NewWorker(opts *handlers.Options) (types.Backend, error) {
	dir := lib.SourcePath(opts.Source)
	c, err := NewContainer(dir, opts.FoldersExclude)
	if err != nil {
		return nil, fmt.Errorf("could not open maildir %s: %w", dir, err)
	}
	logger.Debugf("opened %s", dir)
	return &Worker{
		c:        c,
		pageSize: opts.PageSize,
		infos:    make(map[models.UID]*models.MessageInfo),
	}, nil
}

func (w *Worker) open(uid models.UID) (io.ReadCloser, string, error) {
	loc, err := w.c.Locate(uid)
	if err != nil {
		return nil, "", err
	}
	r, err := w.c.Dir(loc.Folder).Open(loc.Key)
	if err != nil {
		return nil, "", fmt.Errorf("could not open message %d: %w", uid, err)
	}
	return r, loc.Folder, nil
}

func (w *Worker) Message(ctx context.Context, uid models.UID) (*models.MessageInfo, error) {
	w.mu.Lock()
	info, ok := w.infos[uid]
	w.mu.Unlock()
	if ok {
		return info, nil
	}
	r, folder, err := w.open(uid)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	info, err = rfc822.MessageInfo(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse message %d: %w", uid, err)
	}
	info.Uid = uid
	info.Folder = folder
	w.mu.Lock()
	w.infos[uid] = info
	w.mu.Unlock()
	return info, nil
}

func (w *Worker) FullMessage(ctx context.Context, uid models.UID) (*models.FullMessage, error) {
	r, _, err := w.open(uid)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	msg, err := rfc822.FullMessage(r)
	if err != nil {
		return nil, fmt.Errorf("could not parse message %d: %w", uid, err)
	}
	msg.Uid = uid
	return msg, nil
}

func (w *Worker) Open(ctx context.Context, uid models.UID) (io.ReadCloser, error) {
	r, _, err := w.open(uid)
	return r, err
}

func (w *Worker) QueryByMessageID(ctx context.Context, id string) ([]*models.MessageInfo, error) {
	folders, err := w.c.ListFolders()
	if err != nil {
		return nil, err
	}
	var found []*models.MessageInfo
	for _, folder := range folders {
		uids, err := w.c.UIDs(folder)
		if err != nil {
			return nil, err
		}
		for _, uid := range uids {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			info, err := w.Message(ctx, uid)
			if err != nil {
				logger.Warnf("skipping unreadable message: %v", err)
				continue
			}
			if info.MessageId == id {
				found = append(found, info)
			}
		}
	}
	return found, nil
}

func (w *Worker) ListMessages(ctx context.Context, folder string) (*models.Page, error) {
	return w.page(ctx, folder, 0)
}

func (w *Worker) ContinueList(ctx context.Context, token string) (*models.Page, error) {
	folder, offset, err := lib.DecodeToken(token)
	if err != nil {
		return nil, err
	}
	return w.page(ctx, folder, offset)
}

func (w *Worker) page(ctx context.Context, folder string, offset int) (*models.Page, error) {
	if !isMaildir(string(w.c.Dir(folder))) {
		return nil, fmt.Errorf("folder %s: %w", folder, types.ErrNotFound)
	}
	uids, err := w.c.UIDs(folder)
	if err != nil {
		return nil, err
	}
	start, end, next := lib.PageBounds(folder, len(uids), offset, w.pageSize)
	page := &models.Page{Token: next}
	for _, uid := range uids[start:end] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := w.Message(ctx, uid)
		if err != nil {
			logger.Warnf("skipping unreadable message: %v", err)
			continue
		}
		page.Messages = append(page.Messages, info)
	}
	return page, nil
}

func (w *Worker) Move(ctx context.Context, uids []models.UID, folder string) error {
	dest := w.c.Dir(folder)
	if err := dest.Init(); err != nil {
		return fmt.Errorf("could not create folder %s: %w", folder, err)
	}
	for _, uid := range uids {
		loc, err := w.c.Locate(uid)
		if err != nil {
			return err
		}
		if loc.Folder == folder {
			continue
		}
		if err := w.c.Dir(loc.Folder).Move(dest, loc.Key); err != nil {
			return fmt.Errorf("could not move message %d to %s: %w", uid, folder, err)
		}
		w.c.uids.Relocate(uid, folder, loc.Key)
		w.mu.Lock()
		if info, ok := w.infos[uid]; ok {
			moved := *info
			moved.Folder = folder
			w.infos[uid] = &moved
		}
		w.mu.Unlock()
		logger.Debugf("moved %s/%s to %s", loc.Folder, loc.Key, folder)
	}
	return nil
}

func (w *Worker) Folders(ctx context.Context) ([]*models.Folder, error) {
	names, err := w.c.ListFolders()
	if err != nil {
		return nil, err
	}
	return lib.FolderTree(names), nil
}

func (w *Worker) Append(ctx context.Context, folder string, r io.Reader) (models.UID, error) {
	dest := w.c.Dir(folder)
	if err := dest.Init(); err != nil {
		return 0, fmt.Errorf("could not create folder %s: %w", folder, err)
	}
	key, writer, err := dest.Create([]maildir.Flag{maildir.FlagSeen})
	if err != nil {
		return 0, fmt.Errorf("could not create message in %s: %w", folder, err)
	}
	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return 0, fmt.Errorf("could not write message to %s: %w", folder, err)
	}
	if err := writer.Close(); err != nil {
		return 0, err
	}
	return w.c.uids.GetOrInsert(folder, key), nil
}

func (w *Worker) Delete(ctx context.Context, uids []models.UID) error {
	for _, uid := range uids {
		loc, err := w.c.Locate(uid)
		if err != nil {
			return err
		}
		if err := w.c.Dir(loc.Folder).Remove(loc.Key); err != nil {
			return fmt.Errorf("could not remove message %d: %w", uid, err)
		}
		w.c.uids.RemoveUID(uid)
		w.mu.Lock()
		delete(w.infos, uid)
		w.mu.Unlock()
	}
	return nil
}

func (w *Worker) Lookup(ctx context.Context, path string) (models.UID, error) {
	if _, err := os.Stat(path); err != nil {
		return 0, err
	}
	folder, key, err := w.c.Resolve(path)
	if err != nil {
		return 0, err
	}
	// registers the key and moves it out of new/
	if _, err := w.c.UIDs(folder); err != nil {
		return 0, err
	}
	if _, err := w.c.Dir(folder).Filename(key); err != nil {
		return 0, fmt.Errorf("%s: %w", path, types.ErrNotFound)
	}
	return w.c.uids.GetOrInsert(folder, key), nil
}

func (w *Worker) Close() error {
	return nil
}
