package mboxer

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/pkg/errors"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/rfc822"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/handlers"
	"git.sr.ht/~hrtools/hrreject/worker/lib"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

func init() {
	handlers.RegisterBackendFactory("mbox", NewWorker)
}

var (
	logger      = log.NewLogger("mbox")
	errNotFound = types.ErrNotFound
)

type mboxWorker struct {
	data     *mailboxContainer
	pageSize int
	mu       sync.Mutex
}

// NewWorker loads the mbox files the source URL points to.
func NewWorker(opts *handlers.Options) (types.Backend, error) {
	path := lib.SourcePath(opts.Source)
	data, err := createMailboxContainer(path, opts.FoldersExclude)
	if err != nil {
		return nil, errors.Wrapf(err, "could not load mbox %s", path)
	}
	logger.Debugf("loaded %d mailboxes from %s", len(data.mailboxes), path)
	return &mboxWorker{data: data, pageSize: opts.PageSize}, nil
}

func (w *mboxWorker) info(mb *container, m *message) (*models.MessageInfo, error) {
	if m.info != nil && m.info.Folder == mb.name {
		return m.info, nil
	}
	info, err := rfc822.MessageInfo(m.NewReader())
	if err != nil {
		return nil, fmt.Errorf("could not parse message %d: %w", m.uid, err)
	}
	info.Uid = m.uid
	info.Folder = mb.name
	m.info = info
	return info, nil
}

func (w *mboxWorker) Message(ctx context.Context, uid models.UID) (*models.MessageInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mb, m, err := w.data.Message(uid)
	if err != nil {
		return nil, err
	}
	return w.info(mb, m)
}

func (w *mboxWorker) FullMessage(ctx context.Context, uid models.UID) (*models.FullMessage, error) {
	w.mu.Lock()
	_, m, err := w.data.Message(uid)
	w.mu.Unlock()
	if err != nil {
		return nil, err
	}
	full, err := rfc822.FullMessage(m.NewReader())
	if err != nil {
		return nil, fmt.Errorf("could not parse message %d: %w", uid, err)
	}
	full.Uid = uid
	return full, nil
}

func (w *mboxWorker) Open(ctx context.Context, uid models.UID) (io.ReadCloser, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, m, err := w.data.Message(uid)
	if err != nil {
		return nil, err
	}
	return m.NewReader(), nil
}

func (w *mboxWorker) QueryByMessageID(ctx context.Context, id string) ([]*models.MessageInfo, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	var found []*models.MessageInfo
	for _, name := range w.data.Names() {
		mb, _ := w.data.Mailbox(name)
		for _, m := range mb.messages {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			info, err := w.info(mb, m)
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

func (w *mboxWorker) ListMessages(ctx context.Context, folder string) (*models.Page, error) {
	return w.page(ctx, folder, 0)
}

func (w *mboxWorker) ContinueList(ctx context.Context, token string) (*models.Page, error) {
	folder, offset, err := lib.DecodeToken(token)
	if err != nil {
		return nil, err
	}
	return w.page(ctx, folder, offset)
}

func (w *mboxWorker) page(ctx context.Context, folder string, offset int) (*models.Page, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	mb, ok := w.data.Mailbox(folder)
	if !ok {
		return nil, errors.Wrapf(errNotFound, "folder %s", folder)
	}
	start, end, next := lib.PageBounds(folder, len(mb.messages), offset, w.pageSize)
	page := &models.Page{Token: next}
	for _, m := range mb.messages[start:end] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := w.info(mb, m)
		if err != nil {
			logger.Warnf("skipping unreadable message: %v", err)
			continue
		}
		page.Messages = append(page.Messages, info)
	}
	return page, nil
}

func (w *mboxWorker) Move(ctx context.Context, uids []models.UID, folder string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, existed := w.data.Mailbox(folder)
	dest := w.data.Create(folder)
	snap := newSnapshot()
	snap.save(dest)
	undo := func() {
		snap.restore(w.data)
		if !existed {
			delete(w.data.mailboxes, folder)
		}
	}
	touched := map[*container]bool{}
	for _, uid := range uids {
		src, m, err := w.data.Message(uid)
		if err != nil {
			undo()
			return err
		}
		if src == dest {
			continue
		}
		snap.save(src)
		snap.moved = append(snap.moved, movedMessage{m: m, folder: src.name, key: m.key})
		src.remove(uid)
		dest.nextKey++
		m.key = fmt.Sprint(dest.nextKey)
		dest.messages = append(dest.messages, m)
		w.data.uids.Relocate(uid, folder, m.key)
		touched[src] = true
		touched[dest] = true
	}
	// the destination goes first so a failure never loses a message
	order := make([]*container, 0, len(touched))
	if touched[dest] {
		order = append(order, dest)
	}
	for mb := range touched {
		if mb != dest {
			order = append(order, mb)
		}
	}
	for i, mb := range order {
		if err := mb.flush(); err != nil {
			undo()
			for _, done := range order[:i] {
				if done == dest && !existed {
					os.Remove(dest.filename)
					continue
				}
				if rerr := done.flush(); rerr != nil {
					logger.Errorf("could not restore %s: %v", done.filename, rerr)
				}
			}
			return errors.Wrapf(err, "could not write %s", mb.filename)
		}
	}
	return nil
}

func (w *mboxWorker) Folders(ctx context.Context) ([]*models.Folder, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return lib.FolderTree(w.data.Names()), nil
}

func (w *mboxWorker) Append(ctx context.Context, folder string, r io.Reader) (models.UID, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return 0, errors.Wrap(err, "ReadAll")
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	mb := w.data.Create(folder)
	m := mb.append(w.data.uids, content)
	if err := mb.flush(); err != nil {
		mb.remove(m.uid)
		w.data.uids.RemoveUID(m.uid)
		return 0, errors.Wrapf(err, "could not write %s", mb.filename)
	}
	return m.uid, nil
}

func (w *mboxWorker) Delete(ctx context.Context, uids []models.UID) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	touched := map[*container]bool{}
	for _, uid := range uids {
		mb, _, err := w.data.Message(uid)
		if err != nil {
			return err
		}
		mb.remove(uid)
		w.data.uids.RemoveUID(uid)
		touched[mb] = true
	}
	for mb := range touched {
		if err := mb.flush(); err != nil {
			return errors.Wrapf(err, "could not write %s", mb.filename)
		}
	}
	return nil
}

// Lookup cannot map a path to a single message: an mbox file holds many.
func (w *mboxWorker) Lookup(ctx context.Context, path string) (models.UID, error) {
	return 0, errors.Wrapf(types.ErrUnsupported, "lookup of %s", path)
}

func (w *mboxWorker) Close() error {
	return nil
}
