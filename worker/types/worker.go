package types

import (
	"context"
	"errors"
	"io"

	"git.sr.ht/~hrtools/hrreject/models"
)

// ErrNotFound is returned for UIDs, folders and tokens a backend does not
// know.
var ErrNotFound = errors.New("not found")

// ErrUnsupported is returned by backends for operations their store format
// cannot express.
var ErrUnsupported = errors.New("unsupported by backend")

// Backend is a mail store the tool runs against. All methods are called
// from a single goroutine per invocation.
type Backend interface {
	// Message returns the envelope of uid.
	Message(ctx context.Context, uid models.UID) (*models.MessageInfo, error)
	// FullMessage returns all headers and the body tree of uid.
	FullMessage(ctx context.Context, uid models.UID) (*models.FullMessage, error)
	// QueryByMessageID returns the messages whose Message-ID equals id,
	// in scan order.
	QueryByMessageID(ctx context.Context, id string) ([]*models.MessageInfo, error)
	// ListMessages returns the first page of folder.
	ListMessages(ctx context.Context, folder string) (*models.Page, error)
	// ContinueList returns the page after the one that carried token.
	ContinueList(ctx context.Context, token string) (*models.Page, error)
	// Move moves uids to folder. The UIDs stay valid.
	Move(ctx context.Context, uids []models.UID, folder string) error
	// Folders returns the folder tree.
	Folders(ctx context.Context) ([]*models.Folder, error)
	// Open returns the raw RFC 5322 message.
	Open(ctx context.Context, uid models.UID) (io.ReadCloser, error)
	// Append stores a raw message in folder, creating the folder if
	// needed.
	Append(ctx context.Context, folder string, r io.Reader) (models.UID, error)
	Delete(ctx context.Context, uids []models.UID) error
	// Lookup maps a file system path to the UID of the message stored
	// there.
	Lookup(ctx context.Context, path string) (models.UID, error)
	Close() error
}

// Account is one configured mail store.
type Account struct {
	Name    string
	Drafts  string
	Backend Backend
}
