package mboxer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/handlers"
	"git.sr.ht/~hrtools/hrreject/worker/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawMessage(id, subject string) []byte {
	return []byte(fmt.Sprintf("From: Erika Musterfrau <erika@example.com>\n"+
		"Message-ID: <%s>\n"+
		"Subject: %s\n"+
		"Date: Tue, 07 Mar 2023 09:30:00 +0100\n"+
		"\n"+
		"Sehr geehrte Damen und Herren,\n", id, subject))
}

func writeMbox(t *testing.T, path string, messages ...[]byte) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, messages))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
}

func newTestWorker(t *testing.T, root string, pageSize int) *mboxWorker {
	t.Helper()
	b, err := handlers.GetHandlerForScheme("mbox", &handlers.Options{
		Source:   &url.URL{Scheme: "mbox", Path: root},
		PageSize: pageSize,
	})
	require.NoError(t, err)
	return b.(*mboxWorker)
}

func TestReadWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, [][]byte{rawMessage("a@x", "one"), rawMessage("b@x", "two")})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "From erika@example.com "))

	messages, err := Read(&buf)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Contains(t, string(messages[1]), "Message-ID: <b@x>")
}

func TestListAndQuery(t *testing.T) {
	root := t.TempDir()
	writeMbox(t, filepath.Join(root, "INBOX.mbox"),
		rawMessage("a@x", "Re: Bewerbung"), rawMessage("b@x", "Hallo"),
		rawMessage("c@x", "Bewerbung"))
	writeMbox(t, filepath.Join(root, "Jobs", "Rejected.mbox"))
	w := newTestWorker(t, root, 2)
	ctx := context.Background()

	folders, err := w.Folders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "INBOX", folders[0].Name)
	assert.Equal(t, "Jobs/Rejected", folders[1].SubFolders[0].Path)

	page, err := w.ListMessages(ctx, "INBOX")
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "Re: Bewerbung", page.Messages[0].Subject)
	page, err = w.ContinueList(ctx, page.Token)
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Empty(t, page.Token)

	found, err := w.QueryByMessageID(ctx, "c@x")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "INBOX", found[0].Folder)

	_, err = w.ListMessages(ctx, "Missing")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestMoveRewritesFiles(t *testing.T) {
	root := t.TempDir()
	inbox := filepath.Join(root, "INBOX.mbox")
	writeMbox(t, inbox, rawMessage("a@x", "one"), rawMessage("b@x", "two"))
	w := newTestWorker(t, root, 10)
	ctx := context.Background()

	found, err := w.QueryByMessageID(ctx, "a@x")
	require.NoError(t, err)
	require.Len(t, found, 1)
	uid := found[0].Uid

	require.NoError(t, w.Move(ctx, []models.UID{uid}, "Jobs/Pool"))
	info, err := w.Message(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "Jobs/Pool", info.Folder)

	// a fresh load sees the same state
	reloaded := newTestWorker(t, root, 10)
	page, err := reloaded.ListMessages(ctx, "INBOX")
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "b@x", page.Messages[0].MessageId)
	page, err = reloaded.ListMessages(ctx, "Jobs/Pool")
	require.NoError(t, err)
	require.Len(t, page.Messages, 1)
	assert.Equal(t, "a@x", page.Messages[0].MessageId)
}

func TestMoveFailureKeepsState(t *testing.T) {
	root := t.TempDir()
	writeMbox(t, filepath.Join(root, "INBOX.mbox"),
		rawMessage("a@x", "one"), rawMessage("b@x", "two"))
	// a directory where the destination file would go makes the write fail
	require.NoError(t, os.Mkdir(filepath.Join(root, "Rejected.mbox"), 0o700))
	w := newTestWorker(t, root, 10)
	ctx := context.Background()

	found, err := w.QueryByMessageID(ctx, "a@x")
	require.NoError(t, err)
	require.Len(t, found, 1)
	uid := found[0].Uid

	require.Error(t, w.Move(ctx, []models.UID{uid}, "Rejected"))

	info, err := w.Message(ctx, uid)
	require.NoError(t, err)
	assert.Equal(t, "INBOX", info.Folder)
	page, err := w.ListMessages(ctx, "INBOX")
	require.NoError(t, err)
	require.Len(t, page.Messages, 2)
	assert.Equal(t, "a@x", page.Messages[0].MessageId)

	folders, err := w.Folders(ctx)
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "INBOX", folders[0].Name)

	reloaded := newTestWorker(t, root, 10)
	page, err = reloaded.ListMessages(ctx, "INBOX")
	require.NoError(t, err)
	assert.Len(t, page.Messages, 2)
}

func TestAppendDeleteLookup(t *testing.T) {
	root := t.TempDir()
	writeMbox(t, filepath.Join(root, "INBOX.mbox"), rawMessage("a@x", "one"))
	w := newTestWorker(t, root, 10)
	ctx := context.Background()

	uid, err := w.Append(ctx, "Drafts", bytes.NewReader(rawMessage("d@x", "Re: one")))
	require.NoError(t, err)
	r, err := w.Open(ctx, uid)
	require.NoError(t, err)
	data, _ := io.ReadAll(r)
	assert.Contains(t, string(data), "Message-ID: <d@x>")
	_, err = os.Stat(filepath.Join(root, "Drafts.mbox"))
	require.NoError(t, err)

	require.NoError(t, w.Delete(ctx, []models.UID{uid}))
	_, err = w.Message(ctx, uid)
	assert.ErrorIs(t, err, types.ErrNotFound)

	_, err = w.Lookup(ctx, filepath.Join(root, "INBOX.mbox"))
	assert.ErrorIs(t, err, types.ErrUnsupported)
}

func TestSingleFileSource(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "jobs.mbox")
	writeMbox(t, path, rawMessage("a@x", "one"))
	w := newTestWorker(t, path, 10)
	folders, err := w.Folders(context.Background())
	require.NoError(t, err)
	require.Len(t, folders, 1)
	assert.Equal(t, "jobs", folders[0].Name)
}
