package app_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/emersion/go-mbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~hrtools/hrreject/app"
	"git.sr.ht/~hrtools/hrreject/lib/folders"
	"git.sr.ht/~hrtools/hrreject/worker"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

const application = "From: Max Mustermann <max.mustermann@example.com>\r\n" +
	"To: jobs@example.com\r\n" +
	"Message-ID: <app@example.com>\r\n" +
	"Subject: Bewerbung als Backend Developer\r\n" +
	"Date: Mon, 06 Mar 2023 10:00:00 +0100\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"Sehr geehrte Damen und Herren,\r\n" +
	"\r\n" +
	"hiermit bewerbe ich mich als Backend Developer.\r\n" +
	"\r\n" +
	"Mit freundlichen Grüßen\r\n" +
	"Max Mustermann\r\n"

const forward = "From: Chefin <boss@example.com>\r\n" +
	"To: hr@example.com\r\n" +
	"Message-ID: <boss@example.com>\r\n" +
	"In-Reply-To: <app@example.com>\r\n" +
	"References: <app@example.com>\r\n" +
	"Subject: AW: Bewerbung als Backend Developer\r\n" +
	"Date: Tue, 07 Mar 2023 08:00:00 +0100\r\n" +
	"\r\n" +
	"Bitte absagen.\r\n"

const orphan = "From: Chefin <boss@example.com>\r\n" +
	"Message-ID: <orphan@example.com>\r\n" +
	"Subject: Fwd: Initiativbewerbung\r\n" +
	"\r\n" +
	"Bitte absagen.\r\n"

func mkMaildir(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, f := range names {
		for _, sub := range []string{"cur", "new", "tmp"} {
			require.NoError(t, os.MkdirAll(filepath.Join(root, f, sub), 0o700))
		}
	}
}

func deliver(t *testing.T, root, folder, key, content string) string {
	t.Helper()
	path := filepath.Join(root, folder, "cur", key+":2,S")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func count(t *testing.T, root, folder string) int {
	t.Helper()
	entries, err := os.ReadDir(filepath.Join(root, folder, "cur"))
	require.NoError(t, err)
	return len(entries)
}

func account(t *testing.T, name, source string) *types.Account {
	t.Helper()
	b, err := worker.NewBackend(source, 10, nil)
	require.NoError(t, err)
	return &types.Account{Name: name, Drafts: "Drafts", Backend: b}
}

func setup(t *testing.T) (string, *types.Account) {
	t.Helper()
	root := t.TempDir()
	mkMaildir(t, root, "INBOX", "Drafts", "Bewerbungen", "Bewerbungen/Rejected",
		"Bewerbungen/Pool", "Archive/Pool")
	deliver(t, root, "INBOX", "1000.app", application)
	deliver(t, root, "INBOX", "1001.boss", forward)
	return root, account(t, "work", "maildir://"+root)
}

var opts = app.Options{}

func TestRejectByMessageID(t *testing.T) {
	root, acct := setup(t)
	a := app.New([]*types.Account{acct}, app.Options{})
	ctx := context.Background()

	res, err := a.Run(ctx,
		app.Reject(folders.Policy{Kind: folders.Exact, Folder: "Rejected"}),
		app.Selection{MessageID: "boss@example.com"})
	require.NoError(t, err)

	require.NotNil(t, res.Original)
	assert.Equal(t, "app@example.com", res.Original.MessageId)
	require.NotNil(t, res.Applicant)
	assert.Equal(t, "Max Mustermann", res.Applicant.Name)
	assert.Equal(t, "max.mustermann@example.com", res.Applicant.Email)
	assert.Equal(t, "Backend Developer", res.Applicant.Position)
	assert.NotZero(t, res.Draft)
	require.NotNil(t, res.Destination)
	assert.Equal(t, "Bewerbungen/Rejected", res.Destination.Folder.Path)
	assert.Len(t, res.Moved, 2)

	assert.Equal(t, 0, count(t, root, "INBOX"))
	assert.Equal(t, 2, count(t, root, "Bewerbungen/Rejected"))
	require.Equal(t, 1, count(t, root, "Drafts"))

	r, err := acct.Backend.Open(ctx, res.Draft)
	require.NoError(t, err)
	defer r.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	draft := buf.String()
	assert.Contains(t, draft, "Subject: Re: Bewerbung als Backend Developer")
	assert.Contains(t, draft, "In-Reply-To: <app@example.com>")
	assert.Contains(t, draft, "max.mustermann@example.com")
	assert.Contains(t, draft, "multipart/alternative")
}

func TestPoolByPath(t *testing.T) {
	root, acct := setup(t)
	path := deliver(t, root, "INBOX", "1002.cv", orphan)
	a := app.New([]*types.Account{acct}, opts)

	res, err := a.Run(context.Background(),
		app.Pool(folders.Policy{Kind: folders.ParentPrefix, Folder: "Pool", Parent: "Bewerb"}),
		app.ParseSelection(path))
	require.NoError(t, err)
	require.NotNil(t, res.Selected)
	assert.Nil(t, res.Original)
	assert.Zero(t, res.Draft)
	require.NotNil(t, res.Destination)
	assert.Equal(t, "Bewerbungen/Pool", res.Destination.Folder.Path)
	assert.Equal(t, 1, count(t, root, "Bewerbungen/Pool"))
	assert.Equal(t, 0, count(t, root, "Archive/Pool"))
	assert.Equal(t, 2, count(t, root, "INBOX"))
}

func TestRejectWithoutOriginal(t *testing.T) {
	root, acct := setup(t)
	deliver(t, root, "INBOX", "1002.cv", orphan)
	a := app.New([]*types.Account{acct}, opts)

	res, err := a.Run(context.Background(),
		app.Reject(folders.Policy{Folder: "Rejected"}),
		app.Selection{MessageID: "orphan@example.com"})
	require.NoError(t, err)
	require.NotNil(t, res.Selected)
	assert.Nil(t, res.Original)
	assert.Nil(t, res.Destination)
	assert.Equal(t, 0, count(t, root, "Drafts"))
	assert.Equal(t, 3, count(t, root, "INBOX"))
}

func TestRejectSubjectFallback(t *testing.T) {
	root := t.TempDir()
	mkMaildir(t, root, "INBOX", "Drafts", "Rejected")
	deliver(t, root, "INBOX", "1000.app", application)
	deliver(t, root, "INBOX", "1001.boss", strings.Replace(strings.Replace(forward,
		"In-Reply-To: <app@example.com>\r\n", "", 1),
		"References: <app@example.com>\r\n", "", 1))
	acct := account(t, "work", "maildir://"+root)

	res, err := app.New([]*types.Account{acct}, opts).Run(context.Background(),
		app.Reject(folders.Policy{Folder: "Rejected"}),
		app.Selection{MessageID: "boss@example.com"})
	require.NoError(t, err)
	require.NotNil(t, res.Original)
	assert.Equal(t, "app@example.com", res.Original.MessageId)
	assert.Equal(t, 2, count(t, root, "Rejected"))
}

func TestMissingFolderSkipsMove(t *testing.T) {
	root, acct := setup(t)
	res, err := app.New([]*types.Account{acct}, opts).Run(context.Background(),
		app.Reject(folders.Policy{Folder: "Abgelehnt"}),
		app.Selection{MessageID: "boss@example.com"})
	require.NoError(t, err)
	assert.NotZero(t, res.Draft)
	assert.Nil(t, res.Destination)
	assert.Empty(t, res.Moved)
	assert.Equal(t, 2, count(t, root, "INBOX"))
}

func TestNothingSelected(t *testing.T) {
	_, acct := setup(t)
	res, err := app.New([]*types.Account{acct}, opts).Run(context.Background(),
		app.Reject(folders.Policy{Folder: "Rejected"}),
		app.Selection{MessageID: "missing@example.com"})
	require.NoError(t, err)
	assert.Nil(t, res.Selected)
}

func TestMoveAcrossAccounts(t *testing.T) {
	root, work := setup(t)
	archiveDir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, mbox.NewWriter(&buf).Close())
	require.NoError(t, os.WriteFile(filepath.Join(archiveDir, "Absagen.mbox"), buf.Bytes(), 0o600))
	archive := account(t, "archive", "mbox://"+archiveDir)

	res, err := app.New([]*types.Account{work, archive}, opts).Run(context.Background(),
		app.Reject(folders.Policy{Folder: "Absagen"}),
		app.Selection{MessageID: "boss@example.com"})
	require.NoError(t, err)
	require.NotNil(t, res.Destination)
	assert.Equal(t, "archive", res.Destination.Account.Name)
	assert.Len(t, res.Moved, 2)
	assert.Equal(t, 0, count(t, root, "INBOX"))

	data, err := os.ReadFile(filepath.Join(archiveDir, "Absagen.mbox"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Message-ID: <app@example.com>")
	assert.Contains(t, string(data), "Message-ID: <boss@example.com>")
}

func TestParseSelection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "msg")
	require.NoError(t, os.WriteFile(path, []byte(orphan), 0o600))
	assert.Equal(t, app.Selection{Path: path}, app.ParseSelection(path))
	assert.Equal(t, app.Selection{MessageID: "a@b"}, app.ParseSelection(" <a@b> "))
	assert.Equal(t, app.Selection{MessageID: "a@b"}, app.ParseSelection("a@b"))
}
