package lib_test

import (
	"net/url"
	"testing"

	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/lib"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolderTree(t *testing.T) {
	tree := lib.FolderTree([]string{
		"INBOX", "Jobs/Rejected", "Archive", "Jobs", "Jobs/Pool", "Other/Deep/Pool",
	})
	names := func(fs []*models.Folder) []string {
		var n []string
		for _, f := range fs {
			n = append(n, f.Name)
		}
		return n
	}
	require.Equal(t, []string{"Archive", "INBOX", "Jobs", "Other"}, names(tree))
	jobs := tree[2]
	assert.Equal(t, []string{"Pool", "Rejected"}, names(jobs.SubFolders))
	assert.Equal(t, "Jobs/Pool", jobs.SubFolders[0].Path)
	deep := tree[3].SubFolders[0]
	assert.Equal(t, "Other/Deep", deep.Path)
	assert.Equal(t, "Other/Deep/Pool", deep.SubFolders[0].Path)
}

func TestExcluded(t *testing.T) {
	patterns := []string{"Trash", "Spam*", " Archive/* "}
	assert.True(t, lib.Excluded("Trash", patterns))
	assert.True(t, lib.Excluded("Jobs/Trash", patterns))
	assert.True(t, lib.Excluded("Spam-2023", patterns))
	assert.True(t, lib.Excluded("Archive/2022", patterns))
	assert.False(t, lib.Excluded("Archive", patterns))
	assert.False(t, lib.Excluded("INBOX", patterns))
	assert.False(t, lib.Excluded("INBOX", nil))
}

func TestTokens(t *testing.T) {
	token := lib.EncodeToken("Jobs:2023/Pool", 200)
	folder, offset, err := lib.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, "Jobs:2023/Pool", folder)
	assert.Equal(t, 200, offset)

	for _, bad := range []string{"", "nope", "-1:INBOX", "x:INBOX"} {
		_, _, err := lib.DecodeToken(bad)
		assert.Error(t, err, bad)
	}
}

func TestPageBounds(t *testing.T) {
	start, end, next := lib.PageBounds("INBOX", 5, 0, 2)
	assert.Equal(t, []int{0, 2}, []int{start, end})
	assert.Equal(t, lib.EncodeToken("INBOX", 2), next)

	start, end, next = lib.PageBounds("INBOX", 5, 4, 2)
	assert.Equal(t, []int{4, 5}, []int{start, end})
	assert.Empty(t, next)

	start, end, next = lib.PageBounds("INBOX", 0, 0, 0)
	assert.Equal(t, []int{0, 0}, []int{start, end})
	assert.Empty(t, next)
}

func TestSourcePath(t *testing.T) {
	t.Setenv("HOME", "/home/user")
	u, _ := url.Parse("maildir://~/Mail/work")
	assert.Equal(t, "/home/user/Mail/work", lib.SourcePath(u))
	u, _ = url.Parse("mbox:///var/mail/jobs")
	assert.Equal(t, "/var/mail/jobs", lib.SourcePath(u))
}
