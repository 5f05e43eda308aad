package mboxer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"git.sr.ht/~hrtools/hrreject/lib/uidstore"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/lib"
)

type mailboxContainer struct {
	root      string
	mailboxes map[string]*container
	uids      *uidstore.Store
}

// createMailboxContainer loads every *.mbox file below root. A folder is
// named by its slash separated path relative to root, without the suffix.
// root may also be a single mbox file.
func createMailboxContainer(root string, exclude []string) (*mailboxContainer, error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	md := &mailboxContainer{
		root:      root,
		mailboxes: make(map[string]*container),
		uids:      uidstore.NewStore(),
	}
	if !fi.IsDir() {
		md.root = filepath.Dir(root)
		name := strings.TrimSuffix(filepath.Base(root), ".mbox")
		return md, md.load(name, root)
	}
	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.HasSuffix(path, ".mbox") {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.ToSlash(rel), ".mbox")
		if lib.Excluded(name, exclude) {
			return nil
		}
		return md.load(name, path)
	})
	return md, err
}

func (md *mailboxContainer) load(name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrap(err, "Open")
	}
	defer f.Close()
	messages, err := Read(f)
	if err != nil {
		return errors.Wrapf(err, "could not read %s", path)
	}
	c := &container{name: name, filename: path}
	for _, content := range messages {
		c.append(md.uids, content)
	}
	md.mailboxes[name] = c
	return nil
}

func (md *mailboxContainer) Names() []string {
	names := make([]string, 0, len(md.mailboxes))
	for name := range md.mailboxes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (md *mailboxContainer) Mailbox(name string) (*container, bool) {
	mb, ok := md.mailboxes[name]
	return mb, ok
}

// Create returns the mailbox called name, adding an empty one if needed.
// The file is written on the first change.
func (md *mailboxContainer) Create(name string) *container {
	if mb, ok := md.mailboxes[name]; ok {
		return mb
	}
	mb := &container{
		name:     name,
		filename: filepath.Join(md.root, filepath.FromSlash(name)+".mbox"),
	}
	md.mailboxes[name] = mb
	return mb
}

// Message returns the mailbox and the message uid refers to.
func (md *mailboxContainer) Message(uid models.UID) (*container, *message, error) {
	loc, ok := md.uids.Get(uid)
	if !ok {
		return nil, nil, errors.Wrapf(errNotFound, "uid %d", uid)
	}
	mb, ok := md.mailboxes[loc.Folder]
	if !ok {
		return nil, nil, errors.Wrapf(errNotFound, "folder %s", loc.Folder)
	}
	for _, m := range mb.messages {
		if m.uid == uid {
			return mb, m, nil
		}
	}
	return nil, nil, errors.Wrapf(errNotFound, "uid %d", uid)
}

type container struct {
	name     string
	filename string
	messages []*message
	nextKey  int
}

func (f *container) append(uids *uidstore.Store, content []byte) *message {
	f.nextKey++
	key := strconv.Itoa(f.nextKey)
	m := &message{
		uid:     uids.GetOrInsert(f.name, key),
		key:     key,
		content: content,
	}
	f.messages = append(f.messages, m)
	return m
}

func (f *container) remove(uid models.UID) {
	kept := f.messages[:0]
	for _, m := range f.messages {
		if m.uid != uid {
			kept = append(kept, m)
		}
	}
	f.messages = kept
}

func (f *container) flush() error {
	contents := make([][]byte, 0, len(f.messages))
	for _, m := range f.messages {
		contents = append(contents, m.content)
	}
	return writeFile(f.filename, contents)
}

// snapshot remembers containers and message locations so that a failed
// write can be undone in memory.
type snapshot struct {
	containers map[*container]containerState
	moved      []movedMessage
}

type containerState struct {
	messages []*message
	nextKey  int
}

type movedMessage struct {
	m      *message
	folder string
	key    string
}

func newSnapshot() *snapshot {
	return &snapshot{containers: make(map[*container]containerState)}
}

func (s *snapshot) save(c *container) {
	if _, ok := s.containers[c]; ok {
		return
	}
	s.containers[c] = containerState{
		messages: append([]*message(nil), c.messages...),
		nextKey:  c.nextKey,
	}
}

func (s *snapshot) restore(md *mailboxContainer) {
	for c, st := range s.containers {
		c.messages = st.messages
		c.nextKey = st.nextKey
	}
	for _, mv := range s.moved {
		mv.m.key = mv.key
		md.uids.Relocate(mv.m.uid, mv.folder, mv.key)
	}
}

type message struct {
	uid     models.UID
	key     string
	content []byte
	info    *models.MessageInfo
}

func (m *message) NewReader() io.ReadCloser {
	return io.NopCloser(bytes.NewReader(m.content))
}
