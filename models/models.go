package models

import (
	"strings"
	"time"
)

// UID identifies a message inside one backend. It is stable for the
// lifetime of the backend instance only.
type UID uint32

// A MessageInfo holds the envelope of a message as seen by the mail store.
// It is used both for the reply under action and for the candidates it is
// matched against.
type MessageInfo struct {
	Uid       UID
	Folder    string
	Subject   string
	MessageId string
	InReplyTo string
	Refs      []string
	// From is the decoded author display string, e.g. `"Doe, Jane" <j@d.com>`
	From string
	Date time.Time
	Size uint64
}

// Header maps lower-case header names to their decoded values, in the order
// they appear in the message.
type Header map[string][]string

// Get returns the first value of key, or "".
func (h Header) Get(key string) string {
	if v := h.Values(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (h Header) Values(key string) []string {
	if h == nil {
		return nil
	}
	return h[strings.ToLower(key)]
}

func (h Header) Add(key, value string) {
	key = strings.ToLower(key)
	h[key] = append(h[key], value)
}

// A BodyPart is one node of a message body tree. Leaves carry the decoded
// text of the part, multipart containers carry Parts.
type BodyPart struct {
	MIMEType string
	Body     string
	Parts    []*BodyPart
}

// A FullMessage is a message with all of its headers and its body tree.
type FullMessage struct {
	Uid     UID
	Headers Header
	Body    *BodyPart
}

// A Page is one chunk of a folder listing. An empty Token means there are no
// more pages.
type Page struct {
	Messages []*MessageInfo
	Token    string
}

// A Folder is a node of an account's folder tree. Path is the full
// slash-separated name used to address the folder in its backend.
type Folder struct {
	Name       string
	Path       string
	SubFolders []*Folder
}

// Applicant is what could be learned about the sender of an application.
// Email and Position are empty when unknown.
type Applicant struct {
	Name     string
	Email    string
	Position string
}
