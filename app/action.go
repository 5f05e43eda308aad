package app

import (
	"os"
	"strings"

	"git.sr.ht/~hrtools/hrreject/lib/folders"
	"git.sr.ht/~hrtools/hrreject/lib/parse"
)

// Action is what the tool does with the selected message.
type Action struct {
	Name   string
	Policy folders.Policy
	// Compose resolves the original application and saves a rejection
	// draft.
	Compose bool
	// MoveOriginal moves the original application along with the
	// selected message.
	MoveOriginal bool
}

// Reject answers the application the selected message refers to and files
// both messages.
func Reject(p folders.Policy) Action {
	return Action{Name: "reject", Policy: p, Compose: true, MoveOriginal: true}
}

// Pool only files the selected message.
func Pool(p folders.Policy) Action {
	return Action{Name: "pool", Policy: p}
}

// Selection names the message an action starts from: either a message
// file inside a configured store or a Message-ID.
type Selection struct {
	Path      string
	MessageID string
}

// ParseSelection treats arg as a path when such a file exists and as a
// Message-ID otherwise.
func ParseSelection(arg string) Selection {
	arg = strings.TrimSpace(arg)
	if fi, err := os.Stat(arg); err == nil && fi.Mode().IsRegular() {
		return Selection{Path: arg}
	}
	return Selection{MessageID: parse.FirstMsgID(arg)}
}

func (s Selection) String() string {
	if s.Path != "" {
		return s.Path
	}
	return "<" + s.MessageID + ">"
}
