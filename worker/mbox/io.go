package mboxer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/emersion/go-mbox"
	"github.com/emersion/go-message/mail"
	"github.com/pkg/errors"

	"git.sr.ht/~hrtools/hrreject/lib/rfc822"
)

// Read splits an mbox stream into raw messages.
func Read(r io.Reader) ([][]byte, error) {
	mbr := mbox.NewReader(r)
	var messages [][]byte
	for {
		msg, err := mbr.NextMessage()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(msg)
		if err != nil {
			return nil, err
		}
		messages = append(messages, content)
	}
	return messages, nil
}

// Write serializes raw messages as an mbox stream. The envelope line is
// rebuilt from the From and Date headers of each message.
func Write(w io.Writer, messages [][]byte) error {
	wc := mbox.NewWriter(w)
	for _, content := range messages {
		from, date := envelope(content)
		mw, err := wc.CreateMessage(from, date)
		if err != nil {
			return err
		}
		if _, err := mw.Write(content); err != nil {
			return err
		}
	}
	return wc.Close()
}

func envelope(content []byte) (string, time.Time) {
	from, date := "MAILER-DAEMON", time.Now()
	msg, err := rfc822.ReadMessage(bytes.NewReader(content))
	if err != nil {
		return from, date
	}
	h := mail.Header{Header: msg.Header}
	if addrs, err := h.AddressList("from"); err == nil && len(addrs) > 0 {
		from = addrs[0].Address
	}
	if d, err := h.Date(); err == nil && !d.IsZero() {
		date = d
	}
	return from, date
}

// writeFile replaces path with the given messages. The new content goes to
// a temporary file first so that a failed write leaves the old file intact.
func writeFile(path string, messages [][]byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "mkdir")
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".hrreject-*.mbox")
	if err != nil {
		return errors.Wrap(err, "CreateTemp")
	}
	defer os.Remove(tmp.Name())
	if err := Write(tmp, messages); err != nil {
		tmp.Close()
		return errors.Wrap(err, "Write")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "Close")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "Rename")
}
