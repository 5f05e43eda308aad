// Package compose builds reply drafts and stores them in a drafts folder.
package compose

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/google/shlex"
	"github.com/pkg/errors"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/templates"
	"git.sr.ht/~hrtools/hrreject/models"
	"git.sr.ht/~hrtools/hrreject/worker/types"
)

// Fields are the parts of a draft callers fill in.
type Fields struct {
	To            string
	Subject       string
	HTMLBody      string
	PlainTextBody string
}

// Options are the compose settings from the configuration.
type Options struct {
	From string
	// Editor is a command line the draft body is opened in before it is
	// saved. Empty disables editing.
	Editor string
}

// Draft is a reply being composed.
type Draft struct {
	opts       Options
	date       time.Time
	inReplyTo  []string
	references []string
	fields     Fields
	to         []*mail.Address
	from       []*mail.Address
}

// Begin starts a reply to original. original may be nil, the draft then
// carries no threading headers.
func Begin(ctx context.Context, opts Options, original *models.MessageInfo) *Draft {
	d := &Draft{opts: opts, date: time.Now()}
	if original != nil && original.MessageId != "" {
		d.inReplyTo = []string{original.MessageId}
		d.references = append(append([]string(nil), original.Refs...), original.MessageId)
	}
	return d
}

// SetFields replaces the recipient, subject and bodies of the draft.
func (d *Draft) SetFields(ctx context.Context, f Fields) error {
	d.to = nil
	if strings.TrimSpace(f.To) != "" {
		to, err := mail.ParseAddressList(f.To)
		if err != nil {
			return errors.Wrapf(err, "ParseAddressList(%s)", f.To)
		}
		d.to = to
	}
	if d.opts.From != "" {
		from, err := mail.ParseAddressList(d.opts.From)
		if err != nil {
			return errors.Wrapf(err, "ParseAddressList(%s)", d.opts.From)
		}
		d.from = from
	}
	if f.HTMLBody == "" {
		f.HTMLBody = templates.TextToHTML(f.PlainTextBody)
	}
	d.fields = f
	return nil
}

// Fields returns what was last set on the draft.
func (d *Draft) Fields() Fields {
	return d.fields
}

func (d *Draft) header() (*mail.Header, error) {
	h := &mail.Header{}
	if len(d.from) > 0 {
		h.SetAddressList("From", d.from)
	}
	if len(d.to) > 0 {
		h.SetAddressList("To", d.to)
	}
	h.SetSubject(d.fields.Subject)
	h.SetDate(d.date)
	if err := h.GenerateMessageID(); err != nil {
		return nil, errors.Wrap(err, "GenerateMessageID")
	}
	if len(d.inReplyTo) > 0 {
		h.SetMsgIDList("In-Reply-To", d.inReplyTo)
		h.SetMsgIDList("References", d.references)
	}
	return h, nil
}

// WriteMessage writes the draft as a multipart/alternative message with a
// plain text and an HTML part.
func (d *Draft) WriteMessage(writer io.Writer) error {
	header, err := d.header()
	if err != nil {
		return err
	}
	w, err := mail.CreateInlineWriter(writer, *header)
	if err != nil {
		return errors.Wrap(err, "CreateInlineWriter")
	}
	if err := writePart(w, "text/plain", d.fields.PlainTextBody); err != nil {
		return err
	}
	if err := writePart(w, "text/html", d.fields.HTMLBody); err != nil {
		return err
	}
	return errors.Wrap(w.Close(), "Close")
}

func writePart(w *mail.InlineWriter, mimeType, body string) error {
	var h mail.InlineHeader
	h.SetContentType(mimeType, map[string]string{"charset": "UTF-8"})
	pw, err := w.CreatePart(h)
	if err != nil {
		return errors.Wrap(err, "CreatePart")
	}
	if _, err := io.WriteString(pw, body); err != nil {
		pw.Close()
		return errors.Wrap(err, "WriteString")
	}
	return errors.Wrap(pw.Close(), "Close")
}

// Edit opens the plain text body in the configured editor and regenerates
// the HTML body from the result. It does nothing without an editor.
func (d *Draft) Edit(ctx context.Context) error {
	if d.opts.Editor == "" {
		return nil
	}
	argv, err := shlex.Split(d.opts.Editor)
	if err != nil {
		return errors.Wrapf(err, "editor %q", d.opts.Editor)
	}
	if len(argv) == 0 {
		return fmt.Errorf("empty editor command")
	}
	f, err := os.CreateTemp("", "hrreject-*.txt")
	if err != nil {
		return errors.Wrap(err, "CreateTemp")
	}
	defer os.Remove(f.Name())
	_, err = f.WriteString(d.fields.PlainTextBody)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "write draft")
	}

	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], f.Name())...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	log.Debugf("editing draft: %v", cmd.Args)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "editor %s", argv[0])
	}
	body, err := os.ReadFile(f.Name())
	if err != nil {
		return errors.Wrap(err, "read draft")
	}
	text := strings.TrimRight(string(body), "\n")
	d.fields.PlainTextBody = text
	d.fields.HTMLBody = templates.TextToHTML(text)
	return nil
}

// Save appends the draft to folder of acct.
func (d *Draft) Save(ctx context.Context, acct *types.Account, folder string) (models.UID, error) {
	var buf bytes.Buffer
	if err := d.WriteMessage(&buf); err != nil {
		return 0, err
	}
	uid, err := acct.Backend.Append(ctx, folder, &buf)
	if err != nil {
		return 0, errors.Wrapf(err, "could not save draft to %s:%s", acct.Name, folder)
	}
	log.Infof("saved draft to %s:%s", acct.Name, folder)
	return uid, nil
}
