package rfc822

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"regexp"
	"strings"
	"time"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"git.sr.ht/~hrtools/hrreject/lib/parse"
	"git.sr.ht/~hrtools/hrreject/models"
	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
	"github.com/emersion/go-message/mail"
	"github.com/miolini/datacounter"
)

// RFC 1123Z regexp
var dateRe = regexp.MustCompile(`(((Mon|Tue|Wed|Thu|Fri|Sat|Sun))[,]?\s[0-9]{1,2})\s` +
	`(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s` +
	`([0-9]{4})\s([0-9]{2}):([0-9]{2})(:([0-9]{2}))?\s([\+|\-][0-9]{4})`)

var wordDecoder = mime.WordDecoder{CharsetReader: message.CharsetReader}

// split a MIME type into its major and minor parts
func splitMIME(m string) (string, string) {
	parts := strings.Split(m, "/")
	if len(parts) != 2 {
		return parts[0], ""
	}
	return parts[0], parts[1]
}

func fixContentType(h message.Header) (string, map[string]string) {
	ct, rest := h.Get("Content-Type"), ""
	if i := strings.Index(ct, ";"); i > 0 {
		ct, rest = ct[:i], ct[i:]
	}

	// check if there are quotes around the content type
	if strings.Contains(ct, "\"") {
		header := strings.ReplaceAll(ct, "\"", "")
		if rest != "" {
			header += rest
		}
		h.Set("Content-Type", header)
		if contenttype, params, err := h.ContentType(); err == nil {
			return contenttype, params
		}
	}

	// if all else fails, return text/plain
	return "text/plain", nil
}

// ParseBody reads the body tree of an entity. Text leaves are decoded to
// UTF-8, other leaves only keep their MIME type.
func ParseBody(e *message.Entity) (*models.BodyPart, error) {
	contentType, _, err := e.Header.ContentType()
	if err != nil {
		// try to fix the error; if all measures fail, then return a
		// text/plain content type to display at least plaintext
		contentType, _ = fixContentType(e.Header)
	}
	if contentType == "" {
		contentType = "text/plain"
	}
	part := &models.BodyPart{MIMEType: strings.ToLower(contentType)}

	if mpr := e.MultipartReader(); mpr != nil {
		for {
			child, err := mpr.NextPart()
			if errors.Is(err, io.EOF) {
				return part, nil
			} else if err != nil {
				return part, fmt.Errorf("could not read part: %w", err)
			}
			cp, err := ParseBody(child)
			if cp != nil {
				part.Parts = append(part.Parts, cp)
			}
			if err != nil {
				return part, err
			}
		}
	}

	mimeType, _ := splitMIME(part.MIMEType)
	if mimeType != "text" {
		return part, nil
	}
	disp, _, _ := e.Header.ContentDisposition()
	if disp == "attachment" {
		return part, nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, e.Body); err != nil {
		return part, fmt.Errorf("could not read %s body: %w", part.MIMEType, err)
	}
	part.Body = buf.String()
	return part, nil
}

// Headers returns all header fields of h with decoded values, keyed by
// lower-case field name.
func Headers(h message.Header) models.Header {
	headers := make(models.Header)
	fields := h.Fields()
	for fields.Next() {
		value := fields.Value()
		if decoded, err := wordDecoder.DecodeHeader(value); err == nil {
			value = decoded
		}
		headers.Add(fields.Key(), value)
	}
	return headers
}

func parseEnvelope(h *mail.Header) *models.MessageInfo {
	subj, err := h.Subject()
	if err != nil {
		log.Errorf("could not decode subject: %v", err)
		subj = h.Get("Subject")
	}
	msgID, err := h.MessageID()
	if err != nil {
		log.Errorf("invalid Message-ID header: %v", err)
		// proper parsing failed, so fall back to whatever is there
		msgID = strings.Trim(h.Get("message-id"), "<> ")
	}
	var irt string
	irtList := parse.MsgIDList(h, "in-reply-to")
	if len(irtList) > 0 {
		irt = irtList[0]
	}
	date, err := parseDate(h)
	if err != nil {
		// Date parsing errors are fairly common and it's better to be
		// slightly off than to not be able to read the mails at all
		log.Debugf("invalid Date header: %v", err)
	}
	from := h.Get("from")
	if decoded, err := wordDecoder.DecodeHeader(from); err == nil {
		from = decoded
	}
	return &models.MessageInfo{
		Subject:   subj,
		MessageId: msgID,
		InReplyTo: irt,
		Refs:      parse.MsgIDList(h, "references"),
		From:      from,
		Date:      date,
	}
}

// If the date is formatted like ...... -0500 (EST), parser takes the EST part
// and ignores the numeric offset. Then it might easily fail to guess what EST
// means unless the proper locale is loaded. This function checks that, so such
// time values can be safely ignored
func isDateOK(t time.Time) bool {
	name, offset := t.Zone()

	// non-zero offsets are fine
	if offset != 0 {
		return true
	}

	// zero offset is ok if that's UTC or GMT
	if name == "UTC" || name == "GMT" || name == "" {
		return true
	}

	// otherwise this date should not be trusted
	return false
}

// parseDate tries to parse the date from the Date header with non std formats
// if this fails it tries to parse the received header as well
func parseDate(h *mail.Header) (time.Time, error) {
	// here we store the best parsed time we have so far
	// if we find no "correct" time, we'll use that
	bestDate := time.Time{}

	t, err := h.Date()
	if err == nil {
		if isDateOK(t) {
			return t, nil
		}
		bestDate = t
	}
	text := h.Get("date")

	layouts := []string{
		// X-Mailer: EarthLink Zoo Mail 1.0
		"Mon, _2 Jan 2006 15:04:05 -0700 (GMT-07:00)",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, text); err == nil {
			if isDateOK(t) {
				return t, nil
			}
			bestDate = t
		}
	}

	// still no success, try the received header
	t, err = parseReceivedHeader(h)
	if err == nil {
		if isDateOK(t) {
			return t, nil
		}
		bestDate = t
	}

	if !bestDate.IsZero() {
		return bestDate, nil
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %s", text)
}

func parseReceivedHeader(h *mail.Header) (time.Time, error) {
	guess, err := h.Text("received")
	if err != nil {
		return time.Time{}, fmt.Errorf("received header not parseable: %w",
			err)
	}
	return time.Parse(time.RFC1123Z, dateRe.FindString(guess))
}

// ReadMessage is a wrapper for the message.Read function to read a message
// from r. The message's encoding and charset are automatically decoded to
// UTF-8. If an unknown charset is encountered, the error is logged but a nil
// error is returned since the entity object can still be read.
func ReadMessage(r io.Reader) (*message.Entity, error) {
	entity, err := message.Read(r)
	if message.IsUnknownCharset(err) {
		log.Warnf("unknown charset encountered")
	} else if err != nil {
		return nil, fmt.Errorf("could not read message: %w", err)
	}
	return entity, nil
}

// MessageInfo reads only what is needed to list and match a message. The
// body is drained to learn the message size.
func MessageInfo(r io.Reader) (*models.MessageInfo, error) {
	counter := datacounter.NewReaderCounter(r)
	msg, err := ReadMessage(counter)
	if err != nil {
		return nil, err
	}
	info := parseEnvelope(&mail.Header{Header: msg.Header})
	if _, err := io.Copy(io.Discard, msg.Body); err != nil {
		log.Debugf("could not drain body: %v", err)
	}
	info.Size = counter.Count()
	return info, nil
}

// FullMessage reads the headers and the body tree of a message. A body
// that cannot be read completely is returned as far as it could be read,
// along with the error.
func FullMessage(r io.Reader) (*models.FullMessage, error) {
	msg, err := ReadMessage(r)
	if err != nil {
		return nil, err
	}
	full := &models.FullMessage{Headers: Headers(msg.Header)}
	full.Body, err = ParseBody(msg)
	if err != nil {
		return full, fmt.Errorf("could not parse body: %w", err)
	}
	return full, nil
}
