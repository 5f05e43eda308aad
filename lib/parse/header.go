package parse

import (
	"strings"

	"git.sr.ht/~hrtools/hrreject/lib/log"
	"github.com/emersion/go-message/mail"
)

// MsgIDList parses a list of message identifiers.  It returns message
// identifiers without angle brackets.  If the header field is missing,
// it returns nil.
//
// This can be used on In-Reply-To and References header fields.
// If the field does not conform to RFC 5322, fall back
// to greedily parsing a subsequence of the original field.
func MsgIDList(h *mail.Header, key string) []string {
	l, err := h.MsgIDList(key)
	if err == nil {
		return l
	}
	log.Debugf("%s: %s", err, h.Get(key))

	var list []string
	header := &mail.Header{Header: h.Header.Copy()}
	value := header.Get(key)
	for err != nil && len(value) > 0 {
		// Skip parsed IDs
		if len(l) > 0 {
			last := "<" + l[len(l)-1] + ">"
			value = value[strings.Index(value, last)+len(last):]
			list = append(list, l...)
		}

		// Skip a character until some IDs can be parsed
		value = value[1:]
		header.Set(key, value)
		l, err = header.MsgIDList(key)
	}
	return append(list, l...)
}

// MsgIDs parses a single raw In-Reply-To or References value. Values
// without any angle brackets are split on whitespace and returned as is,
// some clients write bare ids.
func MsgIDs(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if !strings.Contains(value, "<") {
		return strings.Fields(value)
	}
	var h mail.Header
	h.Set("References", value)
	return MsgIDList(&h, "References")
}

// FirstMsgID returns the first message identifier of value, trimmed and
// without angle brackets, or "".
func FirstMsgID(value string) string {
	ids := MsgIDs(value)
	if len(ids) == 0 {
		return ""
	}
	return strings.TrimSpace(strings.Trim(ids[0], "<>"))
}
