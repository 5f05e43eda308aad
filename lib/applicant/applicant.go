// Package applicant derives who applied, and for what, from the
// original application mail.
package applicant

import (
	"strings"

	"git.sr.ht/~hrtools/hrreject/models"
)

// Placeholder is the name used when nothing better is known.
const Placeholder = "Applicant"

// Extract builds the applicant of an application mail. from is the raw From
// header of the application, author the sender display string the mail
// store knows, used when from is empty. The result always has a name.
func Extract(from, author string, body *models.BodyPart) *models.Applicant {
	raw := from
	if raw == "" {
		raw = author
	}
	name, email := ParseNameEmail(raw)
	text := PlainBody(body)

	a := &models.Applicant{
		Name:     RefineName(name, text),
		Email:    email,
		Position: ExtractPosition(text),
	}
	if a.Name == "" {
		a.Name = Placeholder
	}
	return a
}

// PlainBody returns the first non-empty text/plain leaf of a body tree,
// searching depth first with earlier parts first. Leaves without a MIME type
// are taken for plain text.
func PlainBody(part *models.BodyPart) string {
	if part == nil {
		return ""
	}
	if len(part.Parts) == 0 {
		if isPlain(part.MIMEType) && strings.TrimSpace(part.Body) != "" {
			return part.Body
		}
		return ""
	}
	for _, p := range part.Parts {
		if text := PlainBody(p); text != "" {
			return text
		}
	}
	return ""
}

func isPlain(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return mimeType == "" || mimeType == "text/plain"
}
