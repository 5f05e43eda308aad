package applicant_test

import (
	"strings"
	"testing"

	"git.sr.ht/~hrtools/hrreject/lib/applicant"
	"github.com/stretchr/testify/assert"
)

func TestRefineName(t *testing.T) {
	tests := []struct {
		name     string
		current  string
		body     string
		expected string
	}{
		{
			name:     "german salutation with title",
			current:  "Header Name",
			body:     "Sehr geehrte Frau Müller,\nanbei meine Unterlagen.",
			expected: "Müller",
		},
		{
			name:     "sehr geehrter herr dr",
			body:     "Sehr geehrter Herr Dr. schmidt\n\nText",
			expected: "Schmidt",
		},
		{
			name:     "dear lower case",
			body:     "dear anna maria,\nplease find attached",
			expected: "Anna Maria",
		},
		{
			name:     "collective salutation is ignored",
			current:  "Jane Doe",
			body:     "Sehr geehrte Damen und Herren,\nanbei meine Bewerbung.",
			expected: "Jane Doe",
		},
		{
			name:     "ladies and gentlemen falls through to signature",
			current:  "Header Name",
			body:     "Dear Ladies and Gentlemen,\nbody\nBest regards\njohn smith",
			expected: "John Smith",
		},
		{
			name:     "closing phrase with comma is not a full line match",
			current:  "Header Name",
			body:     "Text\nBest regards,\njohn smith",
			expected: "Header Name",
		},
		{
			name:     "german closing phrase with comma",
			current:  "Header Name",
			body:     "Text\nMit freundlichen Grüßen,\nMax Mustermann",
			expected: "Header Name",
		},
		{
			name:     "titles joined by and",
			current:  "Header Name",
			body:     "Dear Mr. and Mrs. Smith,\ntext",
			expected: "Smith",
		},
		{
			name:     "titles joined by und",
			body:     "Sehr geehrte Frau und Herr Müller,\nText",
			expected: "Müller",
		},
		{
			name:     "only titles and a conjunction",
			current:  "Header Name",
			body:     "Hello Mr and Mrs,\ntext",
			expected: "Header Name",
		},
		{
			name:     "signature",
			current:  "X",
			body:     "Guten Morgen\n...\nMit freundlichen Grüßen\nMax Mustermann",
			expected: "Max Mustermann",
		},
		{
			name:     "signature with crlf and blank lines",
			body:     "Text\r\n\r\nKind regards\r\n\r\n  erika mustermann  \r\n",
			expected: "Erika Mustermann",
		},
		{
			name:     "decomposed umlauts",
			body:     "Text\nMit freundlichen Gru\u0308ßen\nJo\u0308rg Ja\u0308ger",
			expected: "Jörg Jäger",
		},
		{
			name:     "signature line too long",
			current:  "Header Name",
			body:     "Text\nRegards\nthis line is not a name at all",
			expected: "Header Name",
		},
		{
			name:     "closing phrase with trailing text",
			current:  "Header Name",
			body:     "Text\nBest regards from Berlin\nMax",
			expected: "Header Name",
		},
		{
			name:     "closing phrase is last line",
			current:  "Header Name",
			body:     "Text\nSincerely",
			expected: "Header Name",
		},
		{
			name:     "salutation wins over signature",
			body:     "Hallo Tom,\nText\nViele Grüße\nAnna",
			expected: "Tom",
		},
		{
			name:     "salutation after line 10 is ignored",
			current:  "Header Name",
			body:     strings.Repeat("line\n", 10) + "Dear Bob,\n",
			expected: "Header Name",
		},
		{
			name:     "bare title",
			current:  "Header Name",
			body:     "Hello Frau,\ntext",
			expected: "Header Name",
		},
		{
			name:     "empty body",
			current:  "Header Name",
			body:     "",
			expected: "Header Name",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := applicant.RefineName(test.current, test.body)
			assert.Equal(t, test.expected, got)
		})
	}
}
