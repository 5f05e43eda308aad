package thread_test

import (
	"testing"

	"git.sr.ht/~hrtools/hrreject/lib/thread"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Re: Fwd: Bewerbung als Entwickler", "Bewerbung als Entwickler"},
		{"Bewerbung als Entwickler", "Bewerbung als Entwickler"},
		{"AW: WG: aw:Bewerbung", "Bewerbung"},
		{"RE:RE: FW:  Application  ", "Application"},
		{"  re: x", "x"},
		{"Reply: not a marker", "Reply: not a marker"},
		{"Subject Re: in the middle", "Subject Re: in the middle"},
		{"Re: ", ""},
		{"", ""},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			got := thread.Normalize(test.input)
			assert.Equal(t, test.expected, got)
			assert.Equal(t, got, thread.Normalize(got))
		})
	}
}
