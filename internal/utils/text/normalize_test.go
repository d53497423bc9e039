package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeParagraphs(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"only whitespace", " \n\t\n  ", ""},
		{"single line", "  Hello   world  ", "Hello world"},
		{"keeps line breaks", "First line\nSecond line", "First line\nSecond line"},
		{"collapses blank runs", "Para one.\n\n\n\n  Para two.", "Para one.\n\nPara two."},
		{"strips leading blank lines", "\n\n\nBody", "Body"},
		{"windows newlines", "A\r\n\r\nB", "A\n\nB"},
		{"unicode preserved", "  Größe und  Maß ", "Größe und Maß"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeParagraphs(tt.in))
		})
	}
}

func TestNormalizeParagraphs_Idempotent(t *testing.T) {
	in := "\t Title \n\n\n body text   here \n more\n\n"
	once := NormalizeParagraphs(in)
	assert.Equal(t, once, NormalizeParagraphs(once))
}
