package service

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeUTF8(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"valid ascii", "size chart", "size chart"},
		{"valid japanese", "サイズ表をご確認ください。", "サイズ表をご確認ください。"},
		{"invalid byte dropped", "回答\xffです", "回答です"},
		{"truncated multibyte dropped", "サイズ\xe3\x81", "サイズ"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sanitizeUTF8(tt.input)
			assert.Equal(t, tt.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}
