package textutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"trims", "  hello \n", "hello"},
		{"strips tags", "<b>bold</b> text<script>alert(1)</script>", "bold text"},
		{"keeps ampersand", "salt & pepper", "salt & pepper"},
		{"nfc", "é", "é"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestLengthAndLines(t *testing.T) {
	assert.Equal(t, 2, Length("中文"))
	assert.Equal(t, 0, LineCount(""))
	assert.Equal(t, 1, LineCount("one"))
	assert.Equal(t, 3, LineCount("a\nb\nc"))
	assert.Equal(t, "中", Truncate("中文", 1))
	assert.Equal(t, "abc", Truncate("abc", 0))
}

func TestFormats(t *testing.T) {
	assert.True(t, IsEmail("ops@example.com"))
	assert.False(t, IsEmail("not-an-email"))
	assert.True(t, IsURL("https://example.com/a"))
	assert.False(t, IsURL("example"))
}
