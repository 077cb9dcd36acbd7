package graphics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayoutTextSingleLine(t *testing.T) {
	l := LayoutText("hello", TextStyle{})
	assert.Equal(t, Size{Width: 35, Height: 13}, l.Size)
	assert.Equal(t, 13, l.LineHeight)
	assert.Len(t, l.Lines, 1)

	scaled := LayoutText("hello", TextStyle{Scale: 2})
	assert.Equal(t, Size{Width: 70, Height: 26}, scaled.Size)
}

func TestLayoutTextWraps(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		opts  ParagraphOptions
		lines []string
		trunc bool
	}{
		{"fits", "ab cd", ParagraphOptions{MaxWidth: 35}, []string{"ab cd"}, false},
		{"breaks at spaces", "ab cd ef", ParagraphOptions{MaxWidth: 35}, []string{"ab cd", "ef"}, false},
		{"splits long words", "abcdefgh", ParagraphOptions{MaxWidth: 21}, []string{"abc", "def", "gh"}, false},
		{"newlines", "a\nb", ParagraphOptions{}, []string{"a", "b"}, false},
		{"max lines", "ab cd ef", ParagraphOptions{MaxWidth: 14, MaxLines: 2}, []string{"ab", "cd"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := LayoutTextWithOptions(tt.text, TextStyle{}, tt.opts)
			var got []string
			for _, line := range l.Lines {
				got = append(got, line.Text)
			}
			assert.Equal(t, tt.lines, got)
			assert.Equal(t, tt.trunc, l.Truncated)
		})
	}
}

func TestLayoutTextAligns(t *testing.T) {
	l := LayoutTextWithOptions("ab", TextStyle{}, ParagraphOptions{MaxWidth: 30, Align: TextAlignRight})
	assert.Equal(t, 16, l.Lines[0].Offset)
	l = LayoutTextWithOptions("ab", TextStyle{}, ParagraphOptions{MaxWidth: 30, Align: TextAlignCenter})
	assert.Equal(t, 8, l.Lines[0].Offset)
}
