package graphics

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// TextAlign controls horizontal alignment of wrapped lines.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// String returns a human-readable representation of the text alignment.
func (a TextAlign) String() string {
	switch a {
	case TextAlignLeft:
		return "left"
	case TextAlignCenter:
		return "center"
	case TextAlignRight:
		return "right"
	default:
		return fmt.Sprintf("TextAlign(%d)", int(a))
	}
}

// TextStyle describes how text is measured and painted.
type TextStyle struct {
	Color Color
	// Scale multiplies the fixed face metrics. Zero means 1.
	Scale int
	// LineSpacing adds pixels between lines.
	LineSpacing int
}

// WithColor returns a copy of the TextStyle with the specified color.
func (s TextStyle) WithColor(c Color) TextStyle {
	s.Color = c
	return s
}

func (s TextStyle) scale() int {
	if s.Scale <= 0 {
		return 1
	}
	return s.Scale
}

// TextLine represents a single laid-out line of text.
type TextLine struct {
	Text  string
	Width int
	// Offset is the horizontal offset from alignment.
	Offset int
}

// TextLayout contains measured text metrics.
type TextLayout struct {
	Text       string
	Lines      []TextLine
	Size       Size
	LineHeight int
	Ascent     int
	// Truncated reports whether MaxLines dropped lines.
	Truncated bool
}

// ParagraphOptions controls line wrapping, line limits and alignment. The
// zero value lays out one unconstrained, left-aligned line per newline.
type ParagraphOptions struct {
	// MaxWidth wraps at this width when positive.
	MaxWidth int
	// MaxLines limits the number of lines (0 = unlimited).
	MaxLines int
	Align    TextAlign
}

// Face returns the fixed bitmap face text is measured with. Every engine
// build measures identically regardless of installed fonts.
func Face() font.Face { return basicfont.Face7x13 }

// MeasureString returns the advance of s in the text face at scale.
func MeasureString(s string, style TextStyle) int {
	return font.MeasureString(Face(), s).Ceil() * style.scale()
}

// LayoutText measures text without wrapping.
func LayoutText(text string, style TextStyle) *TextLayout {
	return LayoutTextWithOptions(text, style, ParagraphOptions{})
}

// LayoutTextWithOptions measures, wraps and aligns text.
func LayoutTextWithOptions(text string, style TextStyle, opts ParagraphOptions) *TextLayout {
	metrics := Face().Metrics()
	scale := style.scale()
	l := &TextLayout{
		Text:       text,
		LineHeight: metrics.Height.Ceil()*scale + style.LineSpacing,
		Ascent:     metrics.Ascent.Ceil() * scale,
	}

	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		if opts.MaxWidth > 0 {
			lines = append(lines, wrap(paragraph, style, opts.MaxWidth)...)
		} else {
			lines = append(lines, paragraph)
		}
	}
	if opts.MaxLines > 0 && len(lines) > opts.MaxLines {
		lines = lines[:opts.MaxLines]
		l.Truncated = true
	}

	for _, s := range lines {
		w := MeasureString(s, style)
		l.Lines = append(l.Lines, TextLine{Text: s, Width: w})
		l.Size.Width = max(l.Size.Width, w)
	}
	paragraphWidth := l.Size.Width
	if opts.MaxWidth > 0 && opts.Align != TextAlignLeft {
		paragraphWidth = opts.MaxWidth
	}
	for i := range l.Lines {
		switch opts.Align {
		case TextAlignCenter:
			l.Lines[i].Offset = (paragraphWidth - l.Lines[i].Width) / 2
		case TextAlignRight:
			l.Lines[i].Offset = paragraphWidth - l.Lines[i].Width
		}
	}
	if n := len(l.Lines); n > 0 {
		l.Size.Height = n*l.LineHeight - style.LineSpacing
	}
	return l
}

// wrap breaks s at spaces so every line fits width. Words wider than width
// are split by rune.
func wrap(s string, style TextStyle, width int) []string {
	words := strings.FieldsFunc(s, unicode.IsSpace)
	if len(words) == 0 {
		return []string{""}
	}
	var (
		lines []string
		cur   string
	)
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		if MeasureString(candidate, style) <= width {
			cur = candidate
			continue
		}
		if cur != "" {
			lines = append(lines, cur)
			cur = ""
		}
		for MeasureString(w, style) > width {
			cut := fit(w, style, width)
			lines = append(lines, w[:cut])
			w = w[cut:]
		}
		cur = w
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// fit returns the byte length of the longest prefix of w that fits width,
// at least one rune.
func fit(w string, style TextStyle, width int) int {
	cut := 0
	for i, r := range w {
		end := i + len(string(r))
		if MeasureString(w[:end], style) > width && cut > 0 {
			break
		}
		cut = end
	}
	return cut
}
