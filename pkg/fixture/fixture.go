// Package fixture reads component trees from YAML so tools and tests can
// describe layouts without Go code.
//
// A fixture names the viewport and one or more frames. Each frame is a full
// tree; consecutive frames are reconciled against each other.
//
//	width: 320
//	height: 480
//	frames:
//	  - type: column
//	    id: root
//	    style: {padding: 8, background: "#fafafa"}
//	    children:
//	      - type: text
//	        text: Hello
//	      - type: color
//	        color: "#ff0000"
//	        style: {height: 20}
//
// Supported types are column, row, view, text, color, card and image.
package fixture

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/widgets"
)

// Document is a parsed fixture file.
type Document struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Root is shorthand for a single frame. It is prepended to Frames.
	Root   *Node  `yaml:"root,omitempty"`
	Frames []Node `yaml:"frames,omitempty"`
}

// Node describes one component.
type Node struct {
	Type     string `yaml:"type"`
	ID       string `yaml:"id,omitempty"`
	Text     string `yaml:"text,omitempty"`
	Title    string `yaml:"title,omitempty"`
	Color    string `yaml:"color,omitempty"`
	Wrap     bool   `yaml:"wrap,omitempty"`
	MaxLines int    `yaml:"maxLines,omitempty"`
	Scale    int    `yaml:"scale,omitempty"`
	Align    string `yaml:"align,omitempty"`
	// Width and Height are the intrinsic size of color and image nodes.
	Width    int    `yaml:"width,omitempty"`
	Height   int    `yaml:"height,omitempty"`
	Style    *Style `yaml:"style,omitempty"`
	Children []Node `yaml:"children,omitempty"`
}

// Style mirrors the layout.Style builder.
type Style struct {
	Width         *int     `yaml:"width,omitempty"`
	Height        *int     `yaml:"height,omitempty"`
	Padding       *int     `yaml:"padding,omitempty"`
	Margin        *int     `yaml:"margin,omitempty"`
	Grow          float64  `yaml:"grow,omitempty"`
	Shrink        *float64 `yaml:"shrink,omitempty"`
	Basis         *int     `yaml:"basis,omitempty"`
	Absolute      bool     `yaml:"absolute,omitempty"`
	Left          *int     `yaml:"left,omitempty"`
	Top           *int     `yaml:"top,omitempty"`
	Justify       string   `yaml:"justify,omitempty"`
	AlignItems    string   `yaml:"alignItems,omitempty"`
	AlignSelf     string   `yaml:"alignSelf,omitempty"`
	Background    string   `yaml:"background,omitempty"`
	Foreground    string   `yaml:"foreground,omitempty"`
	View          bool     `yaml:"view,omitempty"`
	TransitionKey string   `yaml:"transitionKey,omitempty"`
}

// Load reads and parses a fixture file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes a fixture. Unknown fields are rejected.
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if doc.Root != nil {
		doc.Frames = append([]Node{*doc.Root}, doc.Frames...)
		doc.Root = nil
	}
	if len(doc.Frames) == 0 {
		return nil, errors.New("fixture has no frames")
	}
	if doc.Width <= 0 || doc.Height <= 0 {
		return nil, fmt.Errorf("invalid viewport %dx%d", doc.Width, doc.Height)
	}
	return &doc, nil
}

// Trees builds every frame.
func (d *Document) Trees() ([]component.Component, error) {
	out := make([]component.Component, 0, len(d.Frames))
	for i := range d.Frames {
		c, err := d.Frames[i].Build()
		if err != nil {
			return nil, wrapPath(fmt.Sprintf("frames[%d]", i), err)
		}
		out = append(out, c)
	}
	return out, nil
}

// pathError prefixes an error with the node path it came from.
type pathError struct {
	path string
	err  error
}

func (e *pathError) Error() string { return e.path + ": " + e.err.Error() }
func (e *pathError) Unwrap() error { return e.err }

func wrapPath(prefix string, err error) error {
	var pe *pathError
	if errors.As(err, &pe) {
		return &pathError{path: prefix + pe.path, err: pe.err}
	}
	return &pathError{path: prefix, err: err}
}

// Build converts the node into a widgets component.
func (n *Node) Build() (component.Component, error) {
	style, err := n.Style.build()
	if err != nil {
		return nil, err
	}
	children := make([]component.Component, 0, len(n.Children))
	for i := range n.Children {
		c, err := n.Children[i].Build()
		if err != nil {
			return nil, wrapPath(fmt.Sprintf(".children[%d]", i), err)
		}
		children = append(children, c)
	}
	leaf := func() error {
		if len(children) > 0 {
			return fmt.Errorf("%s cannot have children", n.Type)
		}
		return nil
	}

	switch n.Type {
	case "column", "":
		return widgets.Column{ID: n.ID, Layout: style, Items: children}, nil
	case "row":
		return widgets.Row{ID: n.ID, Layout: style, Items: children}, nil
	case "view":
		return widgets.View{ID: n.ID, Layout: style, Items: children}, nil
	case "card":
		bg, err := parseColorOr(n.Color, graphics.ColorWhite)
		if err != nil {
			return nil, err
		}
		return widgets.Card{ID: n.ID, Title: n.Title, Background: bg, Items: children}, nil
	case "text":
		if err := leaf(); err != nil {
			return nil, err
		}
		c, err := parseColorOr(n.Color, graphics.ColorBlack)
		if err != nil {
			return nil, err
		}
		align, err := parseTextAlign(n.Align)
		if err != nil {
			return nil, err
		}
		return widgets.Text{
			ID:        n.ID,
			Content:   n.Text,
			TextStyle: graphics.TextStyle{Color: c, Scale: n.Scale},
			MaxLines:  n.MaxLines,
			Wrap:      n.Wrap,
			Align:     align,
			Layout:    style,
		}, nil
	case "color":
		if err := leaf(); err != nil {
			return nil, err
		}
		c, err := parseColorOr(n.Color, graphics.ColorBlack)
		if err != nil {
			return nil, err
		}
		return widgets.SolidColor{ID: n.ID, Color: c, Width: n.Width, Height: n.Height, Layout: style}, nil
	case "image":
		if err := leaf(); err != nil {
			return nil, err
		}
		c, err := parseColorOr(n.Color, graphics.RGB(0x90, 0x90, 0x90))
		if err != nil {
			return nil, err
		}
		return widgets.Image{ID: n.ID, Source: placeholder(n.Width, n.Height, c), Layout: style}, nil
	default:
		return nil, fmt.Errorf("unknown type %q", n.Type)
	}
}

// placeholder is a uniform image standing in for fixture images.
func placeholder(w, h int, c graphics.Color) image.Image {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
	return img
}
