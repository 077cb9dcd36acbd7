// Package widgets provides the basic components applications build trees
// from: layout containers (Row, Column, View), display leaves (Text,
// SolidColor, Image), decoration (Card) and ErrorBoundary.
//
// # Construction
//
// Widgets are plain struct literals. ID is the manual key; leave it empty
// for positional identity. Layout carries flexbox and decoration
// attributes and is never modified by the widget:
//
//	widgets.Column{
//	    ID:     "feed",
//	    Layout: layout.NewStyle().Padding(layout.EdgeAll, 8),
//	    Items: []component.Component{
//	        widgets.Text{Content: "Title", TextStyle: graphics.TextStyle{Scale: 2}},
//	        widgets.SolidColor{Color: graphics.RGB(0xEE, 0xEE, 0xEE), Height: 1},
//	    },
//	}
//
// Leaves mount drawables from this package (TextDrawable, ColorDrawable,
// ImageDrawable). A host toolkit binding paints them; the engine only
// positions them.
package widgets
