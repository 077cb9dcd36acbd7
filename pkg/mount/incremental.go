package mount

import (
	"sort"

	"github.com/go-drift/mountgraph/pkg/graphics"
	"github.com/go-drift/mountgraph/pkg/layoutstate"
)

// Visible returns the outputs of s whose bounds intersect visible, in mount
// order. Candidates are narrowed with binary searches over the top and
// bottom orderings: an output intersects only if it starts above the
// visible bottom and ends below the visible top.
func Visible(s *layoutstate.State, visible graphics.Rect) []*layoutstate.Output {
	if visible.IsEmpty() {
		return nil
	}
	byTop, byBottom := s.ByTop(), s.ByBottom()

	// byTop[:above] all have Top < visible.Bottom.
	above := sort.Search(len(byTop), func(i int) bool { return byTop[i].Bounds.Top >= visible.Bottom })
	// byBottom[below:] all have Bottom > visible.Top.
	below := sort.Search(len(byBottom), func(i int) bool { return byBottom[i].Bounds.Bottom > visible.Top })

	startsAbove := make(map[int]bool, above)
	for _, o := range byTop[:above] {
		startsAbove[o.Index] = true
	}
	var hits []int
	for _, o := range byBottom[below:] {
		if startsAbove[o.Index] && overlapsHorizontally(o.Bounds, visible) && !o.Bounds.IsEmpty() {
			hits = append(hits, o.Index)
		}
	}
	sort.Ints(hits)
	out := make([]*layoutstate.Output, len(hits))
	for i, idx := range hits {
		out[i] = s.At(idx)
	}
	return out
}

func overlapsHorizontally(b, visible graphics.Rect) bool {
	return b.Left < visible.Right && b.Right > visible.Left
}
