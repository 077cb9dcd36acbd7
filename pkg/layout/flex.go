package layout

import (
	"context"

	"github.com/go-drift/mountgraph/pkg/component"
	"github.com/go-drift/mountgraph/pkg/errors"
	"github.com/go-drift/mountgraph/pkg/graphics"
)

// FlexEngine is a single-line flexbox implementation: row and column
// containers with padding, border, margins, grow/shrink, justify and
// alignment. Absolute children are laid out outside the flow.
type FlexEngine struct{}

// Layout implements Engine.
func (FlexEngine) Layout(ctx context.Context, root *Node, widthSpec, heightSpec MeasureSpec) (*Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	l := &flexLayout{ctx: ctx}
	return l.layout(root, widthSpec, heightSpec)
}

type flexLayout struct {
	ctx  context.Context
	path []*Node
}

func (l *flexLayout) layout(n *Node, w, h MeasureSpec) (*Node, error) {
	if n.isLaidOut(w, h) {
		return n, nil
	}
	if err := l.ctx.Err(); err != nil {
		return nil, Interrupted(err)
	}
	n = n.Mutable()
	l.path = append(l.path, n)
	defer func() { l.path = l.path[:len(l.path)-1] }()

	var err error
	switch {
	case n.IsComposite():
		err = l.layoutComposite(n, w, h)
	case len(n.children) == 0:
		err = l.layoutLeaf(n, w, h)
	default:
		err = l.layoutContainer(n, w, h)
	}
	if err != nil {
		return nil, err
	}
	n.laidOut = true
	return n, nil
}

// A composite is transparent: its rendered root fills it at the origin.
func (l *flexLayout) layoutComposite(n *Node, w, h MeasureSpec) error {
	if len(n.children) == 0 {
		n.setSize(w.Resolve(0), h.Resolve(0), w, h)
		return nil
	}
	child, err := l.layout(n.children[0], w, h)
	if err != nil {
		return err
	}
	child = child.positioned(0, 0)
	n.SetChildAt(0, child)
	n.setSize(child.width, child.height, w, h)
	return nil
}

func (l *flexLayout) layoutLeaf(n *Node, w, h MeasureSpec) error {
	st := n.style
	ws, hs := fixed(w, st.GetWidth), fixed(h, st.GetHeight)
	insetH := st.GetPadding().Horizontal() + st.GetBorder().Horizontal()
	insetV := st.GetPadding().Vertical() + st.GetBorder().Vertical()

	size := graphics.Size{}
	if m, ok := n.component.(Measurer); ok {
		measured, err := l.measure(m, shrink(ws, insetH), shrink(hs, insetV))
		if err != nil {
			return err
		}
		size = measured
	}
	n.setSize(ws.Resolve(size.Width+insetH), hs.Resolve(size.Height+insetV), w, h)
	return nil
}

func (l *flexLayout) measure(m Measurer, w, h MeasureSpec) (size graphics.Size, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = l.componentError(r)
		}
	}()
	return m.Measure(w, h), nil
}

func (l *flexLayout) componentError(r any) error {
	n := l.path[len(l.path)-1]
	err := component.Recovered(n.component, n.key, "measure", r)
	if ce, ok := err.(*errors.ComponentError); ok && len(ce.Stack) == 0 {
		ce.Stack = ComponentStack(l.path)
	}
	return err
}

type flexItem struct {
	index          int
	node           *Node
	main, cross    int
	marginMain     int
	marginCross    int
	leadMain       int
	leadCross      int
	crossSpec      MeasureSpec
	align          Align
	fixedMain      bool
	grow, shrinkBy float64
}

func (l *flexLayout) layoutContainer(n *Node, w, h MeasureSpec) error {
	st := n.style
	row := st.GetDirection() == Row
	pad, border := st.GetPadding(), st.GetBorder()
	left := pad.Get(EdgeLeft) + border.Width(EdgeLeft)
	top := pad.Get(EdgeTop) + border.Width(EdgeTop)
	insetH := pad.Horizontal() + border.Horizontal()
	insetV := pad.Vertical() + border.Vertical()

	ws, hs := fixed(w, st.GetWidth), fixed(h, st.GetHeight)
	innerW, innerH := shrink(ws, insetH), shrink(hs, insetV)
	mainSpec, crossSpec := innerH, innerW
	leadMainInset, leadCrossInset := top, left
	if row {
		mainSpec, crossSpec = innerW, innerH
		leadMainInset, leadCrossInset = left, top
	}

	var items []*flexItem
	var absolute []int
	for i, c := range n.children {
		if c.style.GetPositionType() == PositionAbsolute {
			absolute = append(absolute, i)
			continue
		}
		cs := c.style
		m := cs.GetMargin()
		it := &flexItem{
			index:    i,
			grow:     cs.GetFlexGrow(),
			shrinkBy: cs.GetFlexShrink(),
			align:    cs.GetAlignSelf(),
		}
		if it.align == AlignAuto {
			it.align = st.GetAlignItems()
		}
		var fixedMain, fixedCross func() (int, bool)
		if row {
			it.marginMain, it.marginCross = m.Horizontal(), m.Vertical()
			it.leadMain, it.leadCross = m.Get(EdgeLeft), m.Get(EdgeTop)
			fixedMain, fixedCross = cs.GetWidth, cs.GetHeight
		} else {
			it.marginMain, it.marginCross = m.Vertical(), m.Horizontal()
			it.leadMain, it.leadCross = m.Get(EdgeTop), m.Get(EdgeLeft)
			fixedMain, fixedCross = cs.GetHeight, cs.GetWidth
		}

		var childMain MeasureSpec
		if px, ok := fixedMain(); ok {
			childMain, it.fixedMain = ExactlySpec(px), true
		} else if px, ok := cs.GetFlexBasis(); ok {
			childMain = ExactlySpec(px)
		} else {
			childMain = available(mainSpec, it.marginMain)
		}
		if px, ok := fixedCross(); ok {
			it.crossSpec = ExactlySpec(px)
		} else if it.align == AlignStretch && crossSpec.Mode() == Exactly {
			it.crossSpec = ExactlySpec(crossSpec.Size() - it.marginCross)
		} else {
			it.crossSpec = available(crossSpec, it.marginCross)
		}
		if err := l.layoutItem(n, it, childMain, row); err != nil {
			return err
		}
		items = append(items, it)
	}

	used := 0
	for _, it := range items {
		used += it.main + it.marginMain
	}

	if mainSpec.Mode() == Exactly {
		if err := l.flex(n, items, mainSpec.Size()-used, row); err != nil {
			return err
		}
		used = 0
		for _, it := range items {
			used += it.main + it.marginMain
		}
	}

	contentCross := 0
	for _, it := range items {
		contentCross = max(contentCross, it.cross+it.marginCross)
	}
	innerMain := mainSpec.Resolve(used)
	innerCross := crossSpec.Resolve(contentCross)

	// Stretch items that could not be sized against an exact cross axis.
	for _, it := range items {
		if it.align != AlignStretch || it.crossSpec.Mode() == Exactly {
			continue
		}
		if target := innerCross - it.marginCross; target != it.cross && target >= 0 {
			it.crossSpec = ExactlySpec(target)
			if err := l.layoutItem(n, it, ExactlySpec(it.main), row); err != nil {
				return err
			}
		}
	}

	start, gap := justify(st.GetJustify(), innerMain-used, len(items))
	pos := start
	for _, it := range items {
		crossOffset := 0
		switch it.align {
		case AlignCenter:
			crossOffset = (innerCross - it.cross - it.marginCross) / 2
		case AlignEnd:
			crossOffset = innerCross - it.cross - it.marginCross
		}
		mainPos := leadMainInset + pos + it.leadMain
		crossPos := leadCrossInset + it.leadCross + crossOffset
		x, y := crossPos, mainPos
		if row {
			x, y = mainPos, crossPos
		}
		n.SetChildAt(it.index, it.node.positioned(x, y))
		pos += it.main + it.marginMain + gap
	}

	width, height := innerCross+insetH, innerMain+insetV
	if row {
		width, height = innerMain+insetH, innerCross+insetV
	}
	width, height = ws.Resolve(width), hs.Resolve(height)

	for _, i := range absolute {
		if err := l.layoutAbsolute(n, i, width, height); err != nil {
			return err
		}
	}
	n.setSize(width, height, w, h)
	return nil
}

func (l *flexLayout) layoutItem(parent *Node, it *flexItem, mainSpec MeasureSpec, row bool) error {
	cw, ch := it.crossSpec, mainSpec
	if row {
		cw, ch = mainSpec, it.crossSpec
	}
	laid, err := l.layout(parent.children[it.index], cw, ch)
	if err != nil {
		return err
	}
	parent.SetChildAt(it.index, laid)
	it.node = laid
	if row {
		it.main, it.cross = laid.width, laid.height
	} else {
		it.main, it.cross = laid.height, laid.width
	}
	return nil
}

// flex distributes free space (positive) or overflow (negative) along the
// main axis and re-lays out the affected items.
func (l *flexLayout) flex(parent *Node, items []*flexItem, free int, row bool) error {
	if free == 0 {
		return nil
	}
	weight := func(it *flexItem) float64 {
		if it.fixedMain {
			return 0
		}
		if free > 0 {
			return it.grow
		}
		return it.shrinkBy * float64(it.main)
	}
	total := 0.0
	last := -1
	for i, it := range items {
		if wgt := weight(it); wgt > 0 {
			total += wgt
			last = i
		}
	}
	if total == 0 {
		return nil
	}
	distributed := 0
	for i, it := range items {
		wgt := weight(it)
		if wgt == 0 {
			continue
		}
		share := int(float64(free) * wgt / total)
		if i == last {
			share = free - distributed
		}
		distributed += share
		if err := l.layoutItem(parent, it, ExactlySpec(max(0, it.main+share)), row); err != nil {
			return err
		}
	}
	return nil
}

func (l *flexLayout) layoutAbsolute(parent *Node, i, width, height int) error {
	c := parent.children[i]
	st := c.style
	pos := st.GetPosition()
	m := st.GetMargin()

	ws := AtMostSpec(width - m.Horizontal())
	if px, ok := st.GetWidth(); ok {
		ws = ExactlySpec(px)
	} else if pos.IsSet(EdgeLeft) && pos.IsSet(EdgeRight) {
		ws = ExactlySpec(width - pos.Get(EdgeLeft) - pos.Get(EdgeRight) - m.Horizontal())
	}
	hs := AtMostSpec(height - m.Vertical())
	if px, ok := st.GetHeight(); ok {
		hs = ExactlySpec(px)
	} else if pos.IsSet(EdgeTop) && pos.IsSet(EdgeBottom) {
		hs = ExactlySpec(height - pos.Get(EdgeTop) - pos.Get(EdgeBottom) - m.Vertical())
	}

	laid, err := l.layout(c, ws, hs)
	if err != nil {
		return err
	}
	x, y := AbsoluteOffset(st, width, height, laid.width, laid.height)
	parent.SetChildAt(i, laid.positioned(x, y))
	return nil
}

// AbsoluteOffset resolves the offset of an absolutely positioned box of size
// (w, h) inside a container of size (cw, ch).
func AbsoluteOffset(st *Style, cw, ch, w, h int) (x, y int) {
	pos, m := st.GetPosition(), st.GetMargin()
	switch {
	case pos.IsSet(EdgeLeft):
		x = pos.Get(EdgeLeft) + m.Get(EdgeLeft)
	case pos.IsSet(EdgeRight):
		x = cw - pos.Get(EdgeRight) - m.Get(EdgeRight) - w
	default:
		x = m.Get(EdgeLeft)
	}
	switch {
	case pos.IsSet(EdgeTop):
		y = pos.Get(EdgeTop) + m.Get(EdgeTop)
	case pos.IsSet(EdgeBottom):
		y = ch - pos.Get(EdgeBottom) - m.Get(EdgeBottom) - h
	default:
		y = m.Get(EdgeTop)
	}
	return x, y
}

func justify(j Justify, free, count int) (start, gap int) {
	if free <= 0 || count == 0 {
		return 0, 0
	}
	switch j {
	case JustifyCenter:
		return free / 2, 0
	case JustifyEnd:
		return free, 0
	case JustifySpaceBetween:
		if count == 1 {
			return 0, 0
		}
		return 0, free / (count - 1)
	case JustifySpaceAround:
		gap = free / count
		return gap / 2, gap
	default:
		return 0, 0
	}
}

// fixed narrows spec to an explicit size when the style sets one.
func fixed(spec MeasureSpec, get func() (int, bool)) MeasureSpec {
	if px, ok := get(); ok {
		return ExactlySpec(px)
	}
	return spec
}

// shrink removes by pixels of insets from a constrained spec.
func shrink(spec MeasureSpec, by int) MeasureSpec {
	if spec.Mode() == Unspecified || by == 0 {
		return spec
	}
	return MakeMeasureSpec(spec.Size()-by, spec.Mode())
}

// available is the spec a child gets from a parent axis, minus its margins.
func available(spec MeasureSpec, margins int) MeasureSpec {
	if spec.Mode() == Unspecified {
		return spec
	}
	return AtMostSpec(spec.Size() - margins)
}
