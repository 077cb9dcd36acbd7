package layout

import (
	"strings"

	"github.com/go-drift/mountgraph/pkg/host"
	"github.com/go-drift/mountgraph/pkg/transition"
	"github.com/go-drift/mountgraph/pkg/visibility"
)

// PrivateFlags records which style attributes were explicitly set.
type PrivateFlags uint32

const (
	FlagWidth PrivateFlags = 1 << iota
	FlagHeight
	FlagMargin
	FlagPadding
	FlagPosition
	FlagPositionType
	FlagFlexGrow
	FlagFlexShrink
	FlagFlexBasis
	FlagAlignSelf
	FlagBorder
	FlagBackground
	FlagForeground
	FlagWrapInView
	FlagDuplicateParentState
	FlagEnabled
	FlagInteraction
	FlagVisibility
	FlagTransitionKey
	FlagDirection
	FlagJustify
	FlagAlignItems
)

var flagNames = []struct {
	flag PrivateFlags
	name string
}{
	{FlagWidth, "width"},
	{FlagHeight, "height"},
	{FlagMargin, "margin"},
	{FlagPadding, "padding"},
	{FlagPosition, "position"},
	{FlagPositionType, "positionType"},
	{FlagFlexGrow, "flexGrow"},
	{FlagFlexShrink, "flexShrink"},
	{FlagFlexBasis, "flexBasis"},
	{FlagAlignSelf, "alignSelf"},
	{FlagBorder, "border"},
	{FlagBackground, "background"},
	{FlagForeground, "foreground"},
	{FlagWrapInView, "wrapInView"},
	{FlagDuplicateParentState, "duplicateParentState"},
	{FlagEnabled, "enabled"},
	{FlagInteraction, "interaction"},
	{FlagVisibility, "visibility"},
	{FlagTransitionKey, "transitionKey"},
	{FlagDirection, "direction"},
	{FlagJustify, "justify"},
	{FlagAlignItems, "alignItems"},
}

// Has reports whether every bit of mask is set.
func (f PrivateFlags) Has(mask PrivateFlags) bool { return f&mask == mask }

// Any reports whether at least one bit of mask is set.
func (f PrivateFlags) Any(mask PrivateFlags) bool { return f&mask != 0 }

func (f PrivateFlags) String() string {
	var names []string
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// Edge selects one or more sides of a box.
type Edge int

const (
	EdgeLeft Edge = iota
	EdgeTop
	EdgeRight
	EdgeBottom
	EdgeHorizontal
	EdgeVertical
	EdgeAll
)

func (e Edge) sides() []int {
	switch e {
	case EdgeHorizontal:
		return []int{0, 2}
	case EdgeVertical:
		return []int{1, 3}
	case EdgeAll:
		return []int{0, 1, 2, 3}
	default:
		return []int{int(e)}
	}
}

// Edges holds per-side values and which sides were set.
type Edges struct {
	values [4]int
	set    uint8
}

func (e *Edges) apply(edge Edge, px int) {
	for _, side := range edge.sides() {
		e.values[side] = px
		e.set |= 1 << side
	}
}

// Get returns the value of a single side, zero if unset.
func (e Edges) Get(side Edge) int {
	if side > EdgeBottom {
		return 0
	}
	return e.values[side]
}

// IsSet reports whether side was explicitly given.
func (e Edges) IsSet(side Edge) bool {
	return side <= EdgeBottom && e.set&(1<<side) != 0
}

// Horizontal returns left + right.
func (e Edges) Horizontal() int { return e.values[0] + e.values[2] }

// Vertical returns top + bottom.
func (e Edges) Vertical() int { return e.values[1] + e.values[3] }

// PositionType selects flow or absolute positioning.
type PositionType int

const (
	PositionRelative PositionType = iota
	PositionAbsolute
)

// Direction is the main axis of a container.
type Direction int

const (
	Column Direction = iota
	Row
)

// Justify distributes children along the main axis.
type Justify int

const (
	JustifyStart Justify = iota
	JustifyCenter
	JustifyEnd
	JustifySpaceBetween
	JustifySpaceAround
)

// Align positions children along the cross axis.
type Align int

const (
	AlignAuto Align = iota
	AlignStart
	AlignCenter
	AlignEnd
	AlignStretch
)

// ClickHandler is invoked on click.
type ClickHandler func(v host.View)

// LongClickHandler is invoked on long click and reports whether it consumed it.
type LongClickHandler func(v host.View) bool

// TouchHandler is invoked for raw touch events.
type TouchHandler func(v host.View, ev host.TouchEvent) bool

// HandlerSlot names one slot of an InteractionInfo.
type HandlerSlot uint8

const (
	SlotClick HandlerSlot = 1 << iota
	SlotLongClick
	SlotTouch
)

// InteractionInfo is a closed set of handler slots. Each slot is
// independently nullable and independently marked as set. A slot that is set
// with a nil handler explicitly clears a previously mounted handler.
type InteractionInfo struct {
	Click     ClickHandler
	LongClick LongClickHandler
	Touch     TouchHandler
	set       HandlerSlot
}

// IsSet reports whether slot was explicitly assigned.
func (i *InteractionInfo) IsSet(slot HandlerSlot) bool {
	return i != nil && i.set&slot != 0
}

// IsEmpty reports whether no slot carries a handler.
func (i *InteractionInfo) IsEmpty() bool {
	return i == nil || (i.Click == nil && i.LongClick == nil && i.Touch == nil)
}

// VisibilitySpec attaches visibility handlers to a node.
type VisibilitySpec struct {
	Handlers   visibility.Handlers
	EnterRatio float64
}

// Style is the set of layout and output attributes of one node. Setters
// record a PrivateFlags bit so explicitly set values can be told apart from
// defaults. A Style must not be modified once handed to a tree.
type Style struct {
	flags PrivateFlags

	width, height int
	margin        Edges
	padding       Edges
	position      Edges
	positionType  PositionType
	flexGrow      float64
	flexShrink    float64
	flexBasis     int
	alignSelf     Align
	direction     Direction
	justify       Justify
	alignItems    Align
	border        Border

	background, foreground host.DrawableSpec

	duplicateParentState bool
	enabled              bool
	interaction          InteractionInfo
	visibility           VisibilitySpec

	transitionKey     string
	transitionKeyType transition.KeyType
}

// NewStyle returns an empty style.
func NewStyle() *Style {
	return &Style{flexShrink: 1, enabled: true, alignItems: AlignStretch}
}

// Clone returns a copy of s that can be modified independently. A nil
// style clones to an empty one.
func (s *Style) Clone() *Style {
	if s == nil {
		return NewStyle()
	}
	cp := *s
	return &cp
}

func (s *Style) mark(f PrivateFlags) *Style {
	s.flags |= f
	return s
}

// Flags returns the explicitly-set attribute bits.
func (s *Style) Flags() PrivateFlags {
	if s == nil {
		return 0
	}
	return s.flags
}

// IsSet reports whether flag was explicitly set.
func (s *Style) IsSet(flag PrivateFlags) bool { return s.Flags().Has(flag) }

// Width sets an exact width in pixels.
func (s *Style) Width(px int) *Style {
	s.width = px
	return s.mark(FlagWidth)
}

// Height sets an exact height in pixels.
func (s *Style) Height(px int) *Style {
	s.height = px
	return s.mark(FlagHeight)
}

// Size sets width and height.
func (s *Style) Size(w, h int) *Style { return s.Width(w).Height(h) }

// Margin sets the outer spacing of the given edges.
func (s *Style) Margin(edge Edge, px int) *Style {
	s.margin.apply(edge, px)
	return s.mark(FlagMargin)
}

// Padding sets the inner spacing of the given edges.
func (s *Style) Padding(edge Edge, px int) *Style {
	s.padding.apply(edge, px)
	return s.mark(FlagPadding)
}

// Position sets an offset used by absolute positioning.
func (s *Style) Position(edge Edge, px int) *Style {
	s.position.apply(edge, px)
	return s.mark(FlagPosition)
}

// PositionType chooses relative or absolute positioning.
func (s *Style) PositionType(t PositionType) *Style {
	s.positionType = t
	return s.mark(FlagPositionType)
}

// FlexGrow sets the share of free main-axis space the node takes.
func (s *Style) FlexGrow(f float64) *Style {
	s.flexGrow = f
	return s.mark(FlagFlexGrow)
}

// FlexShrink sets the share of overflow the node gives up.
func (s *Style) FlexShrink(f float64) *Style {
	s.flexShrink = f
	return s.mark(FlagFlexShrink)
}

// FlexBasis sets the main-axis size before growing or shrinking.
func (s *Style) FlexBasis(px int) *Style {
	s.flexBasis = px
	return s.mark(FlagFlexBasis)
}

// AlignSelf overrides the parent's AlignItems for this node.
func (s *Style) AlignSelf(a Align) *Style {
	s.alignSelf = a
	return s.mark(FlagAlignSelf)
}

// Direction sets the main axis of a container.
func (s *Style) Direction(d Direction) *Style {
	s.direction = d
	return s.mark(FlagDirection)
}

// Justify distributes children along the main axis.
func (s *Style) Justify(j Justify) *Style {
	s.justify = j
	return s.mark(FlagJustify)
}

// AlignItems aligns children on the cross axis.
func (s *Style) AlignItems(a Align) *Style {
	s.alignItems = a
	return s.mark(FlagAlignItems)
}

// Border applies a border built with NewBorder.
func (s *Style) Border(b Border) *Style {
	s.border = b
	return s.mark(FlagBorder)
}

// Background sets the drawable painted behind the node.
func (s *Style) Background(d host.DrawableSpec) *Style {
	s.background = d
	return s.mark(FlagBackground)
}

// Foreground sets the drawable painted over the node and its children.
func (s *Style) Foreground(d host.DrawableSpec) *Style {
	s.foreground = d
	return s.mark(FlagForeground)
}

// WrapInView forces a host view for the node.
func (s *Style) WrapInView() *Style { return s.mark(FlagWrapInView) }

// DuplicateParentState makes the host view mirror its parent's pressed state.
func (s *Style) DuplicateParentState(v bool) *Style {
	s.duplicateParentState = v
	return s.mark(FlagDuplicateParentState)
}

// Enabled toggles whether the host view accepts input.
func (s *Style) Enabled(v bool) *Style {
	s.enabled = v
	return s.mark(FlagEnabled)
}

// OnClick sets the click slot. A nil handler clears it.
func (s *Style) OnClick(h ClickHandler) *Style {
	s.interaction.Click = h
	s.interaction.set |= SlotClick
	return s.mark(FlagInteraction)
}

// OnLongClick sets the long-click slot. A nil handler clears it.
func (s *Style) OnLongClick(h LongClickHandler) *Style {
	s.interaction.LongClick = h
	s.interaction.set |= SlotLongClick
	return s.mark(FlagInteraction)
}

// OnTouch sets the touch slot. A nil handler clears it.
func (s *Style) OnTouch(h TouchHandler) *Style {
	s.interaction.Touch = h
	s.interaction.set |= SlotTouch
	return s.mark(FlagInteraction)
}

// Visibility attaches visibility handlers. enterRatio is the fraction of the
// height trimmed from each end before the item counts as entered.
func (s *Style) Visibility(h visibility.Handlers, enterRatio float64) *Style {
	s.visibility = VisibilitySpec{Handlers: h, EnterRatio: enterRatio}
	return s.mark(FlagVisibility)
}

// TransitionKey gives the node's output a cross-commit identity.
func (s *Style) TransitionKey(key string, t transition.KeyType) *Style {
	s.transitionKey = key
	s.transitionKeyType = t
	return s.mark(FlagTransitionKey)
}

// Accessors. All are safe on a nil style and return defaults.

// GetWidth and GetHeight return the explicit size, if any.
func (s *Style) GetWidth() (int, bool)  { return s.sized(FlagWidth, func() int { return s.width }) }
func (s *Style) GetHeight() (int, bool) { return s.sized(FlagHeight, func() int { return s.height }) }

func (s *Style) sized(f PrivateFlags, get func() int) (int, bool) {
	if !s.IsSet(f) {
		return 0, false
	}
	return get(), true
}

func (s *Style) GetMargin() Edges {
	if s == nil {
		return Edges{}
	}
	return s.margin
}

func (s *Style) GetPadding() Edges {
	if s == nil {
		return Edges{}
	}
	return s.padding
}

func (s *Style) GetPosition() Edges {
	if s == nil {
		return Edges{}
	}
	return s.position
}

func (s *Style) GetPositionType() PositionType {
	if s == nil {
		return PositionRelative
	}
	return s.positionType
}

func (s *Style) GetFlexGrow() float64 {
	if s == nil {
		return 0
	}
	return s.flexGrow
}

func (s *Style) GetFlexShrink() float64 {
	if s == nil {
		return 1
	}
	return s.flexShrink
}

func (s *Style) GetFlexBasis() (int, bool) {
	return s.sized(FlagFlexBasis, func() int { return s.flexBasis })
}

func (s *Style) GetAlignSelf() Align {
	if s == nil {
		return AlignAuto
	}
	return s.alignSelf
}

func (s *Style) GetDirection() Direction {
	if s == nil {
		return Column
	}
	return s.direction
}

func (s *Style) GetJustify() Justify {
	if s == nil {
		return JustifyStart
	}
	return s.justify
}

func (s *Style) GetAlignItems() Align {
	if s == nil {
		return AlignStretch
	}
	return s.alignItems
}

func (s *Style) GetBorder() Border {
	if s == nil {
		return Border{}
	}
	return s.border
}

func (s *Style) GetBackground() host.DrawableSpec {
	if s == nil {
		return nil
	}
	return s.background
}

func (s *Style) GetForeground() host.DrawableSpec {
	if s == nil {
		return nil
	}
	return s.foreground
}

func (s *Style) IsWrapInView() bool { return s.IsSet(FlagWrapInView) }

func (s *Style) IsDuplicateParentState() bool { return s != nil && s.duplicateParentState }

func (s *Style) IsEnabled() bool { return s == nil || s.enabled }

// Interaction returns the handler slots, or nil when none was set.
func (s *Style) Interaction() *InteractionInfo {
	if !s.IsSet(FlagInteraction) {
		return nil
	}
	info := s.interaction
	return &info
}

// GetVisibility returns the visibility spec, or nil when none was set.
func (s *Style) GetVisibility() *VisibilitySpec {
	if !s.IsSet(FlagVisibility) {
		return nil
	}
	v := s.visibility
	return &v
}

// GetTransitionKey returns the transition key and its type.
func (s *Style) GetTransitionKey() (string, transition.KeyType, bool) {
	if !s.IsSet(FlagTransitionKey) {
		return "", transition.KeyGlobal, false
	}
	return s.transitionKey, s.transitionKeyType, true
}
