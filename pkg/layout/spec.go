package layout

import "fmt"

// SpecMode is the constraint mode of a MeasureSpec.
type SpecMode int

const (
	// Unspecified places no constraint on the size.
	Unspecified SpecMode = iota
	// Exactly requires the given size.
	Exactly
	// AtMost allows any size up to the given one.
	AtMost
)

func (m SpecMode) String() string {
	switch m {
	case Exactly:
		return "EXACTLY"
	case AtMost:
		return "AT_MOST"
	default:
		return "UNSPECIFIED"
	}
}

const (
	specModeShift = 30
	specSizeMask  = (1 << specModeShift) - 1
)

// MeasureSpec packs a SpecMode in the top two bits and a non-negative size
// in the remaining bits, matching the toolkit's encoding.
type MeasureSpec int32

// MakeMeasureSpec encodes size and mode. Negative sizes are clamped to zero.
func MakeMeasureSpec(size int, mode SpecMode) MeasureSpec {
	if size < 0 {
		size = 0
	}
	if size > specSizeMask {
		size = specSizeMask
	}
	return MeasureSpec(int32(mode)<<specModeShift | int32(size))
}

// ExactlySpec returns an Exactly spec of size.
func ExactlySpec(size int) MeasureSpec { return MakeMeasureSpec(size, Exactly) }

// AtMostSpec returns an AtMost spec of size.
func AtMostSpec(size int) MeasureSpec { return MakeMeasureSpec(size, AtMost) }

// UnspecifiedSpec returns an Unspecified spec.
func UnspecifiedSpec() MeasureSpec { return MakeMeasureSpec(0, Unspecified) }

// Mode returns the spec mode.
func (s MeasureSpec) Mode() SpecMode { return SpecMode(uint32(s) >> specModeShift) }

// Size returns the spec size.
func (s MeasureSpec) Size() int { return int(s) & specSizeMask }

// Resolve returns the size a node wanting desired should take.
func (s MeasureSpec) Resolve(desired int) int {
	switch s.Mode() {
	case Exactly:
		return s.Size()
	case AtMost:
		return min(desired, s.Size())
	default:
		return desired
	}
}

func (s MeasureSpec) String() string {
	if s.Mode() == Unspecified {
		return "UNSPECIFIED"
	}
	return fmt.Sprintf("%s %d", s.Mode(), s.Size())
}
