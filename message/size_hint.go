package message

import "fmt"

// SizeHint bounds the size of a body in bytes. Upper is optional; an exact
// size is known when lower == upper.
type SizeHint struct {
	lower    uint64
	upper    uint64
	hasUpper bool
}

// NewSizeHint returns a hint with lower 0 and no upper bound.
func NewSizeHint() SizeHint { return SizeHint{} }

// ExactSize returns a hint for a body of exactly n bytes.
func ExactSize(n uint64) SizeHint {
	return SizeHint{lower: n, upper: n, hasUpper: true}
}

// Lower returns the lower bound.
func (h SizeHint) Lower() uint64 { return h.lower }

// Upper returns the upper bound, if any.
func (h SizeHint) Upper() (uint64, bool) { return h.upper, h.hasUpper }

// Exact returns the exact size when lower and upper agree.
func (h SizeHint) Exact() (uint64, bool) {
	if h.hasUpper && h.lower == h.upper {
		return h.upper, true
	}
	return 0, false
}

// SetLower sets the lower bound. It panics if n exceeds the upper bound.
func (h *SizeHint) SetLower(n uint64) {
	if h.hasUpper && n > h.upper {
		panic(fmt.Sprintf("size hint: lower %d is greater than upper %d", n, h.upper))
	}
	h.lower = n
}

// SetUpper sets the upper bound. It panics if n is less than the lower bound.
func (h *SizeHint) SetUpper(n uint64) {
	if n < h.lower {
		panic(fmt.Sprintf("size hint: upper %d is less than lower %d", n, h.lower))
	}
	h.upper, h.hasUpper = n, true
}

// SetExact sets both bounds to n.
func (h *SizeHint) SetExact(n uint64) {
	h.lower, h.upper, h.hasUpper = n, n, true
}

// String renders the hint as "lower..upper".
func (h SizeHint) String() string {
	if !h.hasUpper {
		return fmt.Sprintf("%d..", h.lower)
	}
	return fmt.Sprintf("%d..%d", h.lower, h.upper)
}
