package grouped

import (
	"strings"

	"github.com/matzehuels/mosaic/pkg/errors"
)

// PositionFlags marks which edges of a frame lie on the outer boundary of the
// collage. The bit values are stable: renderers persist and compare them.
type PositionFlags uint32

const (
	PositionTop PositionFlags = 1 << iota
	PositionBottom
	PositionLeft
	PositionRight
	PositionInside

	// PositionNone means no edge is on the boundary, or for a single item
	// that the frame is the whole bubble.
	PositionNone PositionFlags = 0
)

var flagNames = []struct {
	flag PositionFlags
	name string
}{
	{PositionTop, "top"},
	{PositionBottom, "bottom"},
	{PositionLeft, "left"},
	{PositionRight, "right"},
	{PositionInside, "inside"},
}

// Has reports whether every bit of f is set.
func (p PositionFlags) Has(f PositionFlags) bool { return p&f == f }

// Names returns the set flags in bit order.
func (p PositionFlags) Names() []string {
	var names []string
	for _, fn := range flagNames {
		if p.Has(fn.flag) {
			names = append(names, fn.name)
		}
	}
	return names
}

// String renders the flags as "top|left", or "none".
func (p PositionFlags) String() string {
	if p == PositionNone {
		return "none"
	}
	return strings.Join(p.Names(), "|")
}

// ParseFlags is the inverse of [PositionFlags.Names]. "none" and empty
// strings are ignored.
func ParseFlags(names []string) (PositionFlags, error) {
	var p PositionFlags
outer:
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || name == "none" {
			continue
		}
		for _, fn := range flagNames {
			if fn.name == name {
				p |= fn.flag
				continue outer
			}
		}
		return PositionNone, errors.New(errors.ErrCodeInvalidFormat, "unknown position flag %q", name)
	}
	return p, nil
}
